// ABOUTME: Derived views over the Store's collection.
// ABOUTME: Statistics, summaries and tag listings.

package store

import (
	"sort"

	"github.com/harper/coursetrack/internal/models"
)

func (s *Store) Statistics() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ComputeStats(s.courses)
}

func (s *Store) Summary() models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Summarize(s.courses)
}

// Tags returns every tag in use, lowercased and sorted.
func (s *Store) Tags() []string {
	counts := s.TagCounts()
	names := make([]string, 0, len(counts))
	for _, t := range counts {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// TagCounts returns tags with the number of courses using them, most used first.
func (s *Store) TagCounts() []models.Tag {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, c := range s.courses {
		seen := make(map[string]bool)
		for _, t := range c.Tags {
			name := models.NormalizeTag(t)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			counts[name]++
		}
	}
	s.mu.RUnlock()

	tags := make([]models.Tag, 0, len(counts))
	for name, n := range counts {
		tags = append(tags, models.NewTag(name, n))
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})
	return tags
}
