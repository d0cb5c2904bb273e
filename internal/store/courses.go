// ABOUTME: Course operations exposed by the Store.
// ABOUTME: CRUD, favorites, progress tracking and duplication.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/coursetrack/internal/models"
)

// All returns a copy of the collection in storage order.
func (s *Store) All() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.courses)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

func (s *Store) Get(id string) (models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.courses {
		if s.courses[i].ID == id {
			return s.courses[i].Clone(), nil
		}
	}
	return models.Course{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Find resolves an exact id, or a unique id prefix of at least six characters.
func (s *Store) Find(ref string) (models.Course, error) {
	if c, err := s.Get(ref); err == nil {
		return c, nil
	}
	if len(ref) < 6 {
		return models.Course{}, ErrPrefixTooShort
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var match *models.Course
	for i := range s.courses {
		if strings.HasPrefix(s.courses[i].ID, ref) {
			if match != nil {
				return models.Course{}, ErrAmbiguousPrefix
			}
			match = &s.courses[i]
		}
	}
	if match == nil {
		return models.Course{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match.Clone(), nil
}

// Add creates a course from the patch. An unset status is derived from progress.
func (s *Store) Add(ctx context.Context, p models.CoursePatch) (models.Course, error) {
	c := models.NewCourse("", 0)
	p.Apply(c)
	c.Clamp()
	if p.Status == nil {
		c.Status = models.DeriveStatus(c.CompletedLessons, c.TotalLessons)
	}
	c.Touch()

	saved, err := s.add(ctx, *c)
	if err != nil {
		s.logger.Error().Err(err).Str("title", c.Title).Msg("add course failed")
		return models.Course{}, err
	}
	s.logger.Debug().Str("id", saved.ID).Str("title", saved.Title).Msg("course added")
	return saved, nil
}

// Update merges p over the stored record. Status may be set independently of
// progress here.
func (s *Store) Update(ctx context.Context, id string, p models.CoursePatch) (models.Course, error) {
	unlock := s.records.lock(id)
	defer unlock()

	c, err := s.Get(id)
	if err != nil {
		s.logger.Warn().Str("id", id).Msg("update: course not found")
		return models.Course{}, err
	}
	p.Apply(&c)
	c.Clamp()
	c.Touch()

	saved, err := s.update(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("update course failed")
		return models.Course{}, err
	}
	return saved, nil
}

// Remove deletes a course. It returns false without touching storage when
// the id is unknown.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	unlock := s.records.lock(id)
	defer unlock()

	if _, err := s.Get(id); err != nil {
		s.logger.Warn().Str("id", id).Msg("remove: course not found")
		return false, nil
	}
	if err := s.remove(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("remove course failed")
		return false, err
	}
	return true, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	unlock := s.records.lock(id)
	defer unlock()

	c, err := s.Get(id)
	if err != nil {
		return false, err
	}
	c.Favorite = !c.Favorite
	c.Touch()

	saved, err := s.update(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("toggle favorite failed")
		return false, err
	}
	return saved.Favorite, nil
}

// AdjustProgress adds delta completed lessons, clamps, and derives status.
func (s *Store) AdjustProgress(ctx context.Context, id string, delta int) (models.Course, error) {
	unlock := s.records.lock(id)
	defer unlock()
	return s.adjustProgress(ctx, id, delta)
}

func (s *Store) adjustProgress(ctx context.Context, id string, delta int) (models.Course, error) {
	c, err := s.Get(id)
	if err != nil {
		return models.Course{}, err
	}
	c.CompletedLessons = addLessons(c.CompletedLessons, delta, c.TotalLessons)
	c.Status = models.DeriveStatus(c.CompletedLessons, c.TotalLessons)
	c.Touch()

	saved, err := s.update(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Int("delta", delta).Msg("adjust progress failed")
		return models.Course{}, err
	}
	return saved, nil
}

// addLessons applies delta to completed without overflowing, clamped to [0, total].
func addLessons(completed, delta, total int) int {
	completed = models.ClampLessons(completed, total)
	switch {
	case delta > total-completed:
		return total
	case delta < -completed:
		return 0
	}
	return completed + delta
}

// SetProgress moves completed lessons to target, clamped to the course size.
func (s *Store) SetProgress(ctx context.Context, id string, target int) (models.Course, error) {
	unlock := s.records.lock(id)
	defer unlock()

	c, err := s.Get(id)
	if err != nil {
		return models.Course{}, err
	}
	target = models.ClampLessons(target, c.TotalLessons)
	return s.adjustProgress(ctx, id, target-c.CompletedLessons)
}

// Duplicate stores a copy of the course under a new id. The copy is never a
// favorite and its title carries CopySuffix.
func (s *Store) Duplicate(ctx context.Context, id string) (models.Course, error) {
	src, err := s.Get(id)
	if err != nil {
		return models.Course{}, err
	}
	c := src.Clone()
	c.ID = models.NewID()
	c.Title += CopySuffix
	c.Favorite = false
	c.Touch()

	saved, err := s.add(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("duplicate course failed")
		return models.Course{}, err
	}
	return saved, nil
}
