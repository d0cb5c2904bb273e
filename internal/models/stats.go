// ABOUTME: Derived statistics over a course collection.
// ABOUTME: Average progress for the header and a fuller summary for reports.

package models

import "math"

// Stats is what the render collaborator shows in the statistics panel.
type Stats struct {
	Total           int `json:"total"`
	AverageProgress int `json:"averageProgress"`
}

// ComputeStats averages per-course completion ratios. Courses without lessons
// are left out of the average but still counted in Total.
func ComputeStats(courses []Course) Stats {
	stats := Stats{Total: len(courses)}

	var sum float64
	var counted int
	for i := range courses {
		if courses[i].TotalLessons > 0 {
			sum += float64(courses[i].CompletedLessons) / float64(courses[i].TotalLessons) * 100
			counted++
		}
	}
	if counted == 0 {
		return stats
	}
	stats.AverageProgress = int(math.Round(sum / float64(counted)))
	return stats
}

// Summary breaks a collection down by status and lesson counts.
type Summary struct {
	Total            int `json:"total"`
	Completed        int `json:"completed"`
	InProgress       int `json:"inProgress"`
	Planned          int `json:"planned"`
	Favorites        int `json:"favorites"`
	TotalLessons     int `json:"totalLessons"`
	CompletedLessons int `json:"completedLessons"`
	CompletionRate   int `json:"completionRate"`
}

func Summarize(courses []Course) Summary {
	s := Summary{Total: len(courses)}
	for _, c := range courses {
		switch c.Status {
		case StatusCompleted:
			s.Completed++
		case StatusInProgress:
			s.InProgress++
		case StatusPlanned:
			s.Planned++
		}
		if c.Favorite {
			s.Favorites++
		}
		s.TotalLessons += c.TotalLessons
		s.CompletedLessons += c.CompletedLessons
	}
	if s.TotalLessons > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedLessons) / float64(s.TotalLessons) * 100))
	}
	return s
}
