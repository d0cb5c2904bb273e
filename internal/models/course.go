// ABOUTME: Course model representing a tracked learning unit with progress.
// ABOUTME: Provides constructor, progress clamping and status derivation.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a course.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus accepts the wire form and the dashed form used on the command line.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "planned":
		return StatusPlanned, true
	case "in_progress", "in-progress":
		return StatusInProgress, true
	case "completed", "done":
		return StatusCompleted, true
	}
	return "", false
}

type Course struct {
	ID               string    `json:"id" yaml:"id"`
	Title            string    `json:"title" yaml:"title" validate:"required"`
	Description      string    `json:"description" yaml:"description"`
	Tags             []string  `json:"tags" yaml:"tags"`
	TotalLessons     int       `json:"totalLessons" yaml:"total_lessons" validate:"min=0"`
	CompletedLessons int       `json:"completedLessons" yaml:"completed_lessons" validate:"min=0"`
	Status           Status    `json:"status" yaml:"status" validate:"omitempty,oneof=planned in_progress completed"`
	Favorite         bool      `json:"favorite" yaml:"favorite"`
	LastUpdated      time.Time `json:"lastUpdated" yaml:"last_updated"`
}

// NewCourse mints an id and stamps LastUpdated. Status starts as planned.
func NewCourse(title string, totalLessons int) *Course {
	return &Course{
		ID:           uuid.New().String(),
		Title:        title,
		Tags:         []string{},
		TotalLessons: totalLessons,
		Status:       StatusPlanned,
		LastUpdated:  time.Now().UTC(),
	}
}

// NewID returns a fresh opaque course id.
func NewID() string {
	return uuid.New().String()
}

func (c *Course) Touch() {
	c.LastUpdated = time.Now().UTC()
}

// Clamp enforces 0 <= CompletedLessons <= TotalLessons.
func (c *Course) Clamp() {
	if c.TotalLessons < 0 {
		c.TotalLessons = 0
	}
	c.CompletedLessons = ClampLessons(c.CompletedLessons, c.TotalLessons)
	if c.Tags == nil {
		c.Tags = []string{}
	}
}

// ClampLessons bounds n to [0, total].
func ClampLessons(n, total int) int {
	if n > total {
		n = total
	}
	if n < 0 {
		n = 0
	}
	return n
}

// DeriveStatus maps a completed count to the status it implies.
func DeriveStatus(completed, total int) Status {
	switch {
	case completed == 0:
		return StatusPlanned
	case completed == total:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// Ratio is CompletedLessons/TotalLessons, 0 when the course has no lessons.
func (c *Course) Ratio() float64 {
	if c.TotalLessons <= 0 {
		return 0
	}
	return float64(c.CompletedLessons) / float64(c.TotalLessons)
}

// Percent is the rounded completion percentage.
func (c *Course) Percent() int {
	return int(c.Ratio()*100 + 0.5)
}

// Clone returns a deep copy.
func (c Course) Clone() Course {
	out := c
	out.Tags = append([]string{}, c.Tags...)
	return out
}

// HasTag reports whether the course carries tag, case-insensitively.
func (c *Course) HasTag(tag string) bool {
	name := NormalizeTag(tag)
	for _, t := range c.Tags {
		if NormalizeTag(t) == name {
			return true
		}
	}
	return false
}
