// ABOUTME: Wire representation of a course as the remote service stores it.
// ABOUTME: Tolerates missing or malformed timestamps and tag lists.

package remote

import (
	"time"

	"github.com/harper/coursetrack/internal/models"
)

type record struct {
	ID               string   `json:"id,omitempty"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	TotalLessons     int      `json:"totalLessons"`
	CompletedLessons int      `json:"completedLessons"`
	Status           string   `json:"status"`
	Favorite         bool     `json:"favorite"`
	LastUpdated      string   `json:"lastUpdated"`
}

func fromModel(c models.Course) record {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	r := record{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Tags:             tags,
		TotalLessons:     c.TotalLessons,
		CompletedLessons: c.CompletedLessons,
		Status:           string(c.Status),
		Favorite:         c.Favorite,
	}
	if !c.LastUpdated.IsZero() {
		r.LastUpdated = c.LastUpdated.UTC().Format(time.RFC3339Nano)
	}
	return r
}

func (r record) toModel() models.Course {
	c := models.Course{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Tags:             append([]string{}, r.Tags...),
		TotalLessons:     r.TotalLessons,
		CompletedLessons: r.CompletedLessons,
		Favorite:         r.Favorite,
	}
	c.Clamp()
	if s, ok := models.ParseStatus(r.Status); ok {
		c.Status = s
	} else {
		c.Status = models.DeriveStatus(c.CompletedLessons, c.TotalLessons)
	}
	if t, err := time.Parse(time.RFC3339Nano, r.LastUpdated); err == nil {
		c.LastUpdated = t
	}
	return c
}
