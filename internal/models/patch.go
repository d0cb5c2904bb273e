// ABOUTME: Typed partial update for courses.
// ABOUTME: Nil fields are left untouched when a patch is applied.

package models

// CoursePatch carries optional field overwrites for a course.
type CoursePatch struct {
	Title            *string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description      *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags             *[]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	TotalLessons     *int      `json:"totalLessons,omitempty" yaml:"total_lessons,omitempty" validate:"omitempty,min=0"`
	CompletedLessons *int      `json:"completedLessons,omitempty" yaml:"completed_lessons,omitempty" validate:"omitempty,min=0"`
	Status           *Status   `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=planned in_progress completed"`
	Favorite         *bool     `json:"favorite,omitempty" yaml:"favorite,omitempty"`
}

// Apply overwrites the fields set in p. It does not clamp or touch c.
func (p CoursePatch) Apply(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.TotalLessons != nil {
		c.TotalLessons = *p.TotalLessons
	}
	if p.CompletedLessons != nil {
		c.CompletedLessons = *p.CompletedLessons
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Favorite != nil {
		c.Favorite = *p.Favorite
	}
}

// Empty reports whether the patch changes nothing.
func (p CoursePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Tags == nil &&
		p.TotalLessons == nil && p.CompletedLessons == nil &&
		p.Status == nil && p.Favorite == nil
}

// PatchFrom builds a patch that sets every field of c except the id.
func PatchFrom(c Course) CoursePatch {
	tags := append([]string{}, c.Tags...)
	status := c.Status
	return CoursePatch{
		Title:            &c.Title,
		Description:      &c.Description,
		Tags:             &tags,
		TotalLessons:     &c.TotalLessons,
		CompletedLessons: &c.CompletedLessons,
		Status:           &status,
		Favorite:         &c.Favorite,
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
