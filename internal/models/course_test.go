// ABOUTME: Tests for Course model constructor and progress helpers.
// ABOUTME: Validates id minting, clamping and status derivation.

package models

import (
	"testing"
	"time"
)

func TestNewCourse(t *testing.T) {
	course := NewCourse("Go Basics", 12)

	if course.ID == "" {
		t.Error("expected id to be generated")
	}
	if course.Title != "Go Basics" {
		t.Errorf("expected title %q, got %q", "Go Basics", course.Title)
	}
	if course.Status != StatusPlanned {
		t.Errorf("expected status planned, got %q", course.Status)
	}
	if course.LastUpdated.IsZero() {
		t.Error("expected LastUpdated to be set")
	}
	if NewCourse("x", 1).ID == course.ID {
		t.Error("expected distinct ids")
	}
}

func TestCourseTouch(t *testing.T) {
	course := NewCourse("Test", 3)
	original := course.LastUpdated

	time.Sleep(time.Millisecond)
	course.Touch()

	if !course.LastUpdated.After(original) {
		t.Error("expected LastUpdated to be updated")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed int
		wantTotal int
		want      int
	}{
		{"within range", 10, 4, 10, 4},
		{"above total", 10, 14, 10, 10},
		{"negative", 10, -3, 10, 0},
		{"zero total", 0, 5, 0, 0},
		{"negative total", -2, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Course{TotalLessons: tt.total, CompletedLessons: tt.completed}
			c.Clamp()
			if c.TotalLessons != tt.wantTotal || c.CompletedLessons != tt.want {
				t.Errorf("got %d/%d, want %d/%d", c.CompletedLessons, c.TotalLessons, tt.want, tt.wantTotal)
			}
			if c.Tags == nil {
				t.Error("expected Clamp to normalize nil tags")
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		completed, total int
		want             Status
	}{
		{0, 10, StatusPlanned},
		{10, 10, StatusCompleted},
		{3, 10, StatusInProgress},
		{0, 0, StatusPlanned},
	}
	for _, tt := range tests {
		if got := DeriveStatus(tt.completed, tt.total); got != tt.want {
			t.Errorf("DeriveStatus(%d, %d) = %q, want %q", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestRatioWithoutLessons(t *testing.T) {
	c := Course{TotalLessons: 0, CompletedLessons: 0}
	if c.Ratio() != 0 {
		t.Errorf("expected ratio 0, got %v", c.Ratio())
	}
	c = Course{TotalLessons: 3, CompletedLessons: 1}
	if c.Percent() != 33 {
		t.Errorf("expected 33%%, got %d", c.Percent())
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := Course{Tags: []string{"go"}}
	clone := c.Clone()
	clone.Tags[0] = "rust"
	if c.Tags[0] != "go" {
		t.Error("expected clone to own its tags slice")
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus("in-progress"); !ok || s != StatusInProgress {
		t.Errorf("expected in_progress, got %q %v", s, ok)
	}
	if _, ok := ParseStatus("paused"); ok {
		t.Error("expected unknown status to be rejected")
	}
}

func TestPatchApplyPreservesUnsetFields(t *testing.T) {
	c := Course{ID: "c1", Title: "Old", Description: "keep", Tags: []string{"a"}, TotalLessons: 5}
	CoursePatch{Title: Ptr("New"), Favorite: Ptr(true)}.Apply(&c)

	if c.Title != "New" || !c.Favorite {
		t.Errorf("expected patched fields, got %+v", c)
	}
	if c.Description != "keep" || c.TotalLessons != 5 || c.Tags[0] != "a" || c.ID != "c1" {
		t.Errorf("expected unset fields preserved, got %+v", c)
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(CoursePatch{}).Empty() {
		t.Error("expected zero patch to be empty")
	}
	if (CoursePatch{Status: Ptr(StatusCompleted)}).Empty() {
		t.Error("expected patch with status to be non-empty")
	}
}
