// ABOUTME: Tests for terminal UI formatting functions.
// ABOUTME: Validates course display and markdown rendering.

package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/harper/coursetrack/internal/models"
)

func init() {
	color.NoColor = true
}

func TestFormatCourseListItem(t *testing.T) {
	c := models.DemoCourses()[0]

	output := FormatCourseListItem(c)

	for _, want := range []string{"course-1", "Modern JavaScript", "in progress", "8/24", "(33%)", "javascript", "*"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0b8a2c6e-1111-2222-3333-444455556666"); got != "0b8a2c6e" {
		t.Errorf("unexpected short id %q", got)
	}
	if got := ShortID("7"); got != "7" {
		t.Errorf("short ids should pass through, got %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	c := models.Course{TotalLessons: 4, CompletedLessons: 2}
	if got := ProgressBar(c); got != "["+strings.Repeat("#", 10)+strings.Repeat(".", 10)+"]" {
		t.Errorf("unexpected bar %q", got)
	}
	empty := models.Course{}
	if got := ProgressBar(empty); strings.Contains(got, "#") {
		t.Errorf("empty course should have an empty bar, got %q", got)
	}
}

func TestFormatDescription(t *testing.T) {
	output, err := FormatDescription("# Hello\n\nThis is **bold** text.")
	if err != nil {
		t.Fatalf("failed to format content: %v", err)
	}
	if output == "" {
		t.Error("expected non-empty output")
	}
}

func TestFormatTagList(t *testing.T) {
	output := FormatTagList([]models.Tag{{Name: "frontend", Count: 3}, {Name: "sql", Count: 1}})

	if !strings.Contains(output, "frontend") || !strings.Contains(output, "(3)") {
		t.Errorf("unexpected tag list:\n%s", output)
	}
}

func TestFormatSummary(t *testing.T) {
	output := FormatSummary(models.Summarize(models.DemoCourses()))

	for _, want := range []string{"Total", "5", "Completion rate", "48%", "58/122"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected summary to contain %q, got:\n%s", want, output)
		}
	}
}

func TestSuccessAndError(t *testing.T) {
	if !strings.Contains(Success("done"), "done") {
		t.Error("expected message in success output")
	}
	if !strings.Contains(Error("failed"), "failed") {
		t.Error("expected message in error output")
	}
}
