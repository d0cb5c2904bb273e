// ABOUTME: Terminal UI formatting for coursetrack output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/harper/coursetrack/internal/models"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
)

const barWidth = 20

// ShortID trims long generated ids for list display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return green("completed")
	case models.StatusInProgress:
		return yellow("in progress")
	case models.StatusPlanned:
		return blue("planned")
	}
	return faint(string(s))
}

// ProgressBar draws completion as a fixed-width bar.
func ProgressBar(c models.Course) string {
	filled := int(c.Ratio() * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func FormatCourseListItem(c models.Course) string {
	var sb strings.Builder

	star := " "
	if c.Favorite {
		star = yellow("*")
	}
	sb.WriteString(fmt.Sprintf("%s %-8s  %s  %s\n", star, faint(ShortID(c.ID)), bold(c.Title), statusLabel(c.Status)))
	sb.WriteString(fmt.Sprintf("            %s %d/%d %s\n",
		ProgressBar(c), c.CompletedLessons, c.TotalLessons,
		faint(fmt.Sprintf("(%d%%)", c.Percent()))))

	if len(c.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("            %s %s\n",
			faint("Tags:"),
			cyan(strings.Join(c.Tags, ", "))))
	}

	return sb.String()
}

func FormatCourseHeader(c models.Course) string {
	var sb strings.Builder

	title := bold(c.Title)
	if c.Favorite {
		title += " " + yellow("*")
	}
	sb.WriteString(title + "\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(c.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Status:"), statusLabel(c.Status)))
	sb.WriteString(fmt.Sprintf("%s %s %d/%d (%d%%)\n", faint("Progress:"), ProgressBar(c), c.CompletedLessons, c.TotalLessons, c.Percent()))
	if !c.LastUpdated.IsZero() {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(c.LastUpdated.Local().Format("2006-01-02 15:04"))))
	}
	if len(c.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Tags:"), cyan(strings.Join(c.Tags, ", "))))
	}

	sb.WriteString(Separator())
	return sb.String()
}

// FormatDescription renders a course description as markdown.
func FormatDescription(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func FormatStats(s models.Stats) string {
	return fmt.Sprintf("%s %d  %s %d%%\n", faint("Courses:"), s.Total, faint("Average progress:"), s.AverageProgress)
}

func FormatSummary(s models.Summary) string {
	var sb strings.Builder
	row := func(label string, v any) {
		sb.WriteString(fmt.Sprintf("  %-18s %v\n", faint(label), v))
	}
	sb.WriteString(bold("Summary") + "\n")
	row("Total", s.Total)
	row("Completed", green(s.Completed))
	row("In progress", yellow(s.InProgress))
	row("Planned", blue(s.Planned))
	row("Favorites", s.Favorites)
	row("Lessons", fmt.Sprintf("%d/%d", s.CompletedLessons, s.TotalLessons))
	row("Completion rate", fmt.Sprintf("%d%%", s.CompletionRate))
	return sb.String()
}

func FormatTagList(tags []models.Tag) string {
	var sb strings.Builder

	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			cyan(t.Name),
			faint(fmt.Sprintf("(%d)", t.Count))))
	}

	return sb.String()
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func Warning(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}

func Info(msg string) string {
	return color.New(color.FgCyan).Sprint("i ") + msg
}
