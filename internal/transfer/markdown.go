// ABOUTME: Markdown export/import with YAML frontmatter, one file per course.
// ABOUTME: The course description is the markdown body.

package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/coursetrack/internal/models"
)

type frontmatter struct {
	ID               string        `yaml:"id"`
	Title            string        `yaml:"title"`
	Tags             []string      `yaml:"tags"`
	TotalLessons     int           `yaml:"total_lessons"`
	CompletedLessons int           `yaml:"completed_lessons"`
	Status           models.Status `yaml:"status"`
	Favorite         bool          `yaml:"favorite"`
	Updated          time.Time     `yaml:"updated"`
}

// MarshalMarkdown renders one course as a markdown document.
func MarshalMarkdown(c models.Course) ([]byte, error) {
	fm, err := yaml.Marshal(frontmatter{
		ID:               c.ID,
		Title:            c.Title,
		Tags:             c.Tags,
		TotalLessons:     c.TotalLessons,
		CompletedLessons: c.CompletedLessons,
		Status:           c.Status,
		Favorite:         c.Favorite,
		Updated:          c.LastUpdated,
	})
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n")
	sb.WriteString(c.Description)
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}

// UnmarshalMarkdown parses a document written by MarshalMarkdown. Without
// frontmatter the whole file becomes the description and fallbackTitle the title.
func UnmarshalMarkdown(data []byte, fallbackTitle string) (models.Course, error) {
	content := string(data)
	var fm frontmatter

	if strings.HasPrefix(content, "---\n") {
		parts := strings.SplitN(content, "---\n", 3)
		if len(parts) >= 3 {
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
				return models.Course{}, fmt.Errorf("%w: frontmatter: %v", ErrInvalidFormat, err)
			}
			content = parts[2]
		}
	}

	if fm.Title == "" {
		fm.Title = fallbackTitle
	}
	c := models.Course{
		ID:               fm.ID,
		Title:            fm.Title,
		Description:      strings.TrimSpace(content),
		Tags:             fm.Tags,
		TotalLessons:     fm.TotalLessons,
		CompletedLessons: fm.CompletedLessons,
		Status:           fm.Status,
		Favorite:         fm.Favorite,
		LastUpdated:      fm.Updated,
	}
	return c, nil
}

// WriteMarkdownDir writes one file per course into dir.
func WriteMarkdownDir(dir string, courses []models.Course) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	used := make(map[string]int)
	for _, c := range courses {
		data, err := MarshalMarkdown(c)
		if err != nil {
			return fmt.Errorf("encode %q: %w", c.Title, err)
		}
		name := SanitizeFilename(c.Title)
		if n := used[name]; n > 0 {
			name = fmt.Sprintf("%s-%d", name, n+1)
		}
		used[SanitizeFilename(c.Title)]++
		if err := os.WriteFile(filepath.Join(dir, name+".md"), data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// ReadMarkdownDir reads every .md file under dir.
func ReadMarkdownDir(dir string) ([]models.Course, error) {
	var courses []models.Course
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		data, err := os.ReadFile(path) //nolint:gosec // User-specified directory is expected CLI behavior
		if err != nil {
			return err
		}
		c, err := UnmarshalMarkdown(data, strings.TrimSuffix(filepath.Base(path), ".md"))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		courses = append(courses, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Normalize(courses)
}

func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name = replacer.Replace(name)
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
