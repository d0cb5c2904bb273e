// ABOUTME: JSON export/import file format for course collections.
// ABOUTME: Decoding validates every course before anything is replaced.

package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/harper/coursetrack/internal/models"
)

// Version is written into every export file.
const Version = "1.0"

var ErrInvalidFormat = errors.New("invalid import file")

var validate = validator.New(validator.WithRequiredStructEnabled())

type ExportFile struct {
	Courses      []models.Course `json:"courses"`
	ExportDate   time.Time       `json:"exportDate"`
	Version      string          `json:"version"`
	TotalCourses int             `json:"totalCourses"`
}

func NewExportFile(courses []models.Course) ExportFile {
	if courses == nil {
		courses = []models.Course{}
	}
	return ExportFile{
		Courses:      courses,
		ExportDate:   time.Now().UTC(),
		Version:      Version,
		TotalCourses: len(courses),
	}
}

// WriteJSON writes an indented export file.
func WriteJSON(w io.Writer, courses []models.Course) error {
	data, err := json.MarshalIndent(NewExportFile(courses), "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadJSON parses an export file. A file without a courses array, or with an
// invalid course, yields ErrInvalidFormat.
func ReadJSON(r io.Reader) ([]models.Course, error) {
	var file struct {
		Courses *[]models.Course `json:"courses"`
	}
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if file.Courses == nil {
		return nil, fmt.Errorf("%w: missing courses array", ErrInvalidFormat)
	}
	return Normalize(*file.Courses)
}

// Normalize validates imported courses and fills in what older files omit:
// ids, tag lists, status and progress bounds.
func Normalize(courses []models.Course) ([]models.Course, error) {
	out := make([]models.Course, 0, len(courses))
	for i, c := range courses {
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("%w: course %d: %v", ErrInvalidFormat, i+1, err)
		}
		if c.ID == "" {
			c.ID = models.NewID()
		}
		c.Clamp()
		if c.Status == "" {
			c.Status = models.DeriveStatus(c.CompletedLessons, c.TotalLessons)
		}
		if c.LastUpdated.IsZero() {
			c.Touch()
		}
		out = append(out, c)
	}
	return out, nil
}
