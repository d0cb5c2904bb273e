// ABOUTME: Edit command for modifying existing courses.
// ABOUTME: Applies flag changes, or opens the course as YAML in $EDITOR.

package main

import (
	"fmt"
	"os"
	"os/exec"
	"reflect"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/coursetrack/internal/models"
)

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Edit a course",
	Long: `Change course fields with flags. Without flags the course opens in
$EDITOR as YAML; saved changes are applied as one update.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, err := findCourse(args[0])
		if err != nil {
			return err
		}

		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		if patch.Empty() {
			patch, err = editPatch(course)
			if err != nil {
				return err
			}
		}
		if patch.Empty() {
			fmt.Println("No changes made.")
			return nil
		}
		return reported(pres.UpdateCourse(cmd.Context(), course.ID, patch) != nil)
	},
}

// editPatch round-trips the course through $EDITOR and returns the changed fields.
func editPatch(course models.Course) (models.CoursePatch, error) {
	before := models.PatchFrom(course)
	initial, err := yaml.Marshal(before)
	if err != nil {
		return models.CoursePatch{}, err
	}

	edited, err := openEditor(string(initial))
	if err != nil {
		return models.CoursePatch{}, fmt.Errorf("failed to open editor: %w", err)
	}

	var after models.CoursePatch
	if err := yaml.Unmarshal([]byte(edited), &after); err != nil {
		return models.CoursePatch{}, fmt.Errorf("invalid YAML: %w", err)
	}
	return changedFields(before, after), nil
}

// changedFields keeps the fields of after that differ from before.
func changedFields(before, after models.CoursePatch) models.CoursePatch {
	var out models.CoursePatch
	if after.Title != nil && *after.Title != *before.Title {
		out.Title = after.Title
	}
	if after.Description != nil && *after.Description != *before.Description {
		out.Description = after.Description
	}
	if after.Tags != nil && !reflect.DeepEqual(*after.Tags, *before.Tags) {
		out.Tags = after.Tags
	}
	if after.TotalLessons != nil && *after.TotalLessons != *before.TotalLessons {
		out.TotalLessons = after.TotalLessons
	}
	if after.CompletedLessons != nil && *after.CompletedLessons != *before.CompletedLessons {
		out.CompletedLessons = after.CompletedLessons
	}
	if after.Status != nil && *after.Status != *before.Status {
		out.Status = after.Status
	}
	if after.Favorite != nil && *after.Favorite != *before.Favorite {
		out.Favorite = after.Favorite
	}
	return out
}

func openEditor(initial string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	tmpFile, err := os.CreateTemp("", "coursetrack-*.yaml")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(tmpFile.Name()) // Best-effort cleanup
	}()

	if _, err := tmpFile.WriteString(initial); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("failed to write initial content: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command(editor, tmpFile.Name()) //nolint:gosec // Launching $EDITOR is expected CLI behavior
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	addCourseFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}
