// ABOUTME: Show command for displaying a single course.
// ABOUTME: Renders the markdown description with glamour.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/ui"
)

var showCmd = &cobra.Command{
	Use:         "show <id-prefix>",
	Short:       "Show a course",
	Long:        `Display a course with its progress and rendered description.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoView: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		course, err := findCourse(args[0])
		if err != nil {
			return err
		}

		fmt.Print(ui.FormatCourseHeader(course))
		if course.Description != "" {
			content, err := ui.FormatDescription(course.Description)
			if err != nil {
				content = course.Description + "\n"
			}
			fmt.Print(content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
