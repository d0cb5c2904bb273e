// ABOUTME: Add command for creating new courses.
// ABOUTME: Lesson counts, tags and status come from flags; status is derived when omitted.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new course",
	Long:  `Create a new course with the given title.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		patch.Title = &args[0]
		return reported(pres.AddCourse(cmd.Context(), patch) != nil)
	},
}

// patchFromFlags collects only the flags the user actually set.
func patchFromFlags(cmd *cobra.Command) (models.CoursePatch, error) {
	var patch models.CoursePatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		patch.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch.Description = &v
	}
	if flags.Changed("tags") {
		v, _ := flags.GetString("tags")
		tags := models.ParseTags(v)
		patch.Tags = &tags
	}
	if flags.Changed("total") {
		v, _ := flags.GetInt("total")
		if v < 0 {
			return patch, fmt.Errorf("total lessons cannot be negative")
		}
		patch.TotalLessons = &v
	}
	if flags.Changed("completed") {
		v, _ := flags.GetInt("completed")
		patch.CompletedLessons = &v
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		status, ok := models.ParseStatus(v)
		if !ok {
			return patch, fmt.Errorf("unknown status %q", v)
		}
		patch.Status = &status
	}
	if flags.Changed("favorite") {
		v, _ := flags.GetBool("favorite")
		patch.Favorite = &v
	}
	return patch, nil
}

func addCourseFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "course description (markdown)")
	cmd.Flags().StringP("tags", "t", "", "comma-separated tags")
	cmd.Flags().IntP("total", "n", 0, "total number of lessons")
	cmd.Flags().IntP("completed", "c", 0, "lessons completed so far")
	cmd.Flags().String("status", "", "status (planned|in_progress|completed)")
	cmd.Flags().Bool("favorite", false, "mark as favorite")
}

func init() {
	addCourseFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}
