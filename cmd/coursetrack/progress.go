// ABOUTME: Commands that change a single course in place.
// ABOUTME: Favorite toggling, lesson progress and duplication.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var favCmd = &cobra.Command{
	Use:   "fav <id-prefix>",
	Short: "Toggle favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, err := findCourse(args[0])
		if err != nil {
			return err
		}
		return reported(pres.ToggleFavorite(cmd.Context(), course.ID) != nil)
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <id-prefix>",
	Short: "Record lessons completed",
	Long: `Move completed lessons up by one, or by --by. Use a negative value to
undo (e.g. --by=-1). Progress never leaves 0..total.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, _ := cmd.Flags().GetInt("by")
		course, err := findCourse(args[0])
		if err != nil {
			return err
		}
		return reported(pres.AdjustProgress(cmd.Context(), course.ID, delta) != nil)
	},
}

var setProgressCmd = &cobra.Command{
	Use:   "set-progress <id-prefix> <lessons>",
	Short: "Set completed lessons",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid lesson count %q", args[1])
		}
		course, err := findCourse(args[0])
		if err != nil {
			return err
		}
		return reported(pres.SetProgress(cmd.Context(), course.ID, target) != nil)
	},
}

var dupCmd = &cobra.Command{
	Use:   "dup <id-prefix>",
	Short: "Duplicate a course",
	Long:  `Copy a course with a new id and " (copy)" appended to the title.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, err := findCourse(args[0])
		if err != nil {
			return err
		}
		return reported(pres.DuplicateCourse(cmd.Context(), course.ID) != nil)
	},
}

func init() {
	progressCmd.Flags().IntP("by", "b", 1, "lessons to add (negative to remove)")

	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(setProgressCmd)
	rootCmd.AddCommand(dupCmd)
}
