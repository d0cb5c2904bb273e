// ABOUTME: Remove command for deleting courses.
// ABOUTME: Includes confirmation prompt before deletion.

package main

import (
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Remove a course",
	Long:  `Delete a course after confirmation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, err := findCourse(args[0])
		if err != nil {
			return err
		}
		return reported(pres.DeleteCourse(cmd.Context(), course.ID))
	},
}

func init() {
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
