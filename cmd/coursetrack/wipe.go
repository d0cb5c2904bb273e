// ABOUTME: Wipe command that deletes every course.
// ABOUTME: Asks twice before anything is removed.

package main

import (
	"github.com/spf13/cobra"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all courses",
	Long: `Delete every course from the remote service and the local snapshot.

This cannot be undone. Export first if you may want the data back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reported(pres.ClearAll(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(wipeCmd)
}
