// ABOUTME: Backups command listing course exports stored in S3.
// ABOUTME: Newest backups are listed first.

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var backupsCmd = &cobra.Command{
	Use:         "backups",
	Short:       "List S3 backups",
	Annotations: map[string]string{annotationConfigOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := openBackups(cmd.Context())
		if err != nil {
			return err
		}
		objects, err := backups.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(objects) == 0 {
			fmt.Println("No backups found.")
			return nil
		}
		for _, obj := range objects {
			fmt.Printf("%s  %8s  %s\n", obj.Key, humanize.Bytes(uint64(obj.Size)), humanize.Time(obj.LastModified)) //nolint:gosec // Sizes are never negative
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)
}
