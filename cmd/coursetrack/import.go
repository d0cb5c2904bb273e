// ABOUTME: Import command for restoring courses from backup.
// ABOUTME: Supports JSON files, markdown directories and S3 backups.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/transfer"
)

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import courses",
	Long: `Replace all courses with the contents of a JSON export file, a
directory of markdown files, or (with --s3) a backup in the configured
bucket. The whole file is validated before anything is replaced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fromS3, _ := cmd.Flags().GetBool("s3")

		if fromS3 {
			key, _ := cmd.Flags().GetString("key")
			backups, err := openBackups(ctx)
			if err != nil {
				return err
			}
			courses, err := backups.Download(ctx, key)
			if err != nil {
				return err
			}
			return reported(pres.ImportCourses(ctx, courses))
		}

		if len(args) == 0 {
			return fmt.Errorf("a path is required unless --s3 is set")
		}
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}

		if info.IsDir() {
			courses, err := transfer.ReadMarkdownDir(path)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return reported(pres.ImportCourses(ctx, courses))
		}

		f, err := os.Open(path) //nolint:gosec // User-specified file path is expected CLI behavior
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return reported(pres.Import(ctx, f))
	},
}

func init() {
	importCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	importCmd.Flags().Bool("s3", false, "restore from an S3 backup")
	importCmd.Flags().String("key", "", "S3 object key (default: newest backup)")
	rootCmd.AddCommand(importCmd)
}
