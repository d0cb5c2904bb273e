// ABOUTME: Export command for backing up courses.
// ABOUTME: Supports JSON and markdown formats, locally or to S3.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/backup"
	"github.com/harper/coursetrack/internal/transfer"
	"github.com/harper/coursetrack/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export courses",
	Long: `Export every course to JSON or a directory of markdown files.

With --s3 the JSON export is uploaded to the configured bucket instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		toS3, _ := cmd.Flags().GetBool("s3")

		if toS3 {
			return exportS3(cmd.Context())
		}

		switch format {
		case "json":
			return exportJSON(outputPath)
		case "md":
			return exportMarkdown(outputPath)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

func exportJSON(outputPath string) error {
	if outputPath == "" || outputPath == "-" {
		return transfer.WriteJSON(os.Stdout, courseStore.All())
	}

	f, err := os.Create(outputPath) //nolint:gosec // User-specified output path is expected CLI behavior
	if err != nil {
		return err
	}
	ok := pres.Export(f)
	if err := f.Close(); err != nil {
		return err
	}
	return reported(ok)
}

func exportMarkdown(outputDir string) error {
	if outputDir == "" {
		outputDir = "export"
	}
	courses := courseStore.All()
	if err := transfer.WriteMarkdownDir(outputDir, courses); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Exported %d courses to %s", len(courses), outputDir)))
	return nil
}

func exportS3(ctx context.Context) error {
	backups, err := openBackups(ctx)
	if err != nil {
		return err
	}
	key, err := backups.Upload(ctx, courseStore.All())
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Uploaded %d courses to s3://%s/%s", courseStore.Len(), cfg.S3Bucket, key)))
	return nil
}

func openBackups(ctx context.Context) (*backup.Store, error) {
	if !cfg.S3Enabled() {
		return nil, fmt.Errorf("no S3 bucket configured (set s3_bucket or COURSETRACK_S3_BUCKET)")
	}
	client, err := backup.NewClient(ctx, backup.Settings{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Prefix:    cfg.S3Prefix,
	})
	if err != nil {
		return nil, err
	}
	return backup.New(client, cfg.S3Bucket, cfg.S3Prefix, logger), nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format (json|md)")
	exportCmd.Flags().StringP("output", "o", "", "output path")
	exportCmd.Flags().Bool("s3", false, "upload a JSON export to S3")
	rootCmd.AddCommand(exportCmd)
}
