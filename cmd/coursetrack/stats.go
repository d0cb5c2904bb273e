// ABOUTME: Stats and tag commands summarizing the whole collection.
// ABOUTME: Output ignores list filters.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Show progress statistics",
	Annotations: map[string]string{annotationNoView: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, _ := cmd.Flags().GetBool("detail")
		if detail {
			fmt.Print(ui.FormatSummary(courseStore.Summary()))
			return nil
		}
		fmt.Print(ui.FormatStats(courseStore.Statistics()))
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:         "tags",
	Short:       "List tags",
	Long:        `List every tag in use with the number of courses carrying it.`,
	Annotations: map[string]string{annotationNoView: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		tags := courseStore.TagCounts()
		if len(tags) == 0 {
			fmt.Println("No tags found.")
			return nil
		}
		fmt.Print(ui.FormatTagList(tags))
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("detail", false, "break totals down by status")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tagsCmd)
}
