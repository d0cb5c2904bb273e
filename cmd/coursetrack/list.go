// ABOUTME: List command for displaying courses.
// ABOUTME: Supports search, status and favorite filters plus sort order.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/presenter"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List courses",
	Long: `List courses, optionally filtered and sorted.

Search matches title, description and tags. Prefix the query with # to
match tags only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}
		pres.ApplyFilters(criteria)
		return nil
	},
}

func criteriaFromFlags(cmd *cobra.Command) (presenter.Criteria, error) {
	searchFlag, _ := cmd.Flags().GetString("search")
	statusFlag, _ := cmd.Flags().GetStringSlice("status")
	favFlag, _ := cmd.Flags().GetBool("favorites")
	sortFlag, _ := cmd.Flags().GetString("sort")
	if !cmd.Flags().Changed("sort") {
		sortFlag = cfg.DefaultSort
	}

	criteria := presenter.Criteria{
		Search:        searchFlag,
		OnlyFavorites: favFlag,
		Sort:          presenter.ParseSortKey(sortFlag),
	}
	for _, s := range statusFlag {
		status, ok := models.ParseStatus(strings.TrimSpace(s))
		if !ok {
			return criteria, fmt.Errorf("unknown status %q", s)
		}
		criteria.Statuses = append(criteria.Statuses, status)
	}
	return criteria, nil
}

func sortKeyNames() string {
	names := make([]string, len(presenter.SortKeys))
	for i, k := range presenter.SortKeys {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "search query")
	listCmd.Flags().StringSlice("status", nil, "filter by status (planned,in_progress,completed)")
	listCmd.Flags().BoolP("favorites", "F", false, "only favorites")
	listCmd.Flags().String("sort", string(presenter.SortUpdatedDesc), "sort order ("+sortKeyNames()+")")
	rootCmd.AddCommand(listCmd)
}
