// ABOUTME: Interactive shell that keeps one presenter alive across commands.
// ABOUTME: Store changes made elsewhere in the session re-render the list.

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/presenter"
	"github.com/harper/coursetrack/internal/ui"
)

const shellHelp = `Commands:
  ls [query]            list courses, optionally searching
  sort <key>            change sort order
  only <status|fav|all> filter by status or favorites
  add <title> <total>   add a course
  fav <id>              toggle favorite
  + <id> / - <id>       one lesson forward / back
  set <id> <n>          set completed lessons
  dup <id>              duplicate a course
  rm <id>               delete a course
  stats                 show summary
  reload                reload from storage
  quit                  leave the shell`

var shellCmd = &cobra.Command{
	Use:         "shell",
	Short:       "Interactive session",
	Annotations: map[string]string{annotationLazyLoad: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pres.Initialize(ctx)

		for {
			fmt.Print("> ")
			line, err := stdin.ReadString('\n')
			if err == io.EOF && strings.TrimSpace(line) == "" {
				fmt.Println()
				return nil
			}
			if err != nil && err != io.EOF {
				return err
			}
			if quit := runShellLine(ctx, strings.Fields(line)); quit {
				return nil
			}
		}
	},
}

//nolint:funlen,gocyclo // Flat dispatch table
func runShellLine(ctx context.Context, fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	verb, rest := fields[0], fields[1:]

	withCourse := func(fn func(id string)) {
		if len(rest) == 0 {
			fmt.Println(ui.Error("missing course id"))
			return
		}
		c, err := findCourse(rest[0])
		if err != nil {
			fmt.Println(ui.Error(err.Error()))
			return
		}
		fn(c.ID)
	}

	criteria := pres.Criteria()
	switch verb {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Println(shellHelp)
	case "ls", "list":
		criteria.Search = strings.Join(rest, " ")
		pres.ApplyFilters(criteria)
	case "sort":
		if len(rest) == 0 {
			fmt.Println(sortKeyNames())
			return false
		}
		criteria.Sort = presenter.ParseSortKey(rest[0])
		pres.ApplyFilters(criteria)
	case "only":
		criteria.Statuses, criteria.OnlyFavorites = nil, false
		for _, arg := range rest {
			if arg == "fav" || arg == "favorites" {
				criteria.OnlyFavorites = true
			} else if status, ok := models.ParseStatus(arg); ok {
				criteria.Statuses = append(criteria.Statuses, status)
			}
		}
		pres.ApplyFilters(criteria)
	case "add":
		if len(rest) < 2 {
			fmt.Println(ui.Error("usage: add <title> <total>"))
			return false
		}
		total, err := strconv.Atoi(rest[len(rest)-1])
		if err != nil {
			fmt.Println(ui.Error("total must be a number"))
			return false
		}
		title := strings.Join(rest[:len(rest)-1], " ")
		pres.AddCourse(ctx, models.CoursePatch{Title: &title, TotalLessons: &total})
	case "fav":
		withCourse(func(id string) { pres.ToggleFavorite(ctx, id) })
	case "+":
		withCourse(func(id string) { pres.AdjustProgress(ctx, id, 1) })
	case "-":
		withCourse(func(id string) { pres.AdjustProgress(ctx, id, -1) })
	case "set":
		if len(rest) < 2 {
			fmt.Println(ui.Error("usage: set <id> <n>"))
			return false
		}
		n, err := strconv.Atoi(rest[1])
		if err != nil {
			fmt.Println(ui.Error("lesson count must be a number"))
			return false
		}
		withCourse(func(id string) { pres.SetProgress(ctx, id, n) })
	case "dup":
		withCourse(func(id string) { pres.DuplicateCourse(ctx, id) })
	case "rm":
		withCourse(func(id string) { pres.DeleteCourse(ctx, id) })
	case "stats":
		fmt.Print(ui.FormatSummary(courseStore.Summary()))
	case "reload":
		if err := courseStore.Reload(ctx); err != nil {
			fmt.Println(ui.Error(err.Error()))
		}
	default:
		fmt.Println(ui.Error(fmt.Sprintf("unknown command %q (try help)", verb)))
	}
	return false
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
