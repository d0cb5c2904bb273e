// ABOUTME: MCP prompts for common study-planning workflows.
// ABOUTME: Provides pre-configured prompts for AI agent interactions.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/presenter"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "plan-study-week",
		Description: "Plan a week of lessons across in-progress courses",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "hours",
				Description: "Hours available this week",
				Required:    false,
			},
		},
	}, s.getStudyPlanPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "review-progress",
		Description: "Review overall learning progress and suggest what to focus on",
	}, s.getReviewPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "suggest-tags",
		Description: "Suggest consistent tags for a course",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "course_id",
				Description: "ID of the course to tag",
				Required:    true,
			},
		},
	}, s.getSuggestTagsPrompt)
}

func userPrompt(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: text,
				},
			},
		},
	}
}

func courseLines(courses []models.Course) string {
	var sb strings.Builder
	for _, c := range courses {
		sb.WriteString(fmt.Sprintf("- %s [%s]: %d/%d lessons, tags: %s\n",
			c.Title, c.ID, c.CompletedLessons, c.TotalLessons, strings.Join(c.Tags, ", ")))
	}
	return sb.String()
}

func (s *Server) getStudyPlanPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	hours, ok := req.Params.Arguments["hours"]
	if !ok || hours == "" {
		hours = "5"
	}

	active := presenter.ApplyCriteria(s.store.All(), presenter.Criteria{
		Statuses: []models.Status{models.StatusInProgress, models.StatusPlanned},
		Sort:     presenter.SortFavoritesFirst,
	})

	return userPrompt(fmt.Sprintf(`I have %s hours to study this week. These are my open courses, favorites first:

%s
Propose a day-by-day plan that finishes lessons on favorites first and keeps
every in-progress course moving. After each session, use the adjust_progress
tool to record completed lessons.`, hours, courseLines(active))), nil
}

func (s *Server) getReviewPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sum := s.store.Summary()
	courses := presenter.ApplyCriteria(s.store.All(), presenter.Criteria{Sort: presenter.SortProgressDesc})

	return userPrompt(fmt.Sprintf(`Review my learning progress.

Totals: %d courses, %d completed, %d in progress, %d planned, %d favorites.
Lessons: %d of %d done (%d%%).

Courses by progress:
%s
Point out courses that have stalled, suggest which to finish next, and which
planned courses are worth starting.`,
		sum.Total, sum.Completed, sum.InProgress, sum.Planned, sum.Favorites,
		sum.CompletedLessons, sum.TotalLessons, sum.CompletionRate,
		courseLines(courses))), nil
}

func (s *Server) getSuggestTagsPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := req.Params.Arguments["course_id"]
	c, err := s.store.Find(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return userPrompt(fmt.Sprintf(`Suggest tags for the course %q.

Description:
%s

Current tags: %s
Tags already used elsewhere: %s

Prefer existing tags, keep them lowercase, and apply the result with the
update_course tool (id %s).`,
		c.Title, c.Description, strings.Join(c.Tags, ", "),
		strings.Join(s.store.Tags(), ", "), c.ID)), nil
}
