// ABOUTME: MCP tools for course CRUD and progress tracking.
// ABOUTME: Maps CLI functionality to MCP tool interface.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/presenter"
	"github.com/harper/coursetrack/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const idSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "string", "description": "Course ID or prefix (6+ chars)"}
	},
	"required": ["id"]
}`

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "list_courses",
		Description: "List courses with optional search, status filter and sort order",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"search": {"type": "string", "description": "Text to match in title, description or tags; prefix with # to match tags only"},
				"statuses": {"type": "array", "items": {"type": "string", "enum": ["planned", "in_progress", "completed"]}},
				"only_favorites": {"type": "boolean"},
				"sort": {"type": "string", "enum": ["updated_desc", "alpha_asc", "progress_desc", "progress_asc", "favorites_first"]}
			}
		}`),
	}, s.handleListCourses)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_course",
		Description: "Get a course by ID or ID prefix",
		InputSchema: json.RawMessage(idSchema),
	}, s.handleGetCourse)

	s.server.AddTool(&mcp.Tool{
		Name:        "add_course",
		Description: "Create a new course",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"description": {"type": "string", "description": "Course description (markdown)"},
				"tags": {"type": "array", "items": {"type": "string"}},
				"total_lessons": {"type": "integer", "minimum": 0},
				"completed_lessons": {"type": "integer", "minimum": 0},
				"status": {"type": "string", "enum": ["planned", "in_progress", "completed"]}
			},
			"required": ["title"]
		}`),
	}, s.handleAddCourse)

	s.server.AddTool(&mcp.Tool{
		Name:        "update_course",
		Description: "Update fields of a course; omitted fields are kept",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string"},
				"title": {"type": "string"},
				"description": {"type": "string"},
				"tags": {"type": "array", "items": {"type": "string"}},
				"total_lessons": {"type": "integer", "minimum": 0},
				"completed_lessons": {"type": "integer", "minimum": 0},
				"status": {"type": "string", "enum": ["planned", "in_progress", "completed"]},
				"favorite": {"type": "boolean"}
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateCourse)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_course",
		Description: "Delete a course",
		InputSchema: json.RawMessage(idSchema),
	}, s.handleDeleteCourse)

	s.server.AddTool(&mcp.Tool{
		Name:        "toggle_favorite",
		Description: "Mark or unmark a course as favorite",
		InputSchema: json.RawMessage(idSchema),
	}, s.handleToggleFavorite)

	s.server.AddTool(&mcp.Tool{
		Name:        "adjust_progress",
		Description: "Add (or subtract) completed lessons; status follows progress",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string"},
				"delta": {"type": "integer", "description": "Lessons to add, negative to subtract"}
			},
			"required": ["id", "delta"]
		}`),
	}, s.handleAdjustProgress)

	s.server.AddTool(&mcp.Tool{
		Name:        "set_progress",
		Description: "Set the number of completed lessons; status follows progress",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string"},
				"completed_lessons": {"type": "integer"}
			},
			"required": ["id", "completed_lessons"]
		}`),
	}, s.handleSetProgress)

	s.server.AddTool(&mcp.Tool{
		Name:        "duplicate_course",
		Description: "Copy a course under a new ID",
		InputSchema: json.RawMessage(idSchema),
	}, s.handleDuplicateCourse)

	s.server.AddTool(&mcp.Tool{
		Name:        "course_stats",
		Description: "Course count, average progress and status breakdown",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleCourseStats)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_tags",
		Description: "List all tags with usage counts",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListTags)
}

func decodeArgs(req *mcp.CallToolRequest, v any) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return textResult(string(data))
}

func (s *Server) find(id string) (models.Course, *mcp.CallToolResult) {
	c, err := s.store.Find(id)
	if err != nil {
		return models.Course{}, toolError("failed to find course: %v", err)
	}
	return c, nil
}

func (s *Server) handleListCourses(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Search        string   `json:"search"`
		Statuses      []string `json:"statuses"`
		OnlyFavorites bool     `json:"only_favorites"`
		Sort          string   `json:"sort"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}

	cr := presenter.Criteria{
		Search:        params.Search,
		OnlyFavorites: params.OnlyFavorites,
		Sort:          presenter.ParseSortKey(params.Sort),
	}
	for _, raw := range params.Statuses {
		st, ok := models.ParseStatus(raw)
		if !ok {
			return toolError("unknown status %q", raw), nil
		}
		cr.Statuses = append(cr.Statuses, st)
	}

	return jsonResult(presenter.ApplyCriteria(s.store.All(), cr)), nil
}

func (s *Server) handleGetCourse(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	c, errResult := s.find(params.ID)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(c), nil
}

type courseFields struct {
	Title            *string   `json:"title" validate:"omitempty,min=1"`
	Description      *string   `json:"description"`
	Tags             *[]string `json:"tags"`
	TotalLessons     *int      `json:"total_lessons" validate:"omitempty,min=0"`
	CompletedLessons *int      `json:"completed_lessons" validate:"omitempty,min=0"`
	Status           *string   `json:"status" validate:"omitempty,oneof=planned in_progress completed"`
	Favorite         *bool     `json:"favorite"`
}

func (f courseFields) patch() models.CoursePatch {
	p := models.CoursePatch{
		Title:            f.Title,
		Description:      f.Description,
		Tags:             f.Tags,
		TotalLessons:     f.TotalLessons,
		CompletedLessons: f.CompletedLessons,
		Favorite:         f.Favorite,
	}
	if f.Status != nil {
		st := models.Status(*f.Status)
		p.Status = &st
	}
	return p
}

func (s *Server) handleAddCourse(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params courseFields
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	if params.Title == nil || *params.Title == "" {
		return toolError("title is required"), nil
	}
	if err := validate.Struct(params); err != nil {
		return toolError("invalid course: %v", err), nil
	}

	c, err := s.store.Add(ctx, params.patch())
	if err != nil {
		return toolError("failed to add course: %v", err), nil
	}
	return textResult(fmt.Sprintf("Created course %s", c.ID)), nil
}

func (s *Server) handleUpdateCourse(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
		courseFields
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	if err := validate.Struct(params.courseFields); err != nil {
		return toolError("invalid course: %v", err), nil
	}
	existing, errResult := s.find(params.ID)
	if errResult != nil {
		return errResult, nil
	}

	c, err := s.store.Update(ctx, existing.ID, params.patch())
	if err != nil {
		return toolError("failed to update course: %v", err), nil
	}
	return jsonResult(c), nil
}

func (s *Server) handleDeleteCourse(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	existing, errResult := s.find(params.ID)
	if errResult != nil {
		return errResult, nil
	}

	removed, err := s.store.Remove(ctx, existing.ID)
	if err != nil {
		return toolError("failed to delete course: %v", err), nil
	}
	if !removed {
		return toolError("course %s not found", existing.ID), nil
	}
	return textResult(fmt.Sprintf("Deleted course %s", existing.ID)), nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	existing, errResult := s.find(params.ID)
	if errResult != nil {
		return errResult, nil
	}

	fav, err := s.store.ToggleFavorite(ctx, existing.ID)
	if err != nil {
		return toolError("failed to toggle favorite: %v", err), nil
	}
	if fav {
		return textResult(fmt.Sprintf("%s added to favorites", existing.Title)), nil
	}
	return textResult(fmt.Sprintf("%s removed from favorites", existing.Title)), nil
}

func progressText(c models.Course) string {
	return fmt.Sprintf("%s: %d/%d (%d%%), %s", c.Title, c.CompletedLessons, c.TotalLessons, c.Percent(), c.Status)
}

func (s *Server) handleAdjustProgress(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID    string `json:"id"`
		Delta int    `json:"delta"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	existing, errResult := s.find(params.ID)
	if errResult != nil {
		return errResult, nil
	}

	c, err := s.store.AdjustProgress(ctx, existing.ID, params.Delta)
	if err != nil {
		return toolError("failed to update progress: %v", err), nil
	}
	return textResult(progressText(c)), nil
}

func (s *Server) handleSetProgress(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID               string `json:"id"`
		CompletedLessons int    `json:"completed_lessons"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	existing, errResult := s.find(params.ID)
	if errResult != nil {
		return errResult, nil
	}

	c, err := s.store.SetProgress(ctx, existing.ID, params.CompletedLessons)
	if err != nil {
		return toolError("failed to update progress: %v", err), nil
	}
	return textResult(progressText(c)), nil
}

func (s *Server) handleDuplicateCourse(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return nil, err
	}
	existing, errResult := s.find(params.ID)
	if errResult != nil {
		return errResult, nil
	}

	c, err := s.store.Duplicate(ctx, existing.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return toolError("course %s not found", existing.ID), nil
		}
		return toolError("failed to duplicate course: %v", err), nil
	}
	return textResult(fmt.Sprintf("Created course %s (%s)", c.ID, c.Title)), nil
}

func (s *Server) handleCourseStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(struct {
		models.Stats
		Summary models.Summary `json:"summary"`
	}{s.store.Statistics(), s.store.Summary()}), nil
}

func (s *Server) handleListTags(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := s.store.TagCounts()
	out := make([]map[string]any, 0, len(tags))
	for _, t := range tags {
		out = append(out, map[string]any{"name": t.Name, "count": t.Count})
	}
	return jsonResult(out), nil
}
