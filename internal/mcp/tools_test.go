// ABOUTME: Tests for MCP tool, resource and prompt handlers.
// ABOUTME: Calls handlers directly against an in-memory store.

package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/coursetrack/internal/adapter"
	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	s := store.New(adapter.NewLocal(adapter.NewMemory()))
	require.NoError(t, s.Load(context.Background()))
	return NewServer(s, "test", zerolog.Nop()), s
}

func call(t *testing.T, h func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error), args string) *mcp.CallToolResult {
	t.Helper()
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(args)}}
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListCoursesFilters(t *testing.T) {
	srv, _ := newTestServer(t)

	res := call(t, srv.handleListCourses, `{"search":"#sql"}`)
	require.False(t, res.IsError)
	var courses []models.Course
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "course-3", courses[0].ID)

	res = call(t, srv.handleListCourses, `{"statuses":["in-progress"],"only_favorites":true,"sort":"alpha_asc"}`)
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &courses))
	require.Len(t, courses, 2)
	assert.Equal(t, "Modern JavaScript", courses[0].Title)

	res = call(t, srv.handleListCourses, `{"statuses":["paused"]}`)
	assert.True(t, res.IsError)

	res = call(t, srv.handleListCourses, ``)
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &courses))
	assert.Len(t, courses, 5)
}

func TestAddAndUpdateCourse(t *testing.T) {
	srv, s := newTestServer(t)

	res := call(t, srv.handleAddCourse, `{"title":"Go","total_lessons":10,"tags":["go"]}`)
	require.False(t, res.IsError, text(t, res))
	assert.True(t, strings.HasPrefix(text(t, res), "Created course "))
	id := strings.TrimPrefix(text(t, res), "Created course ")

	res = call(t, srv.handleUpdateCourse, `{"id":"`+id+`","status":"completed","favorite":true}`)
	require.False(t, res.IsError, text(t, res))
	c, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, c.Status)
	assert.True(t, c.Favorite)
	assert.Equal(t, "Go", c.Title)

	assert.True(t, call(t, srv.handleAddCourse, `{"description":"no title"}`).IsError)
	assert.True(t, call(t, srv.handleAddCourse, `{"title":"X","total_lessons":-2}`).IsError)
	assert.True(t, call(t, srv.handleUpdateCourse, `{"id":"course-1","status":"paused"}`).IsError)
}

func TestProgressTools(t *testing.T) {
	srv, _ := newTestServer(t)

	res := call(t, srv.handleAdjustProgress, `{"id":"course-1","delta":100}`)
	require.False(t, res.IsError)
	assert.Equal(t, "Modern JavaScript: 24/24 (100%), completed", text(t, res))

	res = call(t, srv.handleSetProgress, `{"id":"course-1","completed_lessons":0}`)
	assert.Equal(t, "Modern JavaScript: 0/24 (0%), planned", text(t, res))

	res = call(t, srv.handleSetProgress, `{"id":"nope-nope","completed_lessons":1}`)
	assert.True(t, res.IsError)
}

func TestFavoriteDuplicateDelete(t *testing.T) {
	srv, s := newTestServer(t)

	assert.Equal(t, "React from Scratch added to favorites", text(t, call(t, srv.handleToggleFavorite, `{"id":"course-2"}`)))

	res := call(t, srv.handleDuplicateCourse, `{"id":"course-2"}`)
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), "React from Scratch (copy)")
	assert.Equal(t, 6, s.Len())

	res = call(t, srv.handleDeleteCourse, `{"id":"course-2"}`)
	require.False(t, res.IsError)
	assert.Equal(t, 5, s.Len())

	assert.True(t, call(t, srv.handleDeleteCourse, `{"id":"course-2"}`).IsError)
}

func TestStatsAndTags(t *testing.T) {
	srv, _ := newTestServer(t)

	var stats struct {
		Total           int            `json:"total"`
		AverageProgress int            `json:"averageProgress"`
		Summary         models.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, srv.handleCourseStats, `{}`))), &stats))
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Summary.Completed)

	tags := text(t, call(t, srv.handleListTags, `{}`))
	assert.Contains(t, tags, `"frontend"`)
}

func TestReadResource(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := srv.handleReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "coursetrack://course/course-3"},
	})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "title: SQL Fundamentals")

	_, err = srv.handleReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "other://course-3"},
	})
	assert.Error(t, err)
}

func TestReadCollectionResources(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	res, err := srv.handleReadCourses(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: coursesURI}})
	require.NoError(t, err)
	var file struct {
		Version string          `json:"version"`
		Courses []models.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &file))
	assert.Equal(t, "1.0", file.Version)
	assert.Len(t, file.Courses, 5)

	res, err = srv.handleReadStats(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: statsURI}})
	require.NoError(t, err)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "122")
}

func TestPrompts(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := srv.getStudyPlanPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"hours": "8"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	body := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, body, "8 hours")
	assert.NotContains(t, body, "React from Scratch", "completed courses are not planned")

	res, err = srv.getReviewPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{}})
	require.NoError(t, err)
	assert.Contains(t, res.Messages[0].Content.(*mcp.TextContent).Text, "58 of 122")

	_, err = srv.getSuggestTagsPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"course_id": "missing-id"}},
	})
	assert.Error(t, err)
}
