// ABOUTME: MCP resources exposing courses, the full export and statistics.
// ABOUTME: Single courses render as markdown; collection views are JSON.

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/coursetrack/internal/transfer"
)

const (
	resourcePrefix = "coursetrack://course/"
	coursesURI     = "coursetrack://courses"
	statsURI       = "coursetrack://stats"
)

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: resourcePrefix + "{id}",
			Name:        "Course",
			Description: "A single course as markdown with YAML frontmatter",
			MIMEType:    "text/markdown",
		},
		s.handleReadResource,
	)
	s.server.AddResource(
		&mcp.Resource{
			URI:         coursesURI,
			Name:        "All courses",
			Description: "Every course in export file format",
			MIMEType:    "application/json",
		},
		s.handleReadCourses,
	)
	s.server.AddResource(
		&mcp.Resource{
			URI:         statsURI,
			Name:        "Statistics",
			Description: "Course counts by status and lesson totals",
			MIMEType:    "application/json",
		},
		s.handleReadStats,
	)
}

func (s *Server) handleReadResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	id, ok := strings.CutPrefix(req.Params.URI, resourcePrefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	c, err := s.store.Find(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	content, err := transfer.MarshalMarkdown(c)
	if err != nil {
		return nil, err
	}
	return resourceResult(req.Params.URI, "text/markdown", content), nil
}

func (s *Server) handleReadCourses(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	var buf bytes.Buffer
	if err := transfer.WriteJSON(&buf, s.store.All()); err != nil {
		return nil, err
	}
	return resourceResult(req.Params.URI, "application/json", buf.Bytes()), nil
}

func (s *Server) handleReadStats(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.store.Summary(), "", "  ")
	if err != nil {
		return nil, err
	}
	return resourceResult(req.Params.URI, "application/json", data), nil
}

func resourceResult(uri, mimeType string, body []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: string(body)}},
	}
}
