// ABOUTME: MCP server for coursetrack integration with AI agents.
// ABOUTME: Provides tools, resources, and prompts for course tracking.

package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/store"
)

type Server struct {
	server *mcp.Server
	store  *store.Store
	logger zerolog.Logger
}

func NewServer(s *store.Store, version string, logger zerolog.Logger) *Server {
	srv := &Server{store: s, logger: logger}

	srv.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "coursetrack",
			Version: version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	srv.registerTools()
	srv.registerResources()
	srv.registerPrompts()

	return srv
}

func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info().Msg("mcp server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
