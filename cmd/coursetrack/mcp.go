// ABOUTME: MCP command to start the MCP server.
// ABOUTME: Runs on stdio for integration with AI agents.

package main

import (
	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:         "mcp",
	Short:       "Start MCP server",
	Long:        `Start the Model Context Protocol server for AI agent integration.`,
	Annotations: map[string]string{annotationNoView: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(courseStore, version, logger)
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
