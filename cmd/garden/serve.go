// Package main provides the entry point for the garden CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/garden/internal/config"
	"github.com/gorewood/garden/internal/garden"
	"github.com/gorewood/garden/internal/logging"
	gardenmcp "github.com/gorewood/garden/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run garden as a Model Context Protocol (MCP) server over stdio.

Agents can plant entries without an editor through the write tool, and
inspect the garden with the status tool. Entries are named and committed
exactly as with 'garden write'.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "garden": {
        "command": "garden",
        "args": ["serve"]
      }
    }
  }

Available tools: write, status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := newGardenServer(cmd)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

// newGardenServer opens the configured garden and builds the MCP server for it.
func newGardenServer(cmd *cobra.Command) (*mcp.Server, error) {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	writer, err := garden.Open(settings.GardenPath)
	if err != nil {
		return nil, err
	}
	writer = writer.WithLogger(logging.New(settings.LogLevel, cmd.ErrOrStderr(), false))
	return gardenmcp.NewServer(buildVersion(), writer, nil), nil
}
