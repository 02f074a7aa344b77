// Package mcp provides a Model Context Protocol server for garden.
// It lets an MCP-capable agent plant entries without an interactive editor.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/garden/internal/garden"
)

// NewServer creates an MCP server with all garden tools registered.
// now supplies entry creation times; nil means time.Now.
func NewServer(version string, writer *garden.Writer, now func() time.Time) *mcp.Server {
	if now == nil {
		now = time.Now
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "garden",
		Version: version,
	}, nil)
	registerTools(server, writer, now)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all garden tools to the server.
func registerTools(server *mcp.Server, writer *garden.Writer, now func() time.Time) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "write",
		Description: "Plant a new entry in the garden. The file name derives from the title, or from the current time when no title is given. Existing entries are never overwritten; an empty body saves nothing.",
		Annotations: writeAnnotations(),
	}, handleWrite(writer, now))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show the garden directory and how many entries it holds.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(writer))
}
