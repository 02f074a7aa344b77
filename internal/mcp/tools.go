package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/garden/internal/garden"
	"github.com/gorewood/garden/internal/scratch"
)

// --- Write tool ---

// WriteInput is the input for the write tool.
type WriteInput struct {
	Title string `json:"title,omitempty" jsonschema:"optional entry title; also determines the file name"`
	Body  string `json:"body"            jsonschema:"entry text in Markdown"`
}

// WriteOutput is the output for the write tool.
type WriteOutput struct {
	Status  string `json:"status"            jsonschema:"committed or skipped"`
	Name    string `json:"name,omitempty"    jsonschema:"file name of the new entry"`
	Path    string `json:"path,omitempty"    jsonschema:"absolute path of the new entry"`
	Message string `json:"message,omitempty" jsonschema:"human-readable summary"`
}

func handleWrite(writer *garden.Writer, now func() time.Time) mcp.ToolHandlerFor[WriteInput, WriteOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input WriteInput) (*mcp.CallToolResult, WriteOutput, error) {
		draft := scratch.NewDraft(input.Title, input.Body, now())
		if !draft.HasTitle() {
			if heading := scratch.Heading(draft.Body); heading != "" {
				draft.Title = heading
			}
		}

		res, err := writer.Commit(draft)
		if err != nil {
			return nil, WriteOutput{}, fmt.Errorf("writing entry: %w", err)
		}

		if res.Status == garden.StatusSkipped {
			return nil, WriteOutput{Status: string(res.Status), Message: "nothing written"}, nil
		}
		return nil, WriteOutput{
			Status:  string(res.Status),
			Name:    res.Name,
			Path:    res.Path,
			Message: "planted " + res.Name,
		}, nil
	}
}

// --- Status tool ---

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Root       string `json:"root"        jsonschema:"absolute path of the garden directory"`
	EntryCount int    `json:"entry_count" jsonschema:"number of entries in the garden"`
}

func handleStatus(writer *garden.Writer) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		entries, err := os.ReadDir(writer.Root())
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("reading garden: %w", err)
		}

		count := 0
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, garden.EntryExt) {
				continue
			}
			count++
		}
		return nil, StatusOutput{Root: writer.Root(), EntryCount: count}, nil
	}
}
