package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/runtime"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// TransformHandler runs the live instance of id with the call's input and
// options. Options not named in the call take their declared defaults.
func TransformHandler(pool *runtime.Pool, id string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := r.RequireString(InputParam)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		opts := models.OptionsSnapshot{}
		for key, v := range r.GetArguments() {
			if key != InputParam {
				opts[key] = v
			}
		}

		tool, err := pool.Get(ctx, id)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		out, err := tool.Transform(input, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(out)}}, nil
	}
}

// toolSummary is one entry of the list_tools result.
type toolSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Tool     string `json:"tool"`
	Bridge   string `json:"bridge"`
	Examples int    `json:"examples"`
}

// ListTool returns the mcp.Tool definition for list_tools.
func ListTool() mcp.Tool {
	return mcp.NewTool("list_tools",
		mcp.WithDescription("List the available text tools and the MCP tool name of each."),
	)
}

// ListToolHandler lists the pool's descriptors.
func ListToolHandler(pool *runtime.Pool) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		descriptors := pool.Descriptors()
		result := make([]toolSummary, 0, len(descriptors))
		for _, d := range descriptors {
			result = append(result, toolSummary{
				ID:       d.ID,
				Name:     d.Name,
				Tool:     ToolName(d.ID),
				Bridge:   d.Bridge,
				Examples: len(d.Examples),
			})
		}
		out, err := json.Marshal(result)
		if err != nil {
			return errorResult("failed to marshal tool list"), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(out))}}, nil
	}
}
