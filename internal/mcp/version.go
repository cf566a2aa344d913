package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/toolrt/internal/config"
	"github.com/bobmcallan/toolrt/internal/runtime"
)

// versionInfo holds version fields.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
	Tools   int    `json:"tools"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get toolrt version and the number of available tools. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports the toolrt version.
func VersionToolHandler(pool *runtime.Pool) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Version: config.GetVersion(),
			Build:   config.GetBuild(),
			Commit:  config.GetGitCommit(),
			Tools:   len(pool.Descriptors()),
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
