package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
	"github.com/bobmcallan/toolrt/internal/runtime"
)

// NewServer creates an MCP server exposing the pool's tools.
func NewServer(cfg *config.Config, pool *runtime.Pool, logger *common.Logger) *mcpserver.MCPServer {
	mcpSrv := mcpserver.NewMCPServer(
		cfg.MCP.Name,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := RegisterTools(mcpSrv, pool, cfg.MCP.Tools, logger)
	mcpSrv.AddTool(VersionTool(), VersionToolHandler(pool))

	logger.Info().
		Int("tools", toolCount).
		Str("descriptors_url", cfg.Descriptors.URL).
		Msg("MCP server initialized")
	return mcpSrv
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a stateless streamable HTTP handler over pool.
func NewHandler(cfg *config.Config, pool *runtime.Pool, logger *common.Logger) *Handler {
	streamable := mcpserver.NewStreamableHTTPServer(NewServer(cfg, pool, logger),
		mcpserver.WithStateLess(true),
	)
	return &Handler{streamable: streamable, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

// ServeStdio serves the pool's tools over stdin/stdout.
func ServeStdio(cfg *config.Config, pool *runtime.Pool, logger *common.Logger) error {
	return mcpserver.ServeStdio(NewServer(cfg, pool, logger))
}
