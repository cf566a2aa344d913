package app

import (
	"context"
	"fmt"

	"github.com/bobmcallan/toolrt/internal/cache"
	"github.com/bobmcallan/toolrt/internal/client"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
	"github.com/bobmcallan/toolrt/internal/handlers"
	"github.com/bobmcallan/toolrt/internal/mcp"
	"github.com/bobmcallan/toolrt/internal/runtime"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger
	Pool   *runtime.Pool

	// HTTP handlers
	PageHandler    *handlers.PageHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies. The descriptor
// document is fetched once; tool instances are bootstrapped on first use.
func New(ctx context.Context, cfg *config.Config, logger *common.Logger) (*App, error) {
	pool, err := NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Pool:   pool,
	}
	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// NewPool fetches the descriptor document and creates a pool of tool
// instances sharing one resource cache.
func NewPool(ctx context.Context, cfg *config.Config, logger *common.Logger) (*runtime.Pool, error) {
	var resources *cache.ResourceCache
	if ttl := cfg.Resources.GetCacheTTL(); ttl > 0 {
		resources = cache.New(ttl, cfg.Resources.CacheEntries)
	}

	rt, err := runtime.NewFromConfig(cfg, resources, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid runtime config: %w", err)
	}

	descriptors := client.NewDescriptorClient(cfg.Descriptors.URL, cfg.Descriptors.GetTimeout(), logger)
	doc, err := descriptors.FetchDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tool descriptors: %w", err)
	}
	for _, d := range doc.Tools {
		if err := client.Validate(&d); err != nil {
			logger.Warn().Str("tool", d.ID).Err(err).Msg("invalid tool descriptor")
		}
	}

	logger.Info().
		Int("tools", len(doc.Tools)).
		Str("descriptors_url", cfg.Descriptors.URL).
		Bool("resource_cache", resources != nil).
		Msg("tool descriptors loaded")

	return runtime.NewPool(rt, doc, logger), nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger, a.Pool)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Pool)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Logger, a.Pool)
	a.MCPHandler = mcp.NewHandler(a.Config, a.Pool, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	a.Pool.Close()
	return nil
}
