package app

import (
	"fmt"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/config"
	"github.com/bobmcallan/ticket-mcp/internal/credential"
	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
	"github.com/bobmcallan/ticket-mcp/internal/handlers"
	"github.com/bobmcallan/ticket-mcp/internal/mcp"
	"github.com/bobmcallan/ticket-mcp/internal/metrics"
	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Credentials *credential.Store
	Registry    *registry.Registry
	Engine      *dispatch.Engine
	Metrics     *metrics.Metrics
	MCPServer   *mcp.Server

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	StatusHandler  *handlers.StatusHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application: seeds the process-wide credential store, registers
// every operation, and builds the dispatch engine and MCP server.
// A registration failure is returned and must abort startup.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	credential.SetAuthToken(cfg.Defaults.Token)

	a := &App{
		Config:      cfg,
		Logger:      logger,
		Credentials: credential.Default(),
		Registry:    registry.New(),
		Metrics:     metrics.New(),
	}

	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE, do not use in production")
	}
	if a.Credentials.Get() == "" {
		logger.Warn().Msg("no auth token configured, bearer operations will need a token argument")
	}

	err := tools.RegisterAll(a.Registry, tools.Defaults{
		BaseURL:     cfg.API.BaseURL,
		ParentID:    cfg.Defaults.ParentID,
		Credentials: a.Credentials,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to register operations: %w", err)
	}
	a.Metrics.SetRegisteredOperations(a.Registry.Len())

	a.Engine = dispatch.New(a.Registry, a.Credentials, logger,
		dispatch.WithTimeout(cfg.API.GetTimeout()),
		dispatch.WithRecorder(a.Metrics),
	)
	a.MCPServer = mcp.NewServer(cfg.Server.Name, a.Engine, logger)

	a.initHandlers()

	logger.Info().
		Str("api_url", cfg.API.BaseURL).
		Int("operations", a.Registry.Len()).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Logger, a.Config.Server.Name, a.MCPServer.Stats(),
		a.Config.MCPaaS.AppID != "" && a.Config.MCPaaS.APIKey != "")
	a.ToolsHandler = handlers.NewToolsHandler(a.Engine, a.Logger)
	a.MCPHandler = mcp.NewHandler(a.MCPServer, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
