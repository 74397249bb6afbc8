package handlers

import (
	"net/http"
	"time"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/mcp"
)

// StatusHandler reports server identity, uptime and what the MCP server exposes.
type StatusHandler struct {
	logger  *common.Logger
	name    string
	stats   mcp.Stats
	mcpaas  bool
	started time.Time
}

// NewStatusHandler creates a status handler. mcpaasConfigured reports whether
// MCPaaS credentials are present; their values are never exposed.
func NewStatusHandler(logger *common.Logger, name string, stats mcp.Stats, mcpaasConfigured bool) *StatusHandler {
	return &StatusHandler{
		logger:  logger,
		name:    name,
		stats:   stats,
		mcpaas:  mcpaasConfigured,
		started: time.Now(),
	}
}

type statusResponse struct {
	Status        string    `json:"status"`
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Stats         mcp.Stats `json:"stats"`
	MCPaaSEnabled bool      `json:"mcpaas_configured"`
}

// ServeHTTP handles GET /status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{
		Status:        "running",
		Name:          h.name,
		Version:       common.GetVersion(),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Stats:         h.stats,
		MCPaaSEnabled: h.mcpaas,
	})
}
