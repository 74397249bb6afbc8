package server

import (
	"net/http"

	"github.com/bobmcallan/ticket-mcp/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (streamable HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Operational routes
	mux.HandleFunc("/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/status", s.app.StatusHandler.ServeHTTP)
	mux.Handle("/metrics", s.app.Metrics.Handler())

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/tools", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet: s.app.ToolsHandler.List,
		})
	})
	mux.HandleFunc("/api/tools/{name}", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:  s.app.ToolsHandler.Get,
			http.MethodPost: s.app.ToolsHandler.Invoke,
		})
	})

	// 404 handler for unmatched routes
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "The requested endpoint does not exist")
}
