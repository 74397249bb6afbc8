package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
)

// Stats counts what the MCP server exposes. Operations counts registered
// backend operations only; Tools also includes get_version.
type Stats struct {
	Operations int `json:"operations"`
	Tools      int `json:"tools"`
	Resources  int `json:"resources"`
	Prompts    int `json:"prompts"`
}

// Server is the MCP server with every registered operation attached as a tool.
type Server struct {
	mcp   *mcpserver.MCPServer
	stats Stats
}

// NewServer creates the MCP server named name and registers one tool per
// engine operation plus get_version.
func NewServer(name string, engine *dispatch.Engine, logger *common.Logger) *Server {
	s := mcpserver.NewMCPServer(
		name,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithPromptCapabilities(false),
	)

	operations := RegisterTools(s, engine)
	s.AddTool(VersionTool(), VersionToolHandler(name))

	stats := Stats{Operations: operations, Tools: operations + 1}
	logger.Info().
		Str("name", name).
		Int("operations", stats.Operations).
		Int("tools", stats.Tools).
		Int("resources", stats.Resources).
		Int("prompts", stats.Prompts).
		Msg("MCP server initialized")

	return &Server{mcp: s, stats: stats}
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Stats returns the tool, resource and prompt counts.
func (s *Server) Stats() Stats {
	return s.stats
}

// ServeStdio serves MCP over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcp)
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a stateless streamable-HTTP handler for s.
func NewHandler(s *Server, logger *common.Logger) *Handler {
	return &Handler{
		streamable: mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithStateLess(true)),
		logger:     logger,
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("method", r.Method).Str("session", r.Header.Get("Mcp-Session-Id")).Msg("mcp request")
	h.streamable.ServeHTTP(w, r)
}
