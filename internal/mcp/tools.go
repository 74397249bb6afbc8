package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
)

// RegisterTools adds one MCP tool per registry entry, in registration order.
func RegisterTools(s *server.MCPServer, engine *dispatch.Engine) int {
	entries := engine.Registry().Entries()
	for _, entry := range entries {
		s.AddTool(BuildMCPTool(entry), ToolHandler(engine, entry.Name()))
	}
	return len(entries)
}
