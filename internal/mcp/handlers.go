package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
)

// errorResult creates an MCP error result carrying the structured error as JSON text.
func errorResult(detail dispatch.ErrorDetail) *mcp.CallToolResult {
	out, err := json.Marshal(map[string]dispatch.ErrorDetail{"error": detail})
	if err != nil {
		out = []byte(detail.Message)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(out)),
		},
		IsError: true,
	}
}
