package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
)

// versionInfo holds the server's version fields.
type versionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the MCP server version. Use this to verify connectivity."),
		mcp.WithTitleAnnotation("Get Version"),
	)
}

// VersionToolHandler returns a handler reporting the server name and build.
func VersionToolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Name:    name,
			Version: common.GetVersion(),
			Build:   common.GetBuild(),
			Commit:  common.GetGitCommit(),
		})
		if err != nil {
			return errorResult(dispatch.Describe(err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}
