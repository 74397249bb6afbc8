package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// BuildMCPTool converts a registry entry into an mcp.Tool whose input schema
// mirrors the operation's parameters. Dynamic defaults are not advertised.
func BuildMCPTool(entry *registry.Entry) mcp.Tool {
	op := entry.Operation
	opts := []mcp.ToolOption{mcp.WithDescription(op.Description)}
	if op.Title != "" {
		opts = append(opts, mcp.WithTitleAnnotation(op.Title))
	}
	for _, p := range op.Parameters {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(op.Name, opts...)
}

// buildParamOption maps a ParameterSpec to the matching mcp-go tool option.
func buildParamOption(p schema.ParameterSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	def, hasDefault := p.StaticDefault()

	switch p.Kind {
	case schema.KindNumber:
		if p.Min != nil {
			opts = append(opts, mcp.Min(*p.Min))
		}
		if p.Max != nil {
			opts = append(opts, mcp.Max(*p.Max))
		}
		if f, ok := def.(float64); hasDefault && ok {
			opts = append(opts, mcp.DefaultNumber(f))
		}
		return mcp.WithNumber(p.Name, opts...)
	case schema.KindBoolean:
		if b, ok := def.(bool); hasDefault && ok {
			opts = append(opts, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(p.Name, opts...)
	case schema.KindEnum:
		opts = append(opts, mcp.Enum(p.EnumValues...))
		fallthrough
	default:
		if s, ok := def.(string); hasDefault && ok {
			opts = append(opts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Name, opts...)
	}
}

// ToolHandler routes an MCP tool call for the named operation through the
// dispatch engine. Failures are returned as error results, never as protocol errors.
func ToolHandler(engine *dispatch.Engine, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := engine.Invoke(ctx, name, r.GetArguments())
		if err != nil {
			return errorResult(dispatch.Describe(err)), nil
		}
		return mcp.NewToolResultText(string(res.Payload)), nil
	}
}
