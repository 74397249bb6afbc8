package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// maxInvokeBody caps the JSON argument object of a REST invocation.
const maxInvokeBody = 1 << 20

// ToolsHandler serves the registered operations over REST.
type ToolsHandler struct {
	engine *dispatch.Engine
	logger *common.Logger
}

// NewToolsHandler creates a tools handler backed by engine.
func NewToolsHandler(engine *dispatch.Engine, logger *common.Logger) *ToolsHandler {
	return &ToolsHandler{engine: engine, logger: logger}
}

// ParamInfo describes one parameter of a listed tool.
type ParamInfo struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Dynamic     bool     `json:"dynamic_default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	In          string   `json:"in"`
	Description string   `json:"description,omitempty"`
}

// ToolInfo describes one registered operation.
type ToolInfo struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Method      string      `json:"method"`
	URI         string      `json:"uri"`
	Auth        string      `json:"auth"`
	Params      []ParamInfo `json:"params"`
}

func describeEntry(entry *registry.Entry) ToolInfo {
	op, t := entry.Operation, entry.Transport
	info := ToolInfo{
		Name:        op.Name,
		Title:       op.Title,
		Description: op.Description,
		Method:      t.Method,
		URI:         t.URI,
		Auth:        string(t.Auth),
		Params:      make([]ParamInfo, 0, len(op.Parameters)),
	}
	for _, p := range op.Parameters {
		pi := ParamInfo{
			Name:        p.Name,
			Kind:        string(p.Kind),
			Required:    p.Required,
			Enum:        p.EnumValues,
			Min:         p.Min,
			Max:         p.Max,
			In:          placement(t, p.Name),
			Description: p.Description,
		}
		if v, ok := p.StaticDefault(); ok {
			pi.Default = v
		} else if p.Default != nil {
			pi.Dynamic = true
		}
		info.Params = append(info.Params, pi)
	}
	return info
}

func placement(t registry.TransportDescriptor, name string) string {
	switch {
	case t.InQuery(name):
		return "query"
	case t.InBody(name):
		return "body"
	case name == registry.TokenParam && t.Auth == registry.AuthBearer:
		return "header"
	default:
		for _, ph := range registry.Placeholders(t.URI) {
			if ph == name {
				return "path"
			}
		}
		return "local"
	}
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	entries := h.engine.Registry().Entries()
	tools := make([]ToolInfo, 0, len(entries))
	for _, entry := range entries {
		tools = append(tools, describeEntry(entry))
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"tools": tools,
		"count": len(tools),
	})
}

// Get handles GET /api/tools/{name}.
func (h *ToolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.engine.Registry().Lookup(r.PathValue("name"))
	if err != nil {
		WriteInvocationError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, describeEntry(entry))
}

// Invoke handles POST /api/tools/{name}. The body is the JSON argument object;
// an empty body means no arguments.
func (h *ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	args, err := decodeArgs(r)
	if err != nil {
		h.logger.Debug().Str("operation", name).Str("error", err.Error()).Msg("rejected invocation body")
		WriteJSON(w, http.StatusBadRequest, errorEnvelope{Error: dispatch.ErrorDetail{
			Type:    dispatch.TypeValidation,
			Message: err.Error(),
		}})
		return
	}

	res, err := h.engine.Invoke(r.Context(), name, args)
	if err != nil {
		WriteInvocationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(res.Payload)
}

func decodeArgs(r *http.Request) (map[string]any, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxInvokeBody+1))
	if err != nil {
		return nil, errors.New("failed to read request body")
	}
	if len(data) > maxInvokeBody {
		return nil, errors.New("request body too large")
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, errors.New("request body must be a JSON object")
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

type errorEnvelope struct {
	Error dispatch.ErrorDetail `json:"error"`
}

// WriteInvocationError writes err as the structured error body with its HTTP status.
func WriteInvocationError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFor(err), errorEnvelope{Error: dispatch.Describe(err)})
}

// StatusFor maps an invocation error to the REST status code.
func StatusFor(err error) int {
	var (
		unknown   *registry.UnknownOperationError
		invalid   *schema.ValidationError
		transport *dispatch.TransportError
		upstream  *dispatch.UpstreamError
		malformed *dispatch.MalformedResponseError
	)
	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &transport):
		if transport.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &upstream), errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
