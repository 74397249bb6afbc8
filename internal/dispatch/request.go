package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// BuildRequest turns validated effective arguments into the outbound request.
// Parameters placed in neither the query nor the body are not sent, apart
// from {name} placeholders in the URI and the bearer token.
func BuildRequest(ctx context.Context, entry *registry.Entry, args map[string]any) (*http.Request, error) {
	t := entry.Transport

	target, err := expandURI(entry, args)
	if err != nil {
		return nil, err
	}
	if query := encodeQuery(entry, args); query != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + query
	}

	var body io.Reader
	if t.HasBody() {
		payload := make(map[string]any, len(t.BodyParams))
		for _, name := range t.BodyParams {
			if v, ok := args[name]; ok {
				payload[name] = v
			}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, t.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.Auth == registry.AuthBearer {
		if token, _ := args[registry.TokenParam].(string); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// expandURI substitutes {name} placeholders with path-escaped effective values.
func expandURI(entry *registry.Entry, args map[string]any) (string, error) {
	uri := entry.Transport.URI
	if !strings.Contains(uri, "{") {
		return uri, nil
	}
	for _, name := range registry.Placeholders(uri) {
		v, ok := args[name]
		if !ok {
			return "", &schema.ValidationError{Param: name, Reason: schema.ReasonMissing, Detail: "required by the request path"}
		}
		uri = strings.ReplaceAll(uri, "{"+name+"}", url.PathEscape(formatValue(v)))
	}
	return uri, nil
}

// encodeQuery URL-encodes the query partition in parameter declaration order.
func encodeQuery(entry *registry.Entry, args map[string]any) string {
	var b strings.Builder
	for _, p := range entry.Operation.Parameters {
		if !entry.Transport.InQuery(p.Name) {
			continue
		}
		v, ok := args[p.Name]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatValue(v)))
	}
	return b.String()
}

// formatValue renders an effective value for a URL.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
