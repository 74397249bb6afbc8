package registry

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// AuthRequirement selects how an outbound request authenticates.
type AuthRequirement string

const (
	AuthNone   AuthRequirement = "none"
	AuthBearer AuthRequirement = "bearer"
)

// TokenParam is the parameter whose effective value becomes the bearer credential.
const TokenParam = "token"

// allowedMethods is the whitelist of HTTP methods an operation may use.
var allowedMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true,
}

// TransportDescriptor describes how an operation is realized over HTTP.
type TransportDescriptor struct {
	URI         string
	Method      string
	QueryParams []string
	BodyParams  []string
	Auth        AuthRequirement
}

// HasBody reports whether the method carries a JSON request body.
func (t TransportDescriptor) HasBody() bool {
	return t.Method == http.MethodPost || t.Method == http.MethodPut
}

// InQuery reports whether name is placed in the query string.
func (t TransportDescriptor) InQuery(name string) bool {
	return slices.Contains(t.QueryParams, name)
}

// InBody reports whether name is placed in the request body.
func (t TransportDescriptor) InBody(name string) bool {
	return slices.Contains(t.BodyParams, name)
}

// normalize upper-cases the method and defaults auth to none.
func (t TransportDescriptor) normalize() TransportDescriptor {
	t.Method = strings.ToUpper(strings.TrimSpace(t.Method))
	if t.Auth == "" {
		t.Auth = AuthNone
	}
	t.QueryParams = slices.Clone(t.QueryParams)
	t.BodyParams = slices.Clone(t.BodyParams)
	return t
}

// check validates t against the operation it transports.
func (t TransportDescriptor) check(op schema.OperationDescriptor) error {
	if t.URI == "" {
		return fmt.Errorf("operation %q has empty uri", op.Name)
	}
	if !allowedMethods[t.Method] {
		return fmt.Errorf("operation %q has unsupported method %q", op.Name, t.Method)
	}
	if t.Auth != AuthNone && t.Auth != AuthBearer {
		return fmt.Errorf("operation %q has unsupported auth %q", op.Name, t.Auth)
	}
	if !t.HasBody() && len(t.BodyParams) > 0 {
		return fmt.Errorf("operation %q: %s cannot carry body params", op.Name, t.Method)
	}

	placed := make(map[string]string, len(t.QueryParams)+len(t.BodyParams))
	for _, set := range []struct {
		where string
		names []string
	}{{"query", t.QueryParams}, {"body", t.BodyParams}} {
		for _, name := range set.names {
			if prev, dup := placed[name]; dup {
				return fmt.Errorf("operation %q: param %q placed in both %s and %s", op.Name, name, prev, set.where)
			}
			placed[name] = set.where
			if _, ok := op.Param(name); !ok {
				return fmt.Errorf("operation %q: %s param %q is not declared", op.Name, set.where, name)
			}
		}
	}

	for _, name := range Placeholders(t.URI) {
		if _, ok := op.Param(name); !ok {
			return fmt.Errorf("operation %q: uri placeholder {%s} is not declared", op.Name, name)
		}
	}

	if t.Auth == AuthBearer {
		if _, ok := op.Param(TokenParam); !ok {
			return fmt.Errorf("operation %q: bearer auth requires a %q parameter", op.Name, TokenParam)
		}
	}
	return nil
}

// Placeholders returns the {name} segments of a URI template in order of appearance.
func Placeholders(uri string) []string {
	var names []string
	for {
		start := strings.IndexByte(uri, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(uri[start:], '}')
		if end < 0 {
			return names
		}
		if name := uri[start+1 : start+end]; name != "" {
			names = append(names, name)
		}
		uri = uri[start+end+1:]
	}
}
