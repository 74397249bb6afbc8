// Package tools declares the ticket and message operations exposed by the gateway.
package tools

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/credential"
	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// Ticket field values accepted by the backend.
var (
	TicketStatuses   = []string{"open", "inProgress", "onHold", "resolved", "closed"}
	TicketPriorities = []string{"low", "medium", "high"}
)

// Defaults carries the values operations fall back to when a caller omits them.
type Defaults struct {
	BaseURL     string
	ParentID    string
	Credentials *credential.Store
}

// Definition pairs an operation schema with its backend transport.
type Definition struct {
	Operation schema.OperationDescriptor
	Transport registry.TransportDescriptor
}

// pending is an operation awaiting Build.
type pending struct {
	op        *schema.Builder
	transport registry.TransportDescriptor
}

// Definitions returns every ticket and message operation in registration order.
// Every operation carries bearer auth.
func Definitions(d Defaults) ([]Definition, error) {
	ops := append(ticketOperations(d), messageOperations(d)...)
	defs := make([]Definition, 0, len(ops))
	for _, p := range ops {
		op, err := p.op.Build()
		if err != nil {
			return nil, err
		}
		t := p.transport
		t.Auth = registry.AuthBearer
		defs = append(defs, Definition{Operation: op, Transport: t})
	}
	return defs, nil
}

// RegisterAll adds every operation to reg. Any error is fatal to startup.
func RegisterAll(reg *registry.Registry, d Defaults, logger *common.Logger) error {
	defs, err := Definitions(d)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := reg.Register(def.Operation, def.Transport); err != nil {
			return fmt.Errorf("failed to register %s: %w", def.Operation.Name, err)
		}
		logger.Info().Str("operation", def.Operation.Name).Str("method", def.Transport.Method).Msg("operation registered")
	}
	return nil
}

// endpoint joins the backend base URL and a path.
func (d Defaults) endpoint(path string) string {
	return strings.TrimSuffix(d.BaseURL, "/") + path
}

// parentID declares the parentId parameter defaulting to the configured complex.
func (d Defaults) parentID(desc string) schema.ParameterSpec {
	return schema.String("parentId").WithDefault(d.ParentID).Describe(desc)
}

// token declares the bearer token parameter, resolved from the credential store on every call.
func (d Defaults) token() schema.ParameterSpec {
	creds := d.Credentials
	return schema.String(registry.TokenParam).
		WithDefaultFunc(func() any {
			if creds == nil {
				return credential.GetAuthToken()
			}
			return creds.Get()
		}).
		Describe("Authentication token")
}
