// Package dispatch validates tool invocations and executes them against the backend.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/credential"
	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// maxResponseSize caps the backend response body.
var maxResponseSize int64 = 50 << 20 // 50MB

// OutcomeSuccess labels an invocation that returned a payload.
const OutcomeSuccess = "success"

// Recorder observes invocations. Outcome is OutcomeSuccess or one of the Type* constants.
type Recorder interface {
	ObserveInvocation(operation, outcome string)
	ObserveUpstream(operation, method string, d time.Duration)
}

// Result is the payload of a successful invocation: the backend's JSON body, verbatim.
type Result struct {
	Operation  string
	StatusCode int
	Payload    json.RawMessage
}

// Engine resolves operations in a registry and performs one HTTP round trip
// per invocation. It never retries and never caches.
type Engine struct {
	registry    *registry.Registry
	credentials *credential.Store
	httpClient  *http.Client
	logger      *common.Logger
	recorder    Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.httpClient = c }
}

// WithTimeout sets the default client's per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.httpClient = &http.Client{Timeout: d} }
}

// WithRecorder attaches an invocation observer.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine. creds is consulted only to flag per-call token
// overrides; token defaults are resolved by the operation schema.
func New(reg *registry.Registry, creds *credential.Store, logger *common.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry:    reg,
		credentials: creds,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine dispatches against.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Invoke validates rawArgs for the named operation, sends the request, and
// returns the backend's JSON payload. Validation failures never reach the network.
func (e *Engine) Invoke(ctx context.Context, name string, rawArgs map[string]any) (*Result, error) {
	entry, err := e.registry.Lookup(name)
	if err != nil {
		e.observe(name, TypeUnknownOperation)
		return nil, err
	}

	args, err := schema.Validate(entry.Operation, rawArgs)
	if err != nil {
		e.logger.Debug().Str("operation", name).Str("error", err.Error()).Msg("invocation rejected")
		e.observe(name, TypeValidation)
		return nil, err
	}
	e.checkToken(entry, rawArgs, args)

	req, err := BuildRequest(ctx, entry, args)
	if err != nil {
		e.observe(name, Describe(err).Type)
		return nil, err
	}

	result, err := e.send(entry, req)
	if err != nil {
		e.observe(name, Describe(err).Type)
		return nil, err
	}
	e.observe(name, OutcomeSuccess)
	return result, nil
}

// send performs the round trip and translates the response.
func (e *Engine) send(entry *registry.Entry, req *http.Request) (*Result, error) {
	name := entry.Name()
	method := entry.Transport.Method
	e.logger.Debug().Str("operation", name).Str("method", method).Str("path", req.URL.Path).Msg("backend request")

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	duration := time.Since(start)
	if e.recorder != nil {
		e.recorder.ObserveUpstream(name, method, duration)
	}
	if err != nil {
		e.logger.Error().
			Str("operation", name).
			Str("method", method).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", err.Error()).
			Msg("backend request failed")
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > maxResponseSize {
		e.logger.Error().Str("operation", name).Int("status", resp.StatusCode).Msg("backend response too large")
		return nil, &TransportError{Cause: fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, maxResponseSize)}
	}

	e.logger.Debug().
		Str("operation", name).
		Int("status", resp.StatusCode).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("backend response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Warn().Str("operation", name).Int("status", resp.StatusCode).Msg("backend returned error status")
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &Result{Operation: name, StatusCode: resp.StatusCode, Payload: json.RawMessage(body)}, nil
}

// checkToken logs bearer operations that will go out unauthenticated, and
// records when a caller-supplied token replaces the stored credential.
// The token itself is never logged.
func (e *Engine) checkToken(entry *registry.Entry, rawArgs, args map[string]any) {
	if entry.Transport.Auth != registry.AuthBearer {
		return
	}
	effective, _ := args[registry.TokenParam].(string)
	if effective == "" {
		e.logger.Warn().Str("operation", entry.Name()).Msg("no bearer token available, sending unauthenticated request")
		return
	}
	supplied, _ := rawArgs[registry.TokenParam].(string)
	if supplied != "" && e.credentials != nil && supplied != e.credentials.Get() {
		e.logger.Info().Str("operation", entry.Name()).Msg("caller-supplied token overrides stored credential")
	}
}

func (e *Engine) observe(operation, outcome string) {
	if e.recorder != nil {
		e.recorder.ObserveInvocation(operation, outcome)
	}
}
