package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// Error types reported to callers and used as metric outcome labels.
const (
	TypeUnknownOperation  = "unknown_operation"
	TypeValidation        = "validation"
	TypeUpstream          = "upstream"
	TypeTransport         = "transport"
	TypeMalformedResponse = "malformed_response"
	TypeInternal          = "internal"
)

// UpstreamError is a non-2xx response from the backend.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message())
}

// Message extracts the backend's {"error": "..."} text, falling back to the raw body.
func (e *UpstreamError) Message() string {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	return e.Body
}

// ErrResponseTooLarge is the cause of a TransportError when the backend body exceeds the size cap.
var ErrResponseTooLarge = errors.New("backend response too large")

// TransportError is a failure to reach the backend or read its response.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Cause, &ne) && ne.Timeout()
}

// MalformedResponseError is a 2xx response whose body is not JSON.
type MalformedResponseError struct {
	StatusCode int
	Body       string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("backend returned a non-JSON response (status %d)", e.StatusCode)
}

// ErrorDetail is the caller-facing description of a failed invocation.
type ErrorDetail struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Operation  string `json:"operation,omitempty"`
	Param      string `json:"param,omitempty"`
	Reason     string `json:"reason,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       string `json:"body,omitempty"`
}

// Describe classifies err into an ErrorDetail.
func Describe(err error) ErrorDetail {
	var (
		unknown   *registry.UnknownOperationError
		invalid   *schema.ValidationError
		upstream  *UpstreamError
		transport *TransportError
		malformed *MalformedResponseError
	)

	switch {
	case errors.As(err, &unknown):
		return ErrorDetail{Type: TypeUnknownOperation, Message: err.Error(), Operation: unknown.Name}
	case errors.As(err, &invalid):
		return ErrorDetail{Type: TypeValidation, Message: err.Error(), Param: invalid.Param, Reason: invalid.Reason}
	case errors.As(err, &upstream):
		return ErrorDetail{Type: TypeUpstream, Message: err.Error(), StatusCode: upstream.StatusCode, Body: upstream.Body}
	case errors.As(err, &transport):
		return ErrorDetail{Type: TypeTransport, Message: err.Error()}
	case errors.As(err, &malformed):
		return ErrorDetail{Type: TypeMalformedResponse, Message: err.Error(), StatusCode: malformed.StatusCode, Body: malformed.Body}
	default:
		return ErrorDetail{Type: TypeInternal, Message: err.Error()}
	}
}
