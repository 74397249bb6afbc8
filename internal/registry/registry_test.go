package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

func operation(t *testing.T, name string) schema.OperationDescriptor {
	t.Helper()
	op, err := schema.NewOperation(name, name, "test operation").
		Param(schema.String("parentId").WithDefault("c1")).
		Param(schema.String("ticketId").Require()).
		Param(schema.String("comment")).
		Param(schema.String("token")).
		Build()
	require.NoError(t, err)
	return op
}

func getTransport() TransportDescriptor {
	return TransportDescriptor{
		URI:         "https://backend.example.com/getMessages",
		Method:      "get",
		QueryParams: []string{"parentId", "ticketId"},
		Auth:        AuthBearer,
	}
}

func TestRegister_LookupAndList(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(operation(t, "get-messages"), getTransport()))
	require.NoError(t, r.Register(operation(t, "delete-message"), TransportDescriptor{
		URI: "https://backend.example.com/deleteMessage", Method: "DELETE",
		QueryParams: []string{"parentId", "ticketId"},
	}))

	e, err := r.Lookup("get-messages")
	require.NoError(t, err)
	assert.Equal(t, "get-messages", e.Name())
	assert.Equal(t, "GET", e.Transport.Method, "method is normalized")
	assert.True(t, e.Transport.InQuery("ticketId"))
	assert.False(t, e.Transport.InBody("ticketId"))

	d, err := r.Lookup("delete-message")
	require.NoError(t, err)
	assert.Equal(t, AuthNone, d.Transport.Auth, "auth defaults to none")

	assert.Equal(t, []string{"get-messages", "delete-message"}, r.List())
	assert.Equal(t, 2, r.Len())

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "delete-message", entries[1].Name())
}

func TestRegister_DuplicateKeepsFirst(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(operation(t, "get-messages"), getTransport()))

	second := getTransport()
	second.URI = "https://other.example.com/getMessages"
	err := r.Register(operation(t, "get-messages"), second)

	var dup *DuplicateOperationError
	require.True(t, errors.As(err, &dup), "expected DuplicateOperationError, got %v", err)
	assert.Equal(t, "get-messages", dup.Name)

	e, err := r.Lookup("get-messages")
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example.com/getMessages", e.Transport.URI)
	assert.Equal(t, 1, r.Len())
}

func TestLookup_Unknown(t *testing.T) {
	_, err := New().Lookup("missing")

	var unknown *UnknownOperationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, `unknown operation "missing"`, err.Error())
}

func TestRegister_TransportInvariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransportDescriptor)
	}{
		{"empty uri", func(d *TransportDescriptor) { d.URI = "" }},
		{"patch not allowed", func(d *TransportDescriptor) { d.Method = "PATCH" }},
		{"unknown auth", func(d *TransportDescriptor) { d.Auth = "basic" }},
		{"body on GET", func(d *TransportDescriptor) { d.BodyParams = []string{"comment"} }},
		{"body on DELETE", func(d *TransportDescriptor) { d.Method = "DELETE"; d.BodyParams = []string{"comment"} }},
		{"undeclared query param", func(d *TransportDescriptor) { d.QueryParams = append(d.QueryParams, "cursor") }},
		{"overlapping sets", func(d *TransportDescriptor) {
			d.Method = "POST"
			d.BodyParams = []string{"ticketId"}
		}},
		{"duplicate in one set", func(d *TransportDescriptor) { d.QueryParams = []string{"parentId", "parentId"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := getTransport()
			tt.mutate(&transport)

			err := New().Register(operation(t, "op"), transport)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestRegister_BearerRequiresTokenParam(t *testing.T) {
	op, err := schema.NewOperation("no-token", "No Token", "").
		Param(schema.String("parentId")).
		Build()
	require.NoError(t, err)

	err = New().Register(op, TransportDescriptor{
		URI: "https://backend.example.com/x", Method: "GET", Auth: AuthBearer,
	})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestRegister_InvalidSchema(t *testing.T) {
	op := schema.OperationDescriptor{
		Name:       "bad",
		Parameters: []schema.ParameterSpec{schema.Enum("status")},
	}
	err := New().Register(op, TransportDescriptor{URI: "https://x", Method: "GET"})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestRegister_POSTMayUseQueryAndBody(t *testing.T) {
	err := New().Register(operation(t, "create-message"), TransportDescriptor{
		URI:         "https://backend.example.com/createMessage",
		Method:      "POST",
		QueryParams: []string{"parentId"},
		BodyParams:  []string{"ticketId", "comment"},
		Auth:        AuthBearer,
	})
	assert.NoError(t, err)
}

func TestRegister_TransportSlicesAreCopied(t *testing.T) {
	r := New()
	transport := getTransport()
	require.NoError(t, r.Register(operation(t, "get-messages"), transport))

	transport.QueryParams[0] = "mutated"

	e, err := r.Lookup("get-messages")
	require.NoError(t, err)
	assert.Equal(t, "parentId", e.Transport.QueryParams[0])
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	r := New()
	for i := 0; i < 10; i++ {
		require.NoError(t, r.Register(operation(t, fmt.Sprintf("op-%d", i)), getTransport()))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := r.Lookup(fmt.Sprintf("op-%d", n%10))
			assert.NoError(t, err)
			assert.Len(t, r.List(), 10)
		}(i)
	}
	wg.Wait()
}

func TestPlaceholders(t *testing.T) {
	assert.Nil(t, Placeholders("https://x/getTickets"))
	assert.Equal(t, []string{"parentId", "ticketId"}, Placeholders("https://x/complexes/{parentId}/tickets/{ticketId}"))
	assert.Nil(t, Placeholders("https://x/{}/broken{"))
}

func TestRegister_PlaceholderMustBeDeclared(t *testing.T) {
	transport := getTransport()
	transport.URI = "https://backend.example.com/tickets/{cursor}"

	err := New().Register(operation(t, "op"), transport)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	transport.URI = "https://backend.example.com/tickets/{ticketId}"
	assert.NoError(t, New().Register(operation(t, "op"), transport))
}
