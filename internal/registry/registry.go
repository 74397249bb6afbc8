// Package registry maps operation names to their schema and HTTP transport.
package registry

import (
	"fmt"
	"sync"

	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

// Entry pairs an operation's schema with its transport. Entries are immutable
// once registered.
type Entry struct {
	Operation schema.OperationDescriptor
	Transport TransportDescriptor
}

// Name returns the operation name.
func (e *Entry) Name() string {
	return e.Operation.Name
}

// Registry is an append-only set of operations keyed by name.
// It is populated at startup and read concurrently afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds an operation. A name can be registered once; a second attempt
// returns *DuplicateOperationError and leaves the first entry in place.
func (r *Registry) Register(op schema.OperationDescriptor, transport TransportDescriptor) error {
	if err := op.Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	transport = transport.normalize()
	if err := transport.check(op); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[op.Name]; exists {
		return &DuplicateOperationError{Name: op.Name}
	}
	r.entries[op.Name] = &Entry{Operation: op, Transport: transport}
	r.order = append(r.order, op.Name)
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}
	return e, nil
}

// List returns registered names in insertion order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Entries returns registered entries in insertion order.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*Entry, len(r.order))
	for i, name := range r.order {
		entries[i] = r.entries[name]
	}
	return entries
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
