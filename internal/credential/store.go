// Package credential holds the bearer token sent on outbound backend calls.
package credential

import "sync"

// Store holds the current bearer token. It has no history and no expiry:
// Set overwrites, Get reads. The zero value is ready to use and empty.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore returns a store seeded with token.
func NewStore(token string) *Store {
	return &Store{token: token}
}

// Set replaces the stored token. No format validation is applied.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Get returns the stored token, or "" if none was ever set.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

var defaultStore Store

// Default returns the process-wide store.
func Default() *Store {
	return &defaultStore
}

// SetAuthToken overwrites the process-wide token.
func SetAuthToken(token string) {
	defaultStore.Set(token)
}

// GetAuthToken returns the process-wide token.
func GetAuthToken() string {
	return defaultStore.Get()
}
