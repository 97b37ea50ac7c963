package chain

import (
	"context"
	"sync"
)

// scopeContextKey is a private context key type to avoid collisions
type scopeContextKey struct{}

// Scope holds shared, host-owned data available to every interceptor in one
// execution. The executor borrows it for the execution's lifetime; the host
// owns it and may read it afterwards.
type Scope struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewScope creates an empty scope
func NewScope() *Scope {
	return &Scope{values: make(map[string]any)}
}

// Set stores a value in the scope
func (s *Scope) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get retrieves a value from the scope
func (s *Scope) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, exists := s.values[key]
	return value, exists
}

// GetString retrieves a string value from the scope
func (s *Scope) GetString(key string) (string, bool) {
	value, exists := s.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetInt retrieves an int value from the scope
func (s *Scope) GetInt(key string) (int, bool) {
	value, exists := s.Get(key)
	if !exists {
		return 0, false
	}
	i, ok := value.(int)
	return i, ok
}

// GetBool retrieves a bool value from the scope
func (s *Scope) GetBool(key string) (bool, bool) {
	value, exists := s.Get(key)
	if !exists {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// Delete removes a value from the scope
func (s *Scope) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Clone creates an independent copy of the scope
func (s *Scope) Clone() *Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := NewScope()
	for k, v := range s.values {
		clone.values[k] = v
	}
	return clone
}

// WithScope attaches a scope to a context so hosts can carry it across
// handler boundaries.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// ScopeFrom retrieves the scope attached to a context, if any.
func ScopeFrom(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeContextKey{}).(*Scope)
	return s, ok
}
