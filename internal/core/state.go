// Package core provides shared application state and event handling.
package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fleetyard/fleetdash/internal/filter"
)

// DefaultStorageTimeout bounds a single call to a remote snapshot backend.
const DefaultStorageTimeout = 5 * time.Second

// AppState holds the shared application state.
type AppState struct {
	ConfigDir     string          // Config directory path
	UserID        string          // Signed-in user the stores are keyed by
	Ctx           context.Context // Wails context
	DisableEvents bool            // Disable event emission (for tests)
	Emitter       EventEmitter    // Event emitter for UI notifications
	Mu            sync.RWMutex

	stores map[string]filter.Controller // Filter stores by domain name
}

// NewAppState creates a new AppState with initialized maps.
func NewAppState() *AppState {
	return &AppState{
		stores: make(map[string]filter.Controller),
	}
}

// Register adds a domain store, replacing any store of the same domain.
func (s *AppState) Register(ctl filter.Controller) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.stores[ctl.Domain()] = ctl
}

// ResetStores drops every registered store (on user switch).
func (s *AppState) ResetStores() {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.stores = make(map[string]filter.Controller)
}

// GetStore returns the store of a domain, or error if none is registered.
func (s *AppState) GetStore(domain string) (filter.Controller, error) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	ctl, ok := s.stores[domain]
	if !ok {
		return nil, &UnknownDomainError{Domain: domain}
	}
	return ctl, nil
}

// Domains returns the registered domain names in sorted order.
func (s *AppState) Domains() []string {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	names := make([]string, 0, len(s.stores))
	for name := range s.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StoreCount returns the number of registered stores.
func (s *AppState) StoreCount() int {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return len(s.stores)
}

// ContextWithTimeout creates a context with the default storage timeout.
func ContextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultStorageTimeout)
}

// EmitEvent safely emits an event through the emitter.
func (s *AppState) EmitEvent(eventName string, data interface{}) {
	if s.DisableEvents || s.Emitter == nil {
		return
	}
	s.Emitter.Emit(eventName, data)
}

// Emit makes AppState usable as a store's emitter. The underlying emitter is
// looked up on every call, so stores built before startup still reach the UI.
func (s *AppState) Emit(eventName string, data interface{}) {
	s.EmitEvent(eventName, data)
}
