package core

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// EventEmitter defines the interface for emitting events to the UI.
type EventEmitter interface {
	Emit(eventName string, data interface{})
}

// WailsEventEmitter emits events using the Wails runtime.
type WailsEventEmitter struct {
	Ctx context.Context
}

// Emit sends an event to the frontend via Wails runtime.
func (e *WailsEventEmitter) Emit(eventName string, data interface{}) {
	if e.Ctx != nil {
		runtime.EventsEmit(e.Ctx, eventName, data)
	}
}

// NoopEventEmitter is a no-op event emitter for testing.
type NoopEventEmitter struct{}

// Emit does nothing (used for tests).
func (e *NoopEventEmitter) Emit(eventName string, data interface{}) {}

// =============================================================================
// Custom Error Types
// =============================================================================

// UnknownDomainError indicates no filter store is registered for a domain.
type UnknownDomainError struct {
	Domain string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("unknown filter domain: %s", e.Domain)
}

// NoUserError indicates no user is signed in, so stores cannot be keyed.
type NoUserError struct{}

func (e *NoUserError) Error() string {
	return "no signed-in user"
}
