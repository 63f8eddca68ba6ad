package transport

import (
	"context"
	"fmt"
	"sync"
)

// Handler answers one request payload for a registered RequestType,
// a typed handle(request) -> response contract.
type Handler func(ctx context.Context, payload []byte) ([]byte, error)

// Registry is the closed, type_id-keyed handler map used in place of
// trait-object request polymorphism: "a registry
// keyed by type_id -> handler".
type Registry struct {
	mu       sync.RWMutex
	handlers map[RequestType]Handler
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[RequestType]Handler{}}
}

// Register binds a handler to a RequestType. Registering the same
// RequestType twice is a programming error, not a runtime one: handler
// sets are wired once at startup.
func (r *Registry) Register(reqType RequestType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[reqType]; exists {
		panic(fmt.Sprintf("transport: handler already registered for type %d", reqType))
	}
	r.handlers[reqType] = h
}

// Handle dispatches a decoded request to its registered handler. An
// unrecognized RequestType surfaces as ErrUnsupportedProtocols rather
// than a generic error, so callers can distinguish "no such handler"
// from a handler-level failure.
func (r *Registry) Handle(ctx context.Context, reqType RequestType, payload []byte) ([]byte, error) {
	r.mu.RLock()
	h, ok := r.handlers[reqType]
	r.mu.RUnlock()
	if !ok {
		return nil, &Error{Kind: ErrUnsupportedProtocols, Cause: fmt.Errorf("no handler for request type %d (type_id=%d)", reqType, reqType.TypeID())}
	}
	return h(ctx, payload)
}
