package dispatcher

import (
	"fmt"
	"sync"

	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
)

// Registry maps command labels to handlers.
//
// Registration order is remembered; it is the order in which a chain built
// from the registry tries its handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]handler.Handler
	order    []string
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]handler.Handler),
	}
}

// Register adds a handler under its label.
// Labels are unique; registering a second handler for a label fails.
func (r *Registry) Register(h handler.Handler) error {
	if h == nil || h.Label() == "" {
		return ErrInvalidHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	label := h.Label()
	if _, ok := r.handlers[label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	r.handlers[label] = h
	r.order = append(r.order, label)
	return nil
}

// Unregister removes the handler for a label.
// It reports whether a handler was removed.
func (r *Registry) Unregister(label string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[label]; !ok {
		return false
	}
	delete(r.handlers, label)
	for i, l := range r.order {
		if l == label {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the handler for a label, or nil.
func (r *Registry) Get(label string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[label]
}

// Has returns true if a handler is registered for the label.
func (r *Registry) Has(label string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[label]
	return ok
}

// List returns all registered labels in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, len(r.order))
	copy(labels, r.order)
	return labels
}

// Handlers returns all registered handlers in registration order.
func (r *Registry) Handlers() []handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hs := make([]handler.Handler, 0, len(r.order))
	for _, label := range r.order {
		hs = append(hs, r.handlers[label])
	}
	return hs
}

// Chain builds a chain of responsibility over the registered handlers.
func (r *Registry) Chain() *handler.Link {
	return handler.Chain(r.Handlers()...)
}

// Count returns the number of registered labels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Clear removes all registered handlers.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[string]handler.Handler)
	r.order = nil
}
