package dispatch

import (
	"maps"
	"slices"
	"sync"

	"github.com/Iron-Ham/pulse/internal/envelope"
)

// Registry maps actions to handlers of type H.
type Registry[H any] struct {
	mu       sync.RWMutex
	handlers map[string]H
}

// NewRegistry creates a registry holding a copy of handlers.
func NewRegistry[H any](handlers map[string]H) *Registry[H] {
	r := &Registry[H]{}
	r.Set(handlers)
	return r
}

// Set replaces the whole registry with a copy of handlers.
// Actions absent from handlers are no longer routable afterwards.
func (r *Registry[H]) Set(handlers map[string]H) {
	next := maps.Clone(handlers)
	if next == nil {
		next = make(map[string]H)
	}

	r.mu.Lock()
	r.handlers = next
	r.mu.Unlock()
}

// Lookup returns the handler registered under action.
func (r *Registry[H]) Lookup(action string) (H, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[action]
	return h, ok
}

// Actions returns the registered actions in sorted order.
func (r *Registry[H]) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}

// Len returns the number of registered actions.
func (r *Registry[H]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Match reports whether env belongs to category.
func Match(env envelope.Envelope, category string) bool {
	return env.Category == category
}

// Route returns the handler for env if env belongs to category and its
// action is registered.
func Route[H any](env envelope.Envelope, category string, reg *Registry[H]) (H, bool) {
	if !Match(env, category) {
		var zero H
		return zero, false
	}
	return reg.Lookup(env.Action)
}
