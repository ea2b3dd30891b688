package pulse

import (
	"context"

	"github.com/Iron-Ham/pulse/internal/dispatch"
	"github.com/Iron-Ham/pulse/internal/envelope"
)

// SimpleHandler handles one action's payload. A nil value means no reply.
type SimpleHandler func(ctx context.Context, payload any) (any, error)

// Base is a context with a fixed category and a handler registry but no
// host binding. It can process envelopes handed to it directly and has no
// Sender capability.
type Base struct {
	category string
	registry *dispatch.Registry[SimpleHandler]
}

// NewBase creates an unbound context.
func NewBase(category string, handlers map[string]SimpleHandler) *Base {
	return &Base{
		category: category,
		registry: dispatch.NewRegistry(handlers),
	}
}

// Category returns the context's fixed category.
func (b *Base) Category() string {
	return b.category
}

// Actions returns the registered actions, sorted.
func (b *Base) Actions() []string {
	return b.registry.Actions()
}

// SetEvents replaces the whole handler registry.
func (b *Base) SetEvents(handlers map[string]SimpleHandler) {
	b.registry.Set(handlers)
}

// Process runs the handler registered for env. handled is false when env
// belongs to another category or names an unregistered action; handled with
// a nil value means the handler ran and produced nothing.
func (b *Base) Process(ctx context.Context, env envelope.Envelope) (value any, handled bool, err error) {
	h, ok := dispatch.Route(env, b.category, b.registry)
	if !ok || h == nil {
		return nil, false, nil
	}
	value, err = h(ctx, env.Payload)
	return value, true, err
}
