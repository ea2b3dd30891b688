package event

import (
	"fmt"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/Iron-Ham/pulse/internal/logging"
)

// Handler is a function that handles an event.
type Handler func(Event)

// wildcard is the subscription key for handlers that receive every event.
const wildcard = "*"

type subscription struct {
	id        string
	eventType string
	handler   Handler
	match     glob.Glob // set for pattern subscriptions
}

// Bus is a simple synchronous pub-sub event bus.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // eventType -> subscriptions
	patterns      []subscription
	logger        *logging.Logger
}

// NewBus creates a new event bus. Handler panics are reported to logger;
// a nil logger discards them.
func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Bus{
		subscriptions: make(map[string][]subscription),
		logger:        logger,
	}
}

// Subscribe registers a handler for a specific event type.
// Returns a subscription ID that can be used to unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
	})
	return id
}

// SubscribeMatch registers a handler for every event type matching pattern.
// Patterns use glob syntax with '.' as the separator, so "context.*" matches
// "context.registered" but not "context.a.b", while "**" matches anything.
func (b *Bus) SubscribeMatch(pattern string, handler Handler) (string, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return "", fmt.Errorf("invalid event pattern %q: %w", pattern, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.patterns = append(b.patterns, subscription{
		id:        id,
		eventType: pattern,
		handler:   handler,
		match:     g,
	})
	return id, nil
}

// SubscribeAll registers a handler for all event types.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := slices.IndexFunc(b.patterns, func(s subscription) bool { return s.id == id }); i >= 0 {
		b.patterns = slices.Delete(b.patterns, i, i+1)
		return true
	}
	for eventType, subs := range b.subscriptions {
		i := slices.IndexFunc(subs, func(s subscription) bool { return s.id == id })
		if i < 0 {
			continue
		}
		b.subscriptions[eventType] = slices.Delete(subs, i, i+1)
		if len(b.subscriptions[eventType]) == 0 {
			delete(b.subscriptions, eventType)
		}
		return true
	}
	return false
}

// Publish dispatches an event to all registered handlers.
// Specific handlers are called first, then pattern handlers, then wildcard
// handlers, each group in registration order. A panicking handler is logged and skipped.
func (b *Bus) Publish(event Event) {
	eventType := event.EventType()

	b.mu.RLock()
	specific := slices.Clone(b.subscriptions[eventType])
	all := slices.Clone(b.subscriptions[wildcard])
	var matched []subscription
	for _, sub := range b.patterns {
		if sub.match.Match(eventType) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, event)
	}
	for _, sub := range matched {
		b.safeCall(sub.handler, event)
	}
	for _, sub := range all {
		b.safeCall(sub.handler, event)
	}
}

func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event_type", event.EventType(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	handler(event)
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string][]subscription)
	b.patterns = nil
}

// SubscriptionCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := len(b.patterns)
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}
