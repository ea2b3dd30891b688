package pulse

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/errors"
	"github.com/Iron-Ham/pulse/internal/event"
	"github.com/Iron-Ham/pulse/internal/host"
	"github.com/Iron-Ham/pulse/internal/logging"
)

// MuxOption configures a Mux.
type MuxOption func(*Mux)

// WithLogger sets the logger used by the mux and its contexts.
func WithLogger(logger *logging.Logger) MuxOption {
	return func(m *Mux) {
		m.logger = logger
	}
}

// WithBus sets the event bus lifecycle and dispatch events are published to.
func WithBus(bus *event.Bus) MuxOption {
	return func(m *Mux) {
		m.bus = bus
	}
}

// WithDefaultFanoutLimit bounds concurrent directed sends during broadcast
// for every context on the mux. Zero means unbounded.
func WithDefaultFanoutLimit(n int) MuxOption {
	return func(m *Mux) {
		m.fanoutLimit = n
	}
}

// entry is the mux slot of one registered context.
type entry struct {
	reg    *registration
	handle host.Listener
}

// Mux owns the host listeners of one channel and multiplexes them across
// contexts by category. It attaches at most one listener per host kind, on
// the first registration of that kind, and keeps it until Close.
//
// Registering a second context with the same category and kind displaces
// the first.
type Mux struct {
	ch          host.Channel
	logger      *logging.Logger
	bus         *event.Bus
	fanoutLimit int

	mu      sync.RWMutex
	entries map[host.Kind]map[string]*entry
	stops   map[host.Kind]func()
	closed  bool
}

// NewMux creates a mux over ch. No listener is attached until the first
// context registers.
func NewMux(ch host.Channel, opts ...MuxOption) *Mux {
	m := &Mux{
		ch:      ch,
		logger:  logging.NopLogger(),
		entries: make(map[host.Kind]map[string]*entry),
		stops:   make(map[host.Kind]func()),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.NopLogger()
	}
	if m.fanoutLimit < 0 {
		m.fanoutLimit = 0
	}
	return m
}

// Channel returns the host channel the mux listens on.
func (m *Mux) Channel() host.Channel {
	return m.ch
}

// Categories returns the categories currently receiving on kind, sorted.
func (m *Mux) Categories(kind host.Kind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.entries[kind]))
}

// Close detaches every host listener. Registered contexts stop receiving
// and no further contexts can register. It is safe to call multiple times.
func (m *Mux) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	stops := slices.Collect(maps.Values(m.stops))
	m.stops = make(map[host.Kind]func())
	m.entries = make(map[host.Kind]map[string]*entry)
	m.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	m.logger.Debug("mux closed")
}

// attach installs e as the receiver for category on kind and returns the
// entry it displaced, if any.
func (m *Mux) attach(kind host.Kind, category string, e *entry) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.ErrMuxClosed
	}
	if _, ok := m.stops[kind]; !ok {
		m.stops[kind] = m.ch.Listen(kind, m.listener(kind))
		m.logger.Debug("host listener attached", "kind", kind.String())
	}

	slots := m.entries[kind]
	if slots == nil {
		slots = make(map[string]*entry)
		m.entries[kind] = slots
	}
	prev := slots[category]
	slots[category] = e
	return prev, nil
}

// detach removes e if it is still the receiver for category on kind.
func (m *Mux) detach(kind host.Kind, category string, e *entry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[kind][category] != e {
		return false
	}
	delete(m.entries[kind], category)
	return true
}

func (m *Mux) lookup(kind host.Kind, category string) *entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[kind][category]
}

// listener is the single host listener for kind. Envelopes for a category
// with no receiver are not handled.
func (m *Mux) listener(kind host.Kind) host.Listener {
	return func(ctx context.Context, env envelope.Envelope, sender host.SenderInfo, resp host.Responder) (bool, error) {
		e := m.lookup(kind, env.Category)
		if e == nil {
			return false, nil
		}
		return e.handle(ctx, env, sender, resp)
	}
}

func (m *Mux) publish(ev event.Event) {
	if m.bus != nil {
		m.bus.Publish(ev)
	}
}
