// Package memory provides an in-process host channel.
//
// A Hub connects named Endpoints, each standing in for one isolated execution
// context. Every endpoint owns a goroutine that processes its inbound
// deliveries one at a time, so listener execution for one message finishes
// before the next message on the same endpoint is delivered.
//
// Routing follows the browser-extension messaging model the pulse contexts
// were designed against:
//
//   - SendDirected reaches the Internal listeners of one tab endpoint.
//   - SendUndirected reaches every other non-tab endpoint: their Internal
//     listeners, or their External listeners when the sender is external.
//   - The first reply wins. When every listener closes the reply path without
//     replying the sender gets ErrNoResponse.
package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Iron-Ham/pulse/internal/errors"
	"github.com/Iron-Ham/pulse/internal/host"
	"github.com/Iron-Ham/pulse/internal/logging"
)

// DefaultInboxSize is the per-endpoint delivery buffer.
const DefaultInboxSize = 64

// Hub is an in-process message channel shared by a set of endpoints.
// It is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	endpoints []*Endpoint
	tabs      map[int]*Endpoint
	tabOrder  []int
	closed    bool

	inboxSize int
	logger    *logging.Logger
}

// Option configures a Hub.
type Option func(*Hub)

// WithInboxSize sets the per-endpoint delivery buffer.
// Zero or negative values are replaced with DefaultInboxSize.
func WithInboxSize(n int) Option {
	return func(h *Hub) {
		h.inboxSize = n
	}
}

// WithLogger sets the logger for the hub.
func WithLogger(logger *logging.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		tabs:      make(map[int]*Endpoint),
		inboxSize: DefaultInboxSize,
		logger:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.inboxSize <= 0 {
		h.inboxSize = DefaultInboxSize
	}
	if h.logger == nil {
		h.logger = logging.NopLogger()
	}
	return h
}

// Endpoint creates and starts a new endpoint on the hub.
func (h *Hub) Endpoint(name string, opts ...EndpointOption) (*Endpoint, error) {
	cfg := endpointConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tabID < 0 {
		return nil, fmt.Errorf("%w: tab id %d must be positive", errors.ErrInvalidInput, cfg.tabID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.ErrHubClosed
	}
	if cfg.tabID != 0 {
		if _, exists := h.tabs[cfg.tabID]; exists {
			return nil, fmt.Errorf("%w: tab %d already registered", errors.ErrInvalidInput, cfg.tabID)
		}
	}

	e := newEndpoint(h, name, cfg)
	h.endpoints = append(h.endpoints, e)
	if cfg.tabID != 0 {
		h.tabs[cfg.tabID] = e
		h.tabOrder = append(h.tabOrder, cfg.tabID)
	}
	e.start()

	h.logger.Debug("endpoint attached", "endpoint", name, "tab_id", cfg.tabID, "external", cfg.external)
	return e, nil
}

// Close stops every endpoint. Pending sends fail with ErrHubClosed.
// It is safe to call multiple times.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	endpoints := slices.Clone(h.endpoints)
	h.endpoints = nil
	h.tabs = make(map[int]*Endpoint)
	h.tabOrder = nil
	h.mu.Unlock()

	for _, e := range endpoints {
		e.stop()
	}
}

// detach removes e from the routing tables.
func (h *Hub) detach(e *Endpoint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.endpoints = slices.DeleteFunc(h.endpoints, func(x *Endpoint) bool { return x == e })
	if id := e.info.TabID; id != 0 && h.tabs[id] == e {
		delete(h.tabs, id)
		h.tabOrder = slices.DeleteFunc(h.tabOrder, func(x int) bool { return x == id })
	}
}

func (h *Hub) tab(id int) (*Endpoint, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.tabs[id]
	return e, ok
}

func (h *Hub) recipients() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.tabOrder)
}

// peers returns the non-tab endpoints other than from that have at least
// one listener of kind, in attachment order.
func (h *Hub) peers(from *Endpoint, kind host.Kind) []*Endpoint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Endpoint
	for _, e := range h.endpoints {
		if e == from || e.info.TabID != 0 {
			continue
		}
		if e.hasListeners(kind) {
			out = append(out, e)
		}
	}
	return out
}
