package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/errors"
	"github.com/Iron-Ham/pulse/internal/host"
	"github.com/Iron-Ham/pulse/internal/logging"
)

// EndpointOption configures an Endpoint.
type EndpointOption func(*endpointConfig)

type endpointConfig struct {
	tabID    int
	external bool
	origin   string
}

// AsTab makes the endpoint an eligible recipient under id.
func AsTab(id int) EndpointOption {
	return func(c *endpointConfig) {
		c.tabID = id
	}
}

// AsExternal marks the endpoint as an external caller with the given origin.
func AsExternal(origin string) EndpointOption {
	return func(c *endpointConfig) {
		c.external = true
		c.origin = origin
	}
}

type listenerEntry struct {
	fn host.Listener
}

// Endpoint is one execution context attached to a Hub. It implements
// host.Channel.
type Endpoint struct {
	hub    *Hub
	info   host.SenderInfo
	logger *logging.Logger

	mu        sync.RWMutex
	listeners map[host.Kind][]*listenerEntry

	inbox    chan *delivery
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

var _ host.Channel = (*Endpoint)(nil)

func newEndpoint(h *Hub, name string, cfg endpointConfig) *Endpoint {
	ctx, cancel := context.WithCancel(context.Background())
	return &Endpoint{
		hub: h,
		info: host.SenderInfo{
			ID:       uuid.NewString(),
			Name:     name,
			TabID:    cfg.tabID,
			Origin:   cfg.origin,
			External: cfg.external,
		},
		logger:    h.logger.WithEndpoint(name),
		listeners: make(map[host.Kind][]*listenerEntry),
		inbox:     make(chan *delivery, h.inboxSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Info returns the descriptor other endpoints see as the sender.
func (e *Endpoint) Info() host.SenderInfo {
	return e.info
}

// Listen attaches l to the given inbound stream.
func (e *Endpoint) Listen(kind host.Kind, l host.Listener) (stop func()) {
	entry := &listenerEntry{fn: l}

	e.mu.Lock()
	e.listeners[kind] = append(e.listeners[kind], entry)
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			entries := e.listeners[kind]
			for i, x := range entries {
				if x == entry {
					e.listeners[kind] = append(entries[:i:i], entries[i+1:]...)
					break
				}
			}
		})
	}
}

// ListenerCount returns the number of listeners attached for kind.
func (e *Endpoint) ListenerCount(kind host.Kind) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[kind])
}

func (e *Endpoint) hasListeners(kind host.Kind) bool {
	return e.ListenerCount(kind) > 0
}

func (e *Endpoint) snapshot(kind host.Kind) []*listenerEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*listenerEntry, len(e.listeners[kind]))
	copy(out, e.listeners[kind])
	return out
}

// SendDirected delivers env to the Internal listeners of the tab endpoint
// registered under recipient.
func (e *Endpoint) SendDirected(ctx context.Context, recipient int, env envelope.Envelope) (any, error) {
	target, ok := e.hub.tab(recipient)
	if !ok {
		return nil, errors.NewDeliveryError("send "+env.Key(), errors.ErrUnknownRecipient).WithRecipient(recipient)
	}
	if !target.hasListeners(host.Internal) {
		return nil, errors.NewDeliveryError("send "+env.Key(), errors.ErrNoReceiver).
			WithRecipient(recipient).WithEndpoint(target.info.Name)
	}

	c := newCall(1)
	if err := target.enqueue(ctx, &delivery{env: env, sender: e.info, kind: host.Internal, call: c}); err != nil {
		return nil, errors.NewDeliveryError("send "+env.Key(), err).WithRecipient(recipient).WithEndpoint(target.info.Name)
	}

	v, err := c.wait(ctx)
	if err != nil {
		return nil, errors.NewDeliveryError("send "+env.Key(), err).WithRecipient(recipient).WithEndpoint(target.info.Name)
	}
	return v, nil
}

// Recipients returns the hub's tab ids in registration order.
func (e *Endpoint) Recipients(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.hub.recipients(), nil
}

// SendUndirected delivers env to every other non-tab endpoint and returns the
// first reply. External senders reach External listeners; all others reach
// Internal listeners.
func (e *Endpoint) SendUndirected(ctx context.Context, env envelope.Envelope) (any, error) {
	kind := host.Internal
	if e.info.External {
		kind = host.External
	}

	peers := e.hub.peers(e, kind)
	if len(peers) == 0 {
		return nil, errors.NewDeliveryError("send "+env.Key(), errors.ErrNoReceiver)
	}

	c := newCall(len(peers))
	for _, p := range peers {
		if err := p.enqueue(ctx, &delivery{env: env, sender: e.info, kind: kind, call: c}); err != nil {
			c.finish(false)
			e.logger.Warn("undirected delivery dropped", "peer", p.info.Name, "error", err)
		}
	}

	v, err := c.wait(ctx)
	if err != nil {
		return nil, errors.NewDeliveryError("send "+env.Key(), err)
	}
	return v, nil
}

// Close detaches the endpoint from its hub and stops its event loop.
func (e *Endpoint) Close() {
	e.hub.detach(e)
	e.stop()
}

func (e *Endpoint) start() {
	e.wg.Go(e.run)
}

func (e *Endpoint) stop() {
	e.stopOnce.Do(func() {
		e.cancel()
		e.wg.Wait()
	})
}

func (e *Endpoint) run() {
	for {
		select {
		case <-e.ctx.Done():
			return
		case d := <-e.inbox:
			e.process(d)
		}
	}
}

func (e *Endpoint) enqueue(ctx context.Context, d *delivery) error {
	select {
	case e.inbox <- d:
		d.call.watch(e.ctx.Done())
		return nil
	case <-e.ctx.Done():
		return errors.ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// process runs every listener of the delivery's kind in attachment order.
func (e *Endpoint) process(d *delivery) {
	keepOpen := false
	for _, l := range e.snapshot(d.kind) {
		keep, err := l.fn(e.ctx, d.env, d.sender, d.call)
		if err != nil {
			d.call.Fail(err)
		}
		keepOpen = keepOpen || keep
	}
	d.call.finish(keepOpen)
}
