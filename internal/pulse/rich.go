package pulse

import (
	"context"

	"github.com/Iron-Ham/pulse/internal/dispatch"
	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/host"
)

// Request is everything a rich handler sees about one inbound envelope.
type Request struct {
	Payload  any
	Sender   host.SenderInfo
	Envelope envelope.Envelope

	// Responder is the raw reply path. Handlers returning KeepOpen reply
	// through it later.
	Responder host.Responder
}

// RichHandler handles one action and reports how to reply.
type RichHandler func(ctx context.Context, req *Request) dispatch.Outcome

// rich holds the registry shared by Global and Panel.
type rich struct {
	category string
	registry *dispatch.Registry[RichHandler]
}

func newRich(category string, handlers map[string]RichHandler) *rich {
	return &rich{category: category, registry: dispatch.NewRegistry(handlers)}
}

// Category returns the context's fixed category.
func (c *rich) Category() string {
	return c.category
}

// Actions returns the registered actions, sorted.
func (c *rich) Actions() []string {
	return c.registry.Actions()
}

// SetEvents replaces the whole handler registry.
func (c *rich) SetEvents(handlers map[string]RichHandler) {
	c.registry.Set(handlers)
}

// handleRich adapts c to the host listener contract using the full reply
// resolver.
func (r *registration) handleRich(c *rich) host.Listener {
	return func(ctx context.Context, env envelope.Envelope, sender host.SenderInfo, resp host.Responder) (bool, error) {
		h, ok := dispatch.Route(env, c.category, c.registry)
		if !ok || h == nil {
			return false, nil
		}

		resp = tagged{Responder: resp, env: env}
		outcome := h(ctx, &Request{
			Payload:   env.Payload,
			Sender:    sender,
			Envelope:  env,
			Responder: resp,
		})
		if !outcome.Handled() {
			return false, nil
		}

		r.dispatched(env, outcome.Kind(), sender)
		keepOpen, err := dispatch.Resolve(outcome, resp, dispatch.OnRejected(func(err error) {
			r.replyFailed(env, err)
		}))
		return keepOpen, handlerError(env, err)
	}
}

// Global is a coordinator context with rich handlers. It listens on the
// Internal stream and sends directed or broadcast.
type Global struct {
	*rich
	*registration
}

// NewGlobal creates a Global context and registers it on m.
func NewGlobal(m *Mux, category string, handlers map[string]RichHandler) (*Global, error) {
	g := &Global{
		rich:         newRich(category, handlers),
		registration: newRegistration(m, category, host.Internal, variantGlobal),
	}
	if err := g.register(g.handleRich(g.rich)); err != nil {
		return nil, err
	}
	return g, nil
}

// Send sends action to one recipient when directed, otherwise to every
// eligible recipient.
func (g *Global) Send(ctx context.Context, action string, payload any, opts ...SendOption) (Reply, error) {
	return g.send(ctx, action, payload, true, opts)
}

// Panel is a scoped context with rich handlers and a single logical peer.
// It listens on the Internal stream and sends undirected; WithTarget is
// carried on the wire for the peer to act on.
type Panel struct {
	*rich
	*registration
}

// NewPanel creates a Panel and registers it on m.
func NewPanel(m *Mux, category string, handlers map[string]RichHandler) (*Panel, error) {
	p := &Panel{
		rich:         newRich(category, handlers),
		registration: newRegistration(m, category, host.Internal, variantPanel),
	}
	if err := p.register(p.handleRich(p.rich)); err != nil {
		return nil, err
	}
	return p, nil
}

// Send sends action to the panel's peer and returns its single reply.
// To is rejected with ErrDirectionUnsupported.
func (p *Panel) Send(ctx context.Context, action string, payload any, opts ...SendOption) (Reply, error) {
	return p.send(ctx, action, payload, false, opts)
}
