package pulse

import (
	"context"

	"github.com/Iron-Ham/pulse/internal/dispatch"
	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/host"
)

// Peer is an internal context with simple handlers. It listens on the
// Internal stream and sends directed or broadcast.
type Peer struct {
	*Base
	*registration
}

// NewPeer creates a Peer and registers it on m.
func NewPeer(m *Mux, category string, handlers map[string]SimpleHandler) (*Peer, error) {
	p := &Peer{
		Base:         NewBase(category, handlers),
		registration: newRegistration(m, category, host.Internal, variantPeer),
	}
	if err := p.register(p.handleSimple(p.Base)); err != nil {
		return nil, err
	}
	return p, nil
}

// Send sends action to one recipient when directed, otherwise to every
// eligible recipient.
func (p *Peer) Send(ctx context.Context, action string, payload any, opts ...SendOption) (Reply, error) {
	return p.send(ctx, action, payload, true, opts)
}

// External is a context with simple handlers that answers externally-origin
// callers. It listens on the External stream and sends directed or
// broadcast.
type External struct {
	*Base
	*registration
}

// NewExternal creates an External context and registers it on m.
func NewExternal(m *Mux, category string, handlers map[string]SimpleHandler) (*External, error) {
	x := &External{
		Base:         NewBase(category, handlers),
		registration: newRegistration(m, category, host.External, variantExternal),
	}
	if err := x.register(x.handleSimple(x.Base)); err != nil {
		return nil, err
	}
	return x, nil
}

// Send sends action to one recipient when directed, otherwise to every
// eligible recipient.
func (x *External) Send(ctx context.Context, action string, payload any, opts ...SendOption) (Reply, error) {
	return x.send(ctx, action, payload, true, opts)
}

// handleSimple adapts b to the host listener contract: a nil value sends no
// reply and the reply path always closes.
func (r *registration) handleSimple(b *Base) host.Listener {
	return func(ctx context.Context, env envelope.Envelope, sender host.SenderInfo, resp host.Responder) (bool, error) {
		value, handled, err := b.Process(ctx, env)
		if !handled {
			return false, nil
		}

		switch {
		case err != nil:
			r.dispatched(env, dispatch.KindFailed, sender)
		case value == nil:
			r.dispatched(env, dispatch.KindNoValue, sender)
		default:
			r.dispatched(env, dispatch.KindImmediate, sender)
		}
		return false, handlerError(env, dispatch.ResolveSimple(value, err, resp))
	}
}
