package pulse

import (
	"context"

	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/errors"
	"github.com/Iron-Ham/pulse/internal/host"
)

// Reply is the result of a Send: one value for a directed or undirected
// send, or one value per recipient for a broadcast.
type Reply struct {
	value  any
	values []any
	fanOut bool
}

// Value returns the single reply. It is nil for a broadcast.
func (r Reply) Value() any {
	return r.value
}

// Values returns the broadcast replies in recipient enumeration order.
// It is nil for a single reply.
func (r Reply) Values() []any {
	return r.values
}

// FanOut reports whether the reply came from a broadcast.
func (r Reply) FanOut() bool {
	return r.fanOut
}

// SendOption configures one Send.
type SendOption func(*sendConfig)

type sendConfig struct {
	recipient    int
	hasRecipient bool
	target       *envelope.Target
	fanoutLimit  int
}

// To directs the send to one recipient by id. The envelope carries no
// target. It replaces any earlier WithTarget.
func To(recipient int) SendOption {
	return func(c *sendConfig) {
		c.recipient = recipient
		c.hasRecipient = true
		c.target = nil
	}
}

// WithTarget directs the send using t and carries t on the wire.
// It replaces any earlier To.
func WithTarget(t envelope.Target) SendOption {
	return func(c *sendConfig) {
		c.target = &t
		c.hasRecipient = false
	}
}

// WithFanoutLimit bounds concurrent directed sends for this broadcast.
// Zero means unbounded.
func WithFanoutLimit(n int) SendOption {
	return func(c *sendConfig) {
		c.fanoutLimit = max(n, 0)
	}
}

// send builds the envelope for action and delivers it. Broadcast-capable
// contexts fan out when no direction is given; the others use the single
// undirected primitive.
func (r *registration) send(ctx context.Context, action string, payload any, broadcast bool, opts []SendOption) (Reply, error) {
	if r.Disposed() {
		return Reply{}, errors.Wrapf(errors.ErrDisposed, "send %s.%s", r.category, action)
	}

	cfg := sendConfig{fanoutLimit: r.mux.fanoutLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	env := envelope.New(r.category, action, payload)
	if cfg.target != nil {
		env = env.WithTarget(*cfg.target)
	}
	ch := r.mux.Channel()
	logger := r.logger.WithAction(action)

	if !broadcast {
		if cfg.hasRecipient {
			return Reply{}, errors.Wrapf(errors.ErrDirectionUnsupported, "send %s to recipient %d", env.Key(), cfg.recipient)
		}
		logger.Debug("sending undirected", "target", cfg.target != nil)
		value, err := ch.SendUndirected(ctx, env)
		if err != nil {
			return Reply{}, err
		}
		return Reply{value: value}, nil
	}

	switch {
	case cfg.target != nil:
		return sendDirected(ctx, ch, cfg.target.TabID, env)
	case cfg.hasRecipient:
		return sendDirected(ctx, ch, cfg.recipient, env)
	}

	logger.Debug("broadcasting", "fanout_limit", cfg.fanoutLimit)
	values, err := host.Broadcast(ctx, ch, env, cfg.fanoutLimit)
	if err != nil {
		return Reply{}, err
	}
	return Reply{values: values, fanOut: true}, nil
}

func sendDirected(ctx context.Context, ch host.Channel, recipient int, env envelope.Envelope) (Reply, error) {
	value, err := ch.SendDirected(ctx, recipient, env)
	if err != nil {
		return Reply{}, err
	}
	return Reply{value: value}, nil
}
