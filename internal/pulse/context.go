package pulse

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Iron-Ham/pulse/internal/dispatch"
	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/errors"
	"github.com/Iron-Ham/pulse/internal/event"
	"github.com/Iron-Ham/pulse/internal/host"
	"github.com/Iron-Ham/pulse/internal/logging"
)

// Context is one side of the conversation: a fixed category and the actions
// it answers.
type Context interface {
	Category() string
	Actions() []string
}

// Sender is the outbound capability of a context bound to a host channel.
type Sender interface {
	Send(ctx context.Context, action string, payload any, opts ...SendOption) (Reply, error)
}

// Send sends through c if it has the Sender capability. Contexts without it
// fail with ErrSendUnimplemented every time.
func Send(ctx context.Context, c Context, action string, payload any, opts ...SendOption) (Reply, error) {
	s, ok := c.(Sender)
	if !ok {
		return Reply{}, errors.Wrapf(errors.ErrSendUnimplemented, "send %s.%s", c.Category(), action)
	}
	return s.Send(ctx, action, payload, opts...)
}

// variant names reported in events and logs.
const (
	variantPeer     = "peer"
	variantExternal = "external"
	variantGlobal   = "global"
	variantPanel    = "panel"
)

// registration is the mux binding shared by every listening context.
type registration struct {
	id       string
	category string
	kind     host.Kind
	variant  string
	mux      *Mux
	logger   *logging.Logger
	entry    *entry
	disposed atomic.Bool
}

func newRegistration(m *Mux, category string, kind host.Kind, variant string) *registration {
	id := uuid.NewString()
	return &registration{
		id:       id,
		category: category,
		kind:     kind,
		variant:  variant,
		mux:      m,
		logger:   m.logger.WithCategory(category).With("context_id", id, "variant", variant),
	}
}

// register attaches handle to the mux under the context's category.
func (r *registration) register(handle host.Listener) error {
	r.entry = &entry{reg: r, handle: handle}

	prev, err := r.mux.attach(r.kind, r.category, r.entry)
	if err != nil {
		return err
	}

	r.mux.publish(event.NewContextRegisteredEvent(r.id, r.category, r.kind.String(), r.variant))
	r.logger.Debug("context registered", "kind", r.kind.String())

	if prev != nil {
		r.mux.publish(event.NewContextDisplacedEvent(prev.reg.id, r.id, r.category, r.kind.String()))
		prev.reg.logger.Warn("context displaced", "displaced_by", r.id)
	}
	return nil
}

// ID returns the context's unique identifier.
func (r *registration) ID() string {
	return r.id
}

// Disposed reports whether Dispose has been called.
func (r *registration) Disposed() bool {
	return r.disposed.Load()
}

// Dispose stops the context from receiving. If a newer context with the
// same category displaced this one, the newer context is unaffected.
// Subsequent sends fail with ErrDisposed. It is safe to call multiple times.
func (r *registration) Dispose() {
	if !r.disposed.CompareAndSwap(false, true) {
		return
	}
	r.mux.detach(r.kind, r.category, r.entry)
	r.mux.publish(event.NewContextDisposedEvent(r.id, r.category, r.kind.String()))
	r.logger.Debug("context disposed")
}

func (r *registration) dispatched(env envelope.Envelope, outcome dispatch.Kind, sender host.SenderInfo) {
	r.logger.Debug("envelope dispatched", "action", env.Action, "outcome", outcome.String(), "sender", sender.Name)
	r.mux.publish(event.NewEnvelopeDispatchedEvent(r.id, env.Category, env.Action, outcome.String(), sender.Name))
}

func (r *registration) replyFailed(env envelope.Envelope, err error) {
	r.logger.Error("deferred reply failed", "action", env.Action, "error", err)
	r.mux.publish(event.NewReplyFailedEvent(r.id, env.Category, env.Action, err))
}

// handlerError tags a handler failure with the envelope it was handling.
func handlerError(env envelope.Envelope, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsHandlerFailure(err) {
		return err
	}
	return errors.NewDispatchError("handler failed", err).WithCategory(env.Category).WithAction(env.Action)
}

// tagged wraps Responder.Fail errors with handlerError.
type tagged struct {
	host.Responder
	env envelope.Envelope
}

func (t tagged) Fail(err error) {
	t.Responder.Fail(handlerError(t.env, err))
}
