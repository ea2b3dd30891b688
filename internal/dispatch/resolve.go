package dispatch

import (
	"context"

	"github.com/Iron-Ham/pulse/internal/host"
)

// ResolveOption configures Resolve.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	onRejected func(error)
}

// OnRejected registers fn to observe a rejected Deferred future before the
// failure is handed to the responder.
func OnRejected(fn func(error)) ResolveOption {
	return func(c *resolveConfig) {
		c.onRejected = fn
	}
}

// Resolve applies o to resp and returns what the host listener should
// report.
//
//	NotHandled, NoValue  -> (false, nil), no reply
//	Immediate(v)         -> reply v, (false, nil)
//	KeepOpen             -> (true, nil), no reply
//	Deferred(f)          -> (true, nil), reply once f settles with a non-nil value
//	Failed(err)          -> (false, err)
//
// A rejected future is passed to resp.Fail.
func Resolve(o Outcome, resp host.Responder, opts ...ResolveOption) (keepOpen bool, err error) {
	switch o.kind {
	case KindImmediate:
		resp.Reply(o.value)
		return false, nil
	case KindKeepOpen:
		return true, nil
	case KindDeferred:
		cfg := resolveConfig{}
		for _, opt := range opts {
			opt(&cfg)
		}
		go await(o.future, resp, cfg)
		return true, nil
	case KindFailed:
		return false, o.err
	default:
		return false, nil
	}
}

func await(f *Future, resp host.Responder, cfg resolveConfig) {
	value, err := f.Await(context.Background())
	if err != nil {
		if cfg.onRejected != nil {
			cfg.onRejected(err)
		}
		resp.Fail(err)
		return
	}
	if value != nil {
		resp.Reply(value)
	}
}

// ResolveSimple applies a simple handler's result to resp. A non-nil err is
// returned to the host, a nil value sends nothing, and anything else is
// replied.
func ResolveSimple(value any, err error, resp host.Responder) error {
	if err != nil {
		return err
	}
	if value != nil {
		resp.Reply(value)
	}
	return nil
}
