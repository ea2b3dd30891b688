package dispatch

// Kind identifies which case of an Outcome is set.
type Kind int

// Outcome kinds.
const (
	KindNotHandled Kind = iota
	KindImmediate
	KindNoValue
	KindKeepOpen
	KindDeferred
	KindFailed
)

// String returns the kind name used in logs and events.
func (k Kind) String() string {
	switch k {
	case KindNotHandled:
		return "not_handled"
	case KindImmediate:
		return "immediate"
	case KindNoValue:
		return "no_value"
	case KindKeepOpen:
		return "keep_open"
	case KindDeferred:
		return "deferred"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of running a rich handler.
// The zero value is NotHandled.
type Outcome struct {
	kind   Kind
	value  any
	future *Future
	err    error
}

// NotHandled reports that no handler ran.
func NotHandled() Outcome {
	return Outcome{}
}

// Immediate replies with value now. A nil value is sent as an explicit nil
// reply, unlike NoValue, and unlike a Deferred future that settles with nil,
// neither of which replies at all.
func Immediate(value any) Outcome {
	return Outcome{kind: KindImmediate, value: value}
}

// NoValue reports a handled message that never gets a reply.
func NoValue() Outcome {
	return Outcome{kind: KindNoValue}
}

// KeepOpen keeps the reply path open for a reply sent through the raw
// responder later.
func KeepOpen() Outcome {
	return Outcome{kind: KindKeepOpen}
}

// Deferred replies once f settles with a non-nil value. A future that
// settles with nil sends no reply. A nil future behaves like NoValue.
func Deferred(f *Future) Outcome {
	if f == nil {
		return NoValue()
	}
	return Outcome{kind: KindDeferred, future: f}
}

// Failed hands err to the host channel. Failed(nil) behaves like NoValue.
func Failed(err error) Outcome {
	if err == nil {
		return NoValue()
	}
	return Outcome{kind: KindFailed, err: err}
}

// Kind returns which case is set.
func (o Outcome) Kind() Kind { return o.kind }

// Value returns the Immediate value.
func (o Outcome) Value() any { return o.value }

// Future returns the Deferred future.
func (o Outcome) Future() *Future { return o.future }

// Err returns the Failed error.
func (o Outcome) Err() error { return o.err }

// Handled reports whether a handler ran.
func (o Outcome) Handled() bool { return o.kind != KindNotHandled }
