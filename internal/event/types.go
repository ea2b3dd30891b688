package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "subject.action" (e.g., "context.registered").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event types published by pulse.
const (
	TypeContextRegistered  = "context.registered"
	TypeContextDisplaced   = "context.displaced"
	TypeContextDisposed    = "context.disposed"
	TypeEnvelopeDispatched = "envelope.dispatched"
	TypeReplyFailed        = "reply.failed"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Context Lifecycle Events
// -----------------------------------------------------------------------------

// ContextRegisteredEvent is emitted when a context attaches to a mux.
type ContextRegisteredEvent struct {
	baseEvent
	ContextID string
	Category  string
	Kind      string // host listener kind
	Variant   string // peer, external, global, panel
}

// NewContextRegisteredEvent creates a ContextRegisteredEvent.
func NewContextRegisteredEvent(contextID, category, kind, variant string) ContextRegisteredEvent {
	return ContextRegisteredEvent{
		baseEvent: newBaseEvent(TypeContextRegistered),
		ContextID: contextID,
		Category:  category,
		Kind:      kind,
		Variant:   variant,
	}
}

// ContextDisplacedEvent is emitted when a newer context with the same
// category and kind replaces an older one.
type ContextDisplacedEvent struct {
	baseEvent
	ContextID   string // the context that stopped receiving
	DisplacedBy string
	Category    string
	Kind        string
}

// NewContextDisplacedEvent creates a ContextDisplacedEvent.
func NewContextDisplacedEvent(contextID, displacedBy, category, kind string) ContextDisplacedEvent {
	return ContextDisplacedEvent{
		baseEvent:   newBaseEvent(TypeContextDisplaced),
		ContextID:   contextID,
		DisplacedBy: displacedBy,
		Category:    category,
		Kind:        kind,
	}
}

// ContextDisposedEvent is emitted when a context is disposed.
type ContextDisposedEvent struct {
	baseEvent
	ContextID string
	Category  string
	Kind      string
}

// NewContextDisposedEvent creates a ContextDisposedEvent.
func NewContextDisposedEvent(contextID, category, kind string) ContextDisposedEvent {
	return ContextDisposedEvent{
		baseEvent: newBaseEvent(TypeContextDisposed),
		ContextID: contextID,
		Category:  category,
		Kind:      kind,
	}
}

// -----------------------------------------------------------------------------
// Dispatch Events
// -----------------------------------------------------------------------------

// EnvelopeDispatchedEvent is emitted after a handler ran for an envelope.
// Envelopes that match no handler produce no event.
type EnvelopeDispatchedEvent struct {
	baseEvent
	ContextID string
	Category  string
	Action    string
	Outcome   string // outcome kind, e.g. "immediate" or "deferred"
	Sender    string // sending endpoint name
}

// NewEnvelopeDispatchedEvent creates an EnvelopeDispatchedEvent.
func NewEnvelopeDispatchedEvent(contextID, category, action, outcome, sender string) EnvelopeDispatchedEvent {
	return EnvelopeDispatchedEvent{
		baseEvent: newBaseEvent(TypeEnvelopeDispatched),
		ContextID: contextID,
		Category:  category,
		Action:    action,
		Outcome:   outcome,
		Sender:    sender,
	}
}

// ReplyFailedEvent is emitted when a deferred reply is rejected.
type ReplyFailedEvent struct {
	baseEvent
	ContextID string
	Category  string
	Action    string
	Err       error
}

// NewReplyFailedEvent creates a ReplyFailedEvent.
func NewReplyFailedEvent(contextID, category, action string, err error) ReplyFailedEvent {
	return ReplyFailedEvent{
		baseEvent: newBaseEvent(TypeReplyFailed),
		ContextID: contextID,
		Category:  category,
		Action:    action,
		Err:       err,
	}
}
