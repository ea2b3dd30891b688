// Package host defines the collaborator interface pulse contexts are layered
// on: the asynchronous channel that connects isolated execution contexts.
//
// A Channel offers two listener kinds, three send primitives and recipient
// enumeration. Concrete channels are supplied by the surrounding platform;
// package memory provides an in-process implementation.
package host

import (
	"context"

	"github.com/Iron-Ham/pulse/internal/envelope"
)

// Kind selects which inbound stream a listener is attached to.
type Kind int

const (
	// Internal listeners receive messages from peers of the same application.
	Internal Kind = iota
	// External listeners receive messages from externally-origin callers.
	External
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// SenderInfo describes where an inbound message came from.
type SenderInfo struct {
	// ID is the sending endpoint's identifier.
	ID string
	// Name is the sending endpoint's human-readable name.
	Name string
	// TabID is the sender's recipient id, or 0 when it is not a recipient.
	TabID int
	// Origin is set for external callers.
	Origin string
	// External reports whether the sender is outside the application.
	External bool
}

// Responder is the raw reply path of one inbound message.
// The first Reply or Fail wins; later calls are ignored.
type Responder interface {
	// Reply sends value back to the sender.
	Reply(value any)
	// Fail hands a failure to the channel's own error handling.
	Fail(err error)
}

// Listener handles one inbound message.
//
// Returning keepOpen=true tells the channel that the reply path must stay
// open because resp will be used later. Returning an error hands a
// synchronous failure to the channel.
type Listener func(ctx context.Context, env envelope.Envelope, sender SenderInfo, resp Responder) (keepOpen bool, err error)

// Channel is the host messaging primitive set.
type Channel interface {
	// Listen attaches l to the given inbound stream. stop detaches it.
	Listen(kind Kind, l Listener) (stop func())

	// SendDirected delivers env to one recipient and waits for its reply.
	SendDirected(ctx context.Context, recipient int, env envelope.Envelope) (any, error)

	// Recipients enumerates the currently eligible broadcast recipients.
	Recipients(ctx context.Context) ([]int, error)

	// SendUndirected delivers env to the channel's single logical peer set
	// and waits for the first reply.
	SendUndirected(ctx context.Context, env envelope.Envelope) (any, error)
}
