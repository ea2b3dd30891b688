// Package event provides a pub-sub event bus for observing pulse contexts
// without coupling to them.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Context Lifecycle:
//   - [ContextRegisteredEvent]: a context attached to a mux
//   - [ContextDisplacedEvent]: a newer context of the same category took over
//   - [ContextDisposedEvent]: a context was disposed
//
// Dispatch:
//   - [EnvelopeDispatchedEvent]: a handler ran for an envelope
//   - [ReplyFailedEvent]: a deferred reply was rejected
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine and protected against panics.
// Dispatch events are published from host delivery goroutines, so handlers
// must not block.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	bus.Subscribe(event.TypeReplyFailed, func(e event.Event) {
//	    failed := e.(event.ReplyFailedEvent)
//	    log.Printf("reply for %s.%s failed: %v", failed.Category, failed.Action, failed.Err)
//	})
//
//	id := bus.SubscribeAll(handler)
//	bus.Unsubscribe(id)
//
//	// glob patterns, '.' separated
//	pid, err := bus.SubscribeMatch("context.*", handler)
package event
