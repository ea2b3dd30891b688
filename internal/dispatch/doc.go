// Package dispatch implements category routing and reply resolution for
// pulse envelopes.
//
// # Routing
//
// A receiving context owns a fixed category and a [Registry] of handlers
// keyed by action. [Route] returns the handler for an envelope only when its
// category matches; a mismatch never touches the registry. Neither a category
// mismatch nor an unknown action is an error.
//
// # Reply Resolution
//
// Rich handlers return an [Outcome], an explicit tagged union:
//
//   - NotHandled: nothing ran, the listener reports not handled
//   - Immediate: reply with the value now (any value, nil included)
//   - NoValue: handled, no reply is ever sent
//   - KeepOpen: keep the reply path open; other code replies later
//   - Deferred: keep the reply path open, reply once the [Future] settles
//   - Failed: synchronous failure handed to the host channel
//
// [Resolve] maps an outcome onto a [host.Responder] and the keep-open signal
// the host channel expects. [ResolveSimple] implements the simpler
// value-or-error model used by Peer and External contexts.
//
// # Thread Safety
//
// [Registry] is safe for concurrent use. Lookups observe either the previous
// or the replacement map in full. [Future] settles exactly once and may be
// awaited from any number of goroutines.
package dispatch
