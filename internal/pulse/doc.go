// Package pulse provides categorized message contexts layered on a host
// channel.
//
// A context owns a fixed category and a registry of action handlers. Many
// contexts share one host channel through a [Mux], which attaches a single
// listener per host kind and routes each inbound envelope to the context
// registered for its category.
//
// # Context Variants
//
//   - [Base]: unbound; processes envelopes handed to it, cannot send
//   - [Peer]: internal stream, simple handlers, directed or broadcast sends
//   - [External]: external stream, simple handlers, directed or broadcast sends
//   - [Global]: internal stream, rich handlers, directed or broadcast sends
//   - [Panel]: internal stream, rich handlers, undirected sends
//
// Simple handlers return a value or an error; a nil value sends no reply.
// Rich handlers receive a [Request] and return a [dispatch.Outcome].
//
// # Registration
//
// Registering a context whose category and kind match an existing one
// displaces the older context: it stops receiving, and disposing it later
// leaves the newer registration in place.
//
// # Sending
//
//	reply, err := global.Send(ctx, "ping", payload)               // every tab
//	reply, err := global.Send(ctx, "ping", payload, pulse.To(42)) // tab 42
//	reply, err := panel.Send(ctx, "open", payload,
//	    pulse.WithTarget(envelope.Target{TabID: 42}))             // peer, target on the wire
//
// Use [Send] to send through a [Context] whose capabilities are not known
// statically.
package pulse
