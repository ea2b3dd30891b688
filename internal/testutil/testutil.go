// Package testutil provides fixtures shared by tests that wire several pulse
// packages together.
package testutil

import (
	"context"
	"os/exec"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/pulse/internal/event"
	"github.com/Iron-Ham/pulse/internal/host/memory"
)

// Context returns a context that is cancelled after d or when the test ends.
func Context(t *testing.T, d time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

// NewHub returns an in-memory hub closed when the test ends.
func NewHub(t *testing.T, opts ...memory.Option) *memory.Hub {
	t.Helper()

	hub := memory.NewHub(opts...)
	t.Cleanup(hub.Close)
	return hub
}

// Endpoint attaches a named endpoint to hub, failing the test on error.
func Endpoint(t *testing.T, hub *memory.Hub, name string, opts ...memory.EndpointOption) *memory.Endpoint {
	t.Helper()

	ep, err := hub.Endpoint(name, opts...)
	if err != nil {
		t.Fatalf("Endpoint(%s) error = %v", name, err)
	}
	return ep
}

// EventRecorder collects every event published on the buses it is attached to.
type EventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

// RecordEvents subscribes a new recorder to every event on bus.
func RecordEvents(bus *event.Bus) *EventRecorder {
	r := &EventRecorder{}
	bus.SubscribeAll(r.record)
	return r
}

func (r *EventRecorder) record(e event.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Count returns how many events of eventType were recorded.
func (r *EventRecorder) Count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// Events returns a copy of the recorded events in publish order.
func (r *EventRecorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// SkipIfNoGolangciLint skips the test if golangci-lint is not installed.
func SkipIfNoGolangciLint(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}
}
