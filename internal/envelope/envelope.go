// Package envelope defines the wire-level message shared by every pulse
// context: a category, an action, an opaque payload and an optional
// recipient target.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Iron-Ham/pulse/internal/errors"
)

// Target identifies a single recipient for directed delivery.
type Target struct {
	TabID int `json:"tabId"`
}

// Envelope is a categorized message.
//
// Payload is opaque to the dispatch layer: it is threaded through unchanged.
// Target is omitted from the wire when nil.
type Envelope struct {
	Category string  `json:"category"`
	Action   string  `json:"action"`
	Payload  any     `json:"payload"`
	Target   *Target `json:"target,omitempty"`
}

// New builds an envelope with no target.
func New(category, action string, payload any) Envelope {
	return Envelope{
		Category: category,
		Action:   action,
		Payload:  payload,
	}
}

// WithTarget returns a copy of e addressed to t.
func (e Envelope) WithTarget(t Target) Envelope {
	e.Target = &t
	return e
}

// Key returns "category.action", the form used in events and log lines.
func (e Envelope) Key() string {
	return e.Category + "." + e.Action
}

// Encode returns the JSON wire form of e.
func Encode(e Envelope) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope %s: %w", e.Key(), err)
	}
	return data, nil
}

// Decode parses a JSON wire document. Documents that are not a single object,
// or that lack a string category or action, are rejected with
// ErrMalformedEnvelope. Trailing whitespace is allowed.
// A missing payload decodes as nil.
func Decode(data []byte) (Envelope, error) {
	var raw struct {
		Category *string `json:"category"`
		Action   *string `json:"action"`
		Payload  any     `json:"payload"`
		Target   *Target `json:"target"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", errors.ErrMalformedEnvelope, err)
	}
	var rest json.RawMessage
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return Envelope{}, fmt.Errorf("%w: trailing data after envelope", errors.ErrMalformedEnvelope)
	}
	if raw.Category == nil {
		return Envelope{}, fmt.Errorf("%w: missing category", errors.ErrMalformedEnvelope)
	}
	if raw.Action == nil {
		return Envelope{}, fmt.Errorf("%w: missing action", errors.ErrMalformedEnvelope)
	}

	return Envelope{
		Category: *raw.Category,
		Action:   *raw.Action,
		Payload:  raw.Payload,
		Target:   raw.Target,
	}, nil
}
