package envelope

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/types"
	"github.com/google/uuid"

	"github.com/Iron-Ham/pulse/internal/errors"
)

// CloudEvents extension attribute names carrying the exact envelope routing
// keys. The event type alone is ambiguous when a category contains dots.
const (
	ExtCategory = "pulsecategory"
	ExtAction   = "pulseaction"
	ExtTabID    = "pulsetabid"
)

// ToCloudEvent converts e into a structured CloudEvent with the given source.
// The payload becomes JSON data; the target, when present, is carried in the
// pulsetabid extension.
func ToCloudEvent(e Envelope, source string) (*cloudevents.Event, error) {
	ce := cloudevents.NewEvent()
	ce.SetID(uuid.NewString())
	ce.SetSource(source)
	ce.SetType(e.Key())
	ce.SetTime(time.Now().UTC())
	ce.SetExtension(ExtCategory, e.Category)
	ce.SetExtension(ExtAction, e.Action)
	if e.Target != nil {
		// CloudEvents integers are 32-bit
		if e.Target.TabID < math.MinInt32 || e.Target.TabID > math.MaxInt32 {
			return nil, fmt.Errorf("%w: tab id %d out of range for %s", errors.ErrInvalidInput, e.Target.TabID, ExtTabID)
		}
		ce.SetExtension(ExtTabID, int32(e.Target.TabID))
	}

	if err := ce.SetData(cloudevents.ApplicationJSON, e.Payload); err != nil {
		return nil, fmt.Errorf("set data: %w", err)
	}
	if err := ce.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cloudevent for %s: %w", e.Key(), err)
	}
	return &ce, nil
}

// FromCloudEvent rebuilds an envelope from a CloudEvent produced by
// ToCloudEvent. Events without the routing extensions fall back to splitting
// the event type at its last dot.
func FromCloudEvent(ce *cloudevents.Event) (Envelope, error) {
	if ce == nil {
		return Envelope{}, fmt.Errorf("%w: nil event", errors.ErrMalformedEnvelope)
	}

	exts := ce.Extensions()
	category, hasCategory := exts[ExtCategory].(string)
	action, hasAction := exts[ExtAction].(string)
	if !hasCategory || !hasAction {
		i := strings.LastIndex(ce.Type(), ".")
		if i < 0 {
			return Envelope{}, fmt.Errorf("%w: event type %q has no action", errors.ErrMalformedEnvelope, ce.Type())
		}
		category, action = ce.Type()[:i], ce.Type()[i+1:]
	}

	env := New(category, action, nil)

	if raw, ok := exts[ExtTabID]; ok {
		id, err := types.ToInteger(raw)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: %s: %v", errors.ErrMalformedEnvelope, ExtTabID, err)
		}
		env = env.WithTarget(Target{TabID: int(id)})
	}

	if data := ce.Data(); len(data) > 0 {
		if err := json.Unmarshal(data, &env.Payload); err != nil {
			return Envelope{}, fmt.Errorf("%w: payload: %v", errors.ErrMalformedEnvelope, err)
		}
	}
	return env, nil
}
