package envelope

import (
	"reflect"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/Iron-Ham/pulse/internal/errors"
)

func TestToCloudEvent(t *testing.T) {
	env := New("dev.tools", "ping", map[string]any{"n": 1}).WithTarget(Target{TabID: 42})

	ce, err := ToCloudEvent(env, "/background")
	if err != nil {
		t.Fatalf("ToCloudEvent failed: %v", err)
	}

	if ce.Type() != "dev.tools.ping" {
		t.Errorf("Type() = %q, want %q", ce.Type(), "dev.tools.ping")
	}
	if ce.Source() != "/background" {
		t.Errorf("Source() = %q, want %q", ce.Source(), "/background")
	}
	if ce.ID() == "" {
		t.Error("ID() should be populated")
	}
	if ce.DataContentType() != cloudevents.ApplicationJSON {
		t.Errorf("DataContentType() = %q", ce.DataContentType())
	}
	if string(ce.Data()) != `{"n":1}` {
		t.Errorf("Data() = %s", ce.Data())
	}
}

func TestCloudEvent_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
	}{
		{"dotted category", New("dev.tools", "ping", map[string]any{"n": float64(1)})},
		{"target", New("panel", "open", "settings").WithTarget(Target{TabID: 9})},
		{"nil payload", New("inspector", "reset", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce, err := ToCloudEvent(tt.env, "test")
			if err != nil {
				t.Fatalf("ToCloudEvent failed: %v", err)
			}
			got, err := FromCloudEvent(ce)
			if err != nil {
				t.Fatalf("FromCloudEvent failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.env) {
				t.Errorf("round trip = %#v, want %#v", got, tt.env)
			}
		})
	}
}

func TestFromCloudEvent_TypeFallback(t *testing.T) {
	ce := cloudevents.NewEvent()
	ce.SetID("1")
	ce.SetSource("external")
	ce.SetType("inspector.ping")

	got, err := FromCloudEvent(&ce)
	if err != nil {
		t.Fatalf("FromCloudEvent failed: %v", err)
	}
	if got.Category != "inspector" || got.Action != "ping" {
		t.Errorf("FromCloudEvent() = %#v", got)
	}
}

func TestFromCloudEvent_Malformed(t *testing.T) {
	if _, err := FromCloudEvent(nil); !errors.Is(err, errors.ErrMalformedEnvelope) {
		t.Errorf("nil event error = %v", err)
	}

	ce := cloudevents.NewEvent()
	ce.SetID("1")
	ce.SetSource("external")
	ce.SetType("nodots")
	if _, err := FromCloudEvent(&ce); !errors.Is(err, errors.ErrMalformedEnvelope) {
		t.Errorf("undotted type error = %v", err)
	}
}

func TestToCloudEvent_TabIDOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		tabID int
	}{
		{"above int32", 3_000_000_000},
		{"below int32", -3_000_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New("inspector", "ping", nil).WithTarget(Target{TabID: tt.tabID})
			if _, err := ToCloudEvent(e, "background"); !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("ToCloudEvent(tab %d) error = %v, want ErrInvalidInput", tt.tabID, err)
			}
		})
	}

	e := New("inspector", "ping", nil).WithTarget(Target{TabID: 2147483647})
	ce, err := ToCloudEvent(e, "background")
	if err != nil {
		t.Fatalf("ToCloudEvent(max int32) error = %v", err)
	}
	back, err := FromCloudEvent(ce)
	if err != nil {
		t.Fatalf("FromCloudEvent() error = %v", err)
	}
	if back.Target == nil || back.Target.TabID != 2147483647 {
		t.Errorf("round-tripped target = %+v, want max int32", back.Target)
	}
}
