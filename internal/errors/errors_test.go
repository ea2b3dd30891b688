package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// DispatchError Tests
// -----------------------------------------------------------------------------

func TestDispatchError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *DispatchError
		want string
	}{
		{
			name: "no context",
			err:  NewDispatchError("handler failed", nil),
			want: "dispatch error: handler failed",
		},
		{
			name: "category and action",
			err:  NewDispatchError("handler failed", nil).WithCategory("inspector").WithAction("ping"),
			want: "dispatch error [category=inspector, action=ping]: handler failed",
		},
		{
			name: "with cause",
			err:  NewDispatchError("deferred reply rejected", New("boom")).WithAction("ping"),
			want: "dispatch error [action=ping]: deferred reply rejected: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatchError_Is(t *testing.T) {
	cause := New("boom")
	err := fmt.Errorf("outer: %w", NewDispatchError("failed", cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !errors.Is(err, &DispatchError{}) {
		t.Error("errors.Is should match any *DispatchError")
	}
	if errors.Is(err, &DeliveryError{}) {
		t.Error("errors.Is should not match *DeliveryError")
	}
	if !IsHandlerFailure(err) {
		t.Error("IsHandlerFailure() = false, want true")
	}
}

// -----------------------------------------------------------------------------
// DeliveryError Tests
// -----------------------------------------------------------------------------

func TestDeliveryError(t *testing.T) {
	err := NewDeliveryError("send failed", ErrNoReceiver).WithRecipient(42).WithEndpoint("tab-42")

	want := "delivery error [recipient=42, endpoint=tab-42]: send failed: receiving end does not exist"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNoReceiver) {
		t.Error("errors.Is should find ErrNoReceiver")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
	if IsHandlerFailure(err) {
		t.Error("IsHandlerFailure() = true for a delivery error")
	}
}

// -----------------------------------------------------------------------------
// Helper Tests
// -----------------------------------------------------------------------------

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"plain", New("plain"), SeverityError},
		{"delivery", NewDeliveryError("x", nil), SeverityWarning},
		{"dispatch critical", NewDispatchError("x", nil).WithSeverity(SeverityCritical), SeverityCritical},
		{"wrapped", Wrap(NewDeliveryError("x", nil), "ctx"), SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrDisposed, "send %s", "ping")
	if err.Error() != "send ping: context disposed" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !Is(err, ErrDisposed) {
		t.Error("Wrapf should preserve the chain")
	}
}
