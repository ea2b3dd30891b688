// Package errors provides centralized error definitions and error handling utilities
// for pulse. It defines the dispatch-layer sentinels, the two domain error types
// surfaced across the host channel, and classification helpers.
//
// # Error Types
//
//   - DispatchError: a handler failure carried back through the host channel
//   - DeliveryError: a host channel failure observed by a sender
//
// # Usage
//
//	err := errors.NewDispatchError("handler failed", cause).
//	    WithCategory("inspector").WithAction("ping")
//
//	if errors.Is(err, errors.ErrNoResponse) { ... }
//
//	var dispatchErr *errors.DispatchError
//	if errors.As(err, &dispatchErr) { ... }
//
// No-match (category or action mismatch) is never an error in this layer.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Context-related sentinel errors
var (
	// ErrSendUnimplemented indicates a send on a context with no host binding.
	ErrSendUnimplemented = New("send must be implemented by a bound context")
	// ErrDisposed indicates the context has been disposed.
	ErrDisposed = New("context disposed")
	// ErrDirectionUnsupported indicates the context cannot honor the requested direction.
	ErrDirectionUnsupported = New("direction not supported by this context")
	// ErrMuxClosed indicates the context mux no longer accepts registrations.
	ErrMuxClosed = New("mux closed")
)

// Wire-related sentinel errors
var (
	// ErrMalformedEnvelope indicates a wire document is not a valid envelope.
	ErrMalformedEnvelope = New("malformed envelope")
)

// Host-related sentinel errors
var (
	// ErrNoResponse indicates the reply path closed before any reply was sent.
	ErrNoResponse = New("reply path closed before a response was received")
	// ErrNoReceiver indicates the recipient has no listener attached.
	ErrNoReceiver = New("receiving end does not exist")
	// ErrUnknownRecipient indicates no recipient is registered under the given id.
	ErrUnknownRecipient = New("unknown recipient")
	// ErrHubClosed indicates the host channel has shut down.
	ErrHubClosed = New("host channel closed")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PulseError is the base interface for the domain error types.
type PulseError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity
}

type baseError struct {
	message  string
	cause    error
	severity Severity
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

func format(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// DispatchError represents a handler failure for one envelope.
//
// Example:
//
//	err := errors.NewDispatchError("deferred reply rejected", cause).
//	    WithCategory("inspector").WithAction("ping")
//	fmt.Println(err) // "dispatch error [category=inspector, action=ping]: deferred reply rejected: ..."
type DispatchError struct {
	baseError
	Category string
	Action   string
}

// NewDispatchError creates a new DispatchError.
func NewDispatchError(message string, cause error) *DispatchError {
	return &DispatchError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityError,
		},
	}
}

// WithCategory adds the envelope category to the error context.
func (e *DispatchError) WithCategory(category string) *DispatchError {
	e.Category = category
	return e
}

// WithAction adds the envelope action to the error context.
func (e *DispatchError) WithAction(action string) *DispatchError {
	e.Action = action
	return e
}

// WithSeverity sets the error severity.
func (e *DispatchError) WithSeverity(s Severity) *DispatchError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *DispatchError) Error() string {
	var parts []string
	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("category=%s", e.Category))
	}
	if e.Action != "" {
		parts = append(parts, fmt.Sprintf("action=%s", e.Action))
	}
	return format("dispatch error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *DispatchError) Is(target error) bool {
	if _, ok := target.(*DispatchError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// DeliveryError represents a host channel failure observed by a sender.
//
// Example:
//
//	err := errors.NewDeliveryError("send failed", errors.ErrNoReceiver).WithRecipient(42)
type DeliveryError struct {
	baseError
	Recipient int
	Endpoint  string
}

// NewDeliveryError creates a new DeliveryError.
func NewDeliveryError(message string, cause error) *DeliveryError {
	return &DeliveryError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityWarning,
		},
	}
}

// WithRecipient adds the recipient id to the error context.
func (e *DeliveryError) WithRecipient(id int) *DeliveryError {
	e.Recipient = id
	return e
}

// WithEndpoint adds the receiving endpoint name to the error context.
func (e *DeliveryError) WithEndpoint(name string) *DeliveryError {
	e.Endpoint = name
	return e
}

// WithSeverity sets the error severity.
func (e *DeliveryError) WithSeverity(s Severity) *DeliveryError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *DeliveryError) Error() string {
	var parts []string
	if e.Recipient != 0 {
		parts = append(parts, fmt.Sprintf("recipient=%d", e.Recipient))
	}
	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	return format("delivery error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *DeliveryError) Is(target error) bool {
	if _, ok := target.(*DeliveryError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PulseError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var pulseErr PulseError
	if As(err, &pulseErr) {
		return pulseErr.Severity()
	}

	return SeverityError
}

// IsHandlerFailure reports whether err originated in a registered handler.
func IsHandlerFailure(err error) bool {
	var dispatchErr *DispatchError
	return As(err, &dispatchErr)
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
