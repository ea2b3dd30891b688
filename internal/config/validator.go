package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "host.inbox_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Limits for numeric settings.
const (
	maxFanoutLimit = 1024
	maxInboxSize   = 1 << 16
	maxTabs        = 256
	maxLogSizeMB   = 1024
	maxLogBackups  = 100
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateDispatch()...)
	errors = append(errors, c.validateHost()...)

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 0 and %d (0 = no rotation)", maxLogSizeMB),
		})
	}
	if c.Logging.MaxBackups < 0 || c.Logging.MaxBackups > maxLogBackups {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: fmt.Sprintf("must be between 0 and %d", maxLogBackups),
		})
	}

	return errors
}

// validateDispatch validates the DispatchConfig
func (c *Config) validateDispatch() []ValidationError {
	var errors []ValidationError

	if c.Dispatch.FanoutLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "dispatch.fanout_limit",
			Value:   c.Dispatch.FanoutLimit,
			Message: "must be non-negative (0 = unbounded)",
		})
	}
	if c.Dispatch.FanoutLimit > maxFanoutLimit {
		errors = append(errors, ValidationError{
			Field:   "dispatch.fanout_limit",
			Value:   c.Dispatch.FanoutLimit,
			Message: fmt.Sprintf("exceeds maximum of %d", maxFanoutLimit),
		})
	}

	if strings.TrimSpace(c.Dispatch.DefaultCategory) == "" {
		errors = append(errors, ValidationError{
			Field:   "dispatch.default_category",
			Value:   c.Dispatch.DefaultCategory,
			Message: "must not be empty",
		})
	}

	return errors
}

// validateHost validates the HostConfig
func (c *Config) validateHost() []ValidationError {
	var errors []ValidationError

	if c.Host.InboxSize <= 0 || c.Host.InboxSize > maxInboxSize {
		errors = append(errors, ValidationError{
			Field:   "host.inbox_size",
			Value:   c.Host.InboxSize,
			Message: fmt.Sprintf("must be between 1 and %d", maxInboxSize),
		})
	}

	if c.Host.Tabs < 0 || c.Host.Tabs > maxTabs {
		errors = append(errors, ValidationError{
			Field:   "host.tabs",
			Value:   c.Host.Tabs,
			Message: fmt.Sprintf("must be between 0 and %d", maxTabs),
		})
	}

	return errors
}
