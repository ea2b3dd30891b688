package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"negative log size", func(c *Config) { c.Logging.MaxSizeMB = -1 }, "logging.max_size_mb"},
		{"excessive log size", func(c *Config) { c.Logging.MaxSizeMB = maxLogSizeMB + 1 }, "logging.max_size_mb"},
		{"negative log backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
		{"excessive log backups", func(c *Config) { c.Logging.MaxBackups = maxLogBackups + 1 }, "logging.max_backups"},
		{"negative fanout limit", func(c *Config) { c.Dispatch.FanoutLimit = -1 }, "dispatch.fanout_limit"},
		{"excessive fanout limit", func(c *Config) { c.Dispatch.FanoutLimit = maxFanoutLimit + 1 }, "dispatch.fanout_limit"},
		{"empty default category", func(c *Config) { c.Dispatch.DefaultCategory = "  " }, "dispatch.default_category"},
		{"zero inbox size", func(c *Config) { c.Host.InboxSize = 0 }, "host.inbox_size"},
		{"excessive inbox size", func(c *Config) { c.Host.InboxSize = maxInboxSize + 1 }, "host.inbox_size"},
		{"negative tabs", func(c *Config) { c.Host.Tabs = -1 }, "host.tabs"},
		{"excessive tabs", func(c *Config) { c.Host.Tabs = maxTabs + 1 }, "host.tabs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_AcceptsValidValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"uppercase log level", func(c *Config) { c.Logging.Level = "DEBUG" }},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }},
		{"bounded fanout", func(c *Config) { c.Dispatch.FanoutLimit = 8 }},
		{"no tabs", func(c *Config) { c.Host.Tabs = 0 }},
		{"log dir", func(c *Config) { c.Logging.Dir = t.TempDir() }},
		{"rotation disabled", func(c *Config) { c.Logging.MaxSizeMB = 0; c.Logging.MaxBackups = 0 }},
		{"compressed backups", func(c *Config) { c.Logging.Compress = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if errs := cfg.Validate(); len(errs) != 0 {
				t.Errorf("Validate() = %v, want no errors", errs)
			}
		})
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	expected := []string{"debug", "info", "warn", "error"}

	if len(levels) != len(expected) {
		t.Fatalf("ValidLogLevels() length = %d, want %d", len(levels), len(expected))
	}
	for i, level := range expected {
		if levels[i] != level {
			t.Errorf("ValidLogLevels()[%d] = %q, want %q", i, levels[i], level)
		}
	}
}
