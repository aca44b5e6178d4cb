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
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", ValidationErrors(errs))
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "empty base url",
			modify:    func(c *Config) { c.API.BaseURL = "" },
			wantField: "api.base_url",
		},
		{
			name:      "relative base url",
			modify:    func(c *Config) { c.API.BaseURL = "/api" },
			wantField: "api.base_url",
		},
		{
			name:      "unsupported scheme",
			modify:    func(c *Config) { c.API.BaseURL = "ftp://localhost/api" },
			wantField: "api.base_url",
		},
		{
			name:      "zero timeout",
			modify:    func(c *Config) { c.API.TimeoutSeconds = 0 },
			wantField: "api.timeout_seconds",
		},
		{
			name:      "huge timeout",
			modify:    func(c *Config) { c.API.TimeoutSeconds = 3600 },
			wantField: "api.timeout_seconds",
		},
		{
			name:      "negative min delay",
			modify:    func(c *Config) { c.Pacing.MinDelayMs = -1 },
			wantField: "pacing.min_delay_ms",
		},
		{
			name:      "max below min",
			modify:    func(c *Config) { c.Pacing.MaxDelayMs = 500 },
			wantField: "pacing.max_delay_ms",
		},
		{
			name:      "max above limit",
			modify:    func(c *Config) { c.Pacing.MaxDelayMs = 60000 },
			wantField: "pacing.max_delay_ms",
		},
		{
			name:      "negative expired reset delay",
			modify:    func(c *Config) { c.Pacing.ExpiredResetDelayMs = -5 },
			wantField: "pacing.expired_reset_delay_ms",
		},
		{
			name:      "unknown log level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:      "null byte in log dir",
			modify:    func(c *Config) { c.Logging.Dir = "/tmp/\x00logs" },
			wantField: "logging.dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, err := range errs {
				if err.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %s", ValidationErrors(errs), tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_ValidVariants(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "https base url", modify: func(c *Config) { c.API.BaseURL = "https://collect.example.com/api" }},
		{name: "zero pacing", modify: func(c *Config) { c.Pacing.MinDelayMs, c.Pacing.MaxDelayMs = 0, 0 }},
		{name: "empty log level", modify: func(c *Config) { c.Logging.Level = "" }},
		{name: "debug log level", modify: func(c *Config) { c.Logging.Level = "debug" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if errs := cfg.Validate(); len(errs) != 0 {
				t.Errorf("unexpected errors: %v", ValidationErrors(errs))
			}
		})
	}
}
