package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "pacing.min_delay_ms")
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
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validatePacing()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateAPI validates the APIConfig
func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.API.BaseURL)
	switch {
	case c.API.BaseURL == "":
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must not be empty",
		})
	case err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https"):
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must be an absolute http or https URL",
		})
	}

	if c.API.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	// An LLM turn can be slow, but a ten-minute hang is a misconfiguration
	const maxTimeoutSeconds = 600
	if c.API.TimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d", maxTimeoutSeconds),
		})
	}

	return errors
}

// validatePacing validates the PacingConfig
func (c *Config) validatePacing() []ValidationError {
	var errors []ValidationError

	if c.Pacing.MinDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "pacing.min_delay_ms",
			Value:   c.Pacing.MinDelayMs,
			Message: "must be non-negative",
		})
	}

	if c.Pacing.MaxDelayMs < c.Pacing.MinDelayMs {
		errors = append(errors, ValidationError{
			Field:   "pacing.max_delay_ms",
			Value:   c.Pacing.MaxDelayMs,
			Message: fmt.Sprintf("must be >= pacing.min_delay_ms (%d)", c.Pacing.MinDelayMs),
		})
	}

	const maxDelayLimitMs = 30000
	if c.Pacing.MaxDelayMs > maxDelayLimitMs {
		errors = append(errors, ValidationError{
			Field:   "pacing.max_delay_ms",
			Value:   c.Pacing.MaxDelayMs,
			Message: fmt.Sprintf("exceeds maximum of %d", maxDelayLimitMs),
		})
	}

	if c.Pacing.ExpiredResetDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "pacing.expired_reset_delay_ms",
			Value:   c.Pacing.ExpiredResetDelayMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if strings.ContainsRune(c.Logging.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "contains invalid null character",
		})
	}

	return errors
}
