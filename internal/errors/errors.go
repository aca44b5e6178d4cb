// Package errors provides centralized error definitions for duechat.
//
// Errors fall into five groups that the session controller treats differently:
//
//   - ValidationError: rejected before any network call (missing phone,
//     missing session, empty input, rating out of range)
//   - ConnectivityError: the backend could not be reached at all
//   - ServerError: the backend answered with a non-2xx status
//   - NotFoundError: the backend has no customer for the phone number
//   - session expiry: a ServerError whose status or text says the session
//     is gone; the controller resets after a short delay
//
// # Usage
//
//	err := errors.NewValidationError("phone number is required").WithField("phone")
//
//	if errors.IsSessionExpired(err) { ... }
//	fmt.Println(errors.UserMessage(err))
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Re-export standard library functions so callers only import this package.
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
	SeverityDebug Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidInput indicates that client-side validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrSessionNotFound indicates the backend no longer knows the session.
	ErrSessionNotFound = New("session not found")
	// ErrConnectivity indicates the backend could not be reached.
	ErrConnectivity = New("cannot connect to server")
	// ErrMalformedPatch indicates a server response that could not be merged.
	ErrMalformedPatch = New("malformed server response")
	// ErrBusy indicates a request is already in flight.
	ErrBusy = New("request already in flight")
)

// ConnectivityMessage is shown whenever the backend cannot be reached.
const ConnectivityMessage = "Cannot connect to server. Please make sure the backend server is running on %s"

// NotFoundMessage is shown when a phone lookup finds no customer.
const NotFoundMessage = "We couldn't find an account for that phone number. Please check the number and try again."

// SessionExpiredMessage is shown before an automatic reset.
const SessionExpiredMessage = "Your session has expired. Starting over..."

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

// ChatError is implemented by every error type in this package.
type ChatError interface {
	error
	Unwrap() error
	Severity() Severity
	IsRetryable() bool
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error      { return e.cause }
func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError is raised before dispatch when input is unusable.
//
// Example:
//
//	err := errors.NewValidationError("rating must be between 1 and 5").
//		WithField("rating").WithValue(7)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField records which input was rejected.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue records the rejected value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Message returns the bare message without the field prefix.
func (e *ValidationError) Message() string {
	return e.message
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	if len(parts) == 0 {
		return "validation error: " + e.message
	}
	return fmt.Sprintf("validation error [%s]: %s", strings.Join(parts, ", "), e.message)
}

// Is matches any *ValidationError and ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// NotFoundError
// -----------------------------------------------------------------------------

// NotFoundError represents a resource the backend could not find.
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Is matches any *NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// -----------------------------------------------------------------------------
// ConnectivityError
// -----------------------------------------------------------------------------

// ConnectivityError wraps a transport-level failure talking to the backend.
type ConnectivityError struct {
	baseError
	Origin string
}

// NewConnectivityError creates a ConnectivityError for the given backend origin.
func NewConnectivityError(origin string, cause error) *ConnectivityError {
	return &ConnectivityError{
		baseError: baseError{
			message:    fmt.Sprintf(ConnectivityMessage, origin),
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Origin: origin,
	}
}

// Error returns the fixed user-facing message; the cause is only reachable via Unwrap.
func (e *ConnectivityError) Error() string {
	return e.message
}

// Is matches any *ConnectivityError and ErrConnectivity.
func (e *ConnectivityError) Is(target error) bool {
	if _, ok := target.(*ConnectivityError); ok {
		return true
	}
	return target == ErrConnectivity
}

// -----------------------------------------------------------------------------
// ServerError
// -----------------------------------------------------------------------------

// ServerError represents a non-2xx response. Body holds the response text.
// Client errors are warnings; 5xx responses are errors and retryable.
//
// Example:
//
//	err := errors.NewServerError("send message", 404, `{"detail":"Session not found"}`)
//	fmt.Println(err) // "Failed to send message: {"detail":"Session not found"}"
type ServerError struct {
	baseError
	Operation  string
	StatusCode int
	Body       string
}

// NewServerError creates a ServerError for a failed operation.
func NewServerError(operation string, status int, body string) *ServerError {
	severity := SeverityWarning
	if status >= http.StatusInternalServerError {
		severity = SeverityError
	}
	return &ServerError{
		baseError: baseError{
			message:    fmt.Sprintf("Failed to %s: %s", operation, body),
			severity:   severity,
			retryable:  status >= http.StatusInternalServerError,
			userFacing: true,
		},
		Operation:  operation,
		StatusCode: status,
		Body:       body,
	}
}

// Is matches any *ServerError, and ErrSessionNotFound for expired sessions.
func (e *ServerError) Is(target error) bool {
	if _, ok := target.(*ServerError); ok {
		return true
	}
	if target == ErrSessionNotFound {
		return e.notFound()
	}
	return false
}

// Detail returns the "detail" field of a JSON error body, or the raw body
// when it has none.
func (e *ServerError) Detail() string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return e.Body
}

func (e *ServerError) notFound() bool {
	if e.StatusCode == http.StatusNotFound {
		return true
	}
	return strings.Contains(strings.ToLower(e.Body), "not found")
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable reports whether err is transient.
func IsRetryable(err error) bool {
	var chatErr ChatError
	if As(err, &chatErr) {
		return chatErr.IsRetryable()
	}
	return false
}

// IsUserFacing reports whether err's message is safe to show as-is.
func IsUserFacing(err error) bool {
	var chatErr ChatError
	if As(err, &chatErr) {
		return chatErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity of err, SeverityError for foreign errors.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var chatErr ChatError
	if As(err, &chatErr) {
		return chatErr.Severity()
	}
	return SeverityError
}

// IsSessionExpired reports whether err means the backend forgot the session:
// a 404 or a "not found" response body.
func IsSessionExpired(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrSessionNotFound)
}

// UserMessage renders err for display. Validation errors show only their
// message, unknown customers get a friendly hint, anything else not marked
// user-facing becomes a generic line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validation *ValidationError
	if As(err, &validation) {
		return validation.Message()
	}

	var connectivity *ConnectivityError
	if As(err, &connectivity) {
		return connectivity.Error()
	}

	var notFound *NotFoundError
	if As(err, &notFound) && notFound.ResourceType == "customer" {
		return NotFoundMessage
	}

	var server *ServerError
	if As(err, &server) {
		if detail := server.Detail(); detail != server.Body {
			return detail
		}
		return server.Error()
	}

	if IsUserFacing(err) {
		return err.Error()
	}
	return "Something went wrong. Please try again."
}

// Wrapf wraps err with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
