package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
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
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "message only",
			err:  NewValidationError("phone number is required"),
			want: "validation error: phone number is required",
		},
		{
			name: "with field",
			err:  NewValidationError("phone number is required").WithField("phone"),
			want: "validation error [field=phone]: phone number is required",
		},
		{
			name: "with field and value",
			err:  NewValidationError("rating must be between 1 and 5").WithField("rating").WithValue(7),
			want: "validation error [field=rating, value=7]: rating must be between 1 and 5",
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

func TestValidationError_Is(t *testing.T) {
	err := fmt.Errorf("start: %w", NewValidationError("phone number is required"))

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected wrapped validation error to match ErrInvalidInput")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatal("expected errors.As to find *ValidationError")
	}
	if validation.IsRetryable() {
		t.Error("validation errors should not be retryable")
	}
	if !validation.IsUserFacing() {
		t.Error("validation errors should be user facing")
	}
}

// -----------------------------------------------------------------------------
// ConnectivityError Tests
// -----------------------------------------------------------------------------

func TestConnectivityError(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	err := NewConnectivityError("http://localhost:8000", cause)

	want := "Cannot connect to server. Please make sure the backend server is running on http://localhost:8000"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrConnectivity) {
		t.Error("expected match on ErrConnectivity")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to stay reachable through Unwrap")
	}
	if !IsRetryable(err) {
		t.Error("connectivity errors should be retryable")
	}
	if IsSessionExpired(err) {
		t.Error("connectivity errors are not session expiry")
	}
}

// -----------------------------------------------------------------------------
// ServerError Tests
// -----------------------------------------------------------------------------

func TestServerError_SessionExpired(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"404 status", 404, `{"detail":"gone"}`, true},
		{"not found text", 400, `{"detail":"Session not found. Please start a new chat."}`, true},
		{"not found text upper case", 500, "NOT FOUND", true},
		{"plain server error", 500, "internal error", false},
		{"bad request", 400, "Message cannot be empty", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrapf(NewServerError("send message", tt.status, tt.body), "chat %s", "sess-1")
			if got := IsSessionExpired(err); got != tt.want {
				t.Errorf("IsSessionExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServerError_Message(t *testing.T) {
	err := NewServerError("start session", 500, "boom")
	if err.Error() != "Failed to start session: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !err.IsRetryable() {
		t.Error("5xx should be retryable")
	}
	if NewServerError("send message", 400, "bad").IsRetryable() {
		t.Error("4xx should not be retryable")
	}
}

// -----------------------------------------------------------------------------
// NotFoundError Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	cause := NewServerError("start session", 404, `{"detail":"Customer not found"}`)
	err := NewNotFoundError("customer", "+911234567890").WithCause(cause)

	if !errors.Is(err, &NotFoundError{}) {
		t.Error("should match *NotFoundError")
	}
	var server *ServerError
	if !errors.As(err, &server) || server.StatusCode != 404 {
		t.Error("cause should stay reachable")
	}
	if !strings.HasPrefix(err.Error(), "customer '+911234567890' not found: ") {
		t.Errorf("Error() = %q", err.Error())
	}
	if got := UserMessage(err); got != NotFoundMessage {
		t.Errorf("UserMessage() = %q, want %q", got, NotFoundMessage)
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want warning", GetSeverity(err))
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", Wrapf(NewValidationError("Rating must be between 1 and 5").WithField("rating"), "feedback"), "Rating must be between 1 and 5"},
		{"server", NewServerError("send message", 500, "oops"), "Failed to send message: oops"},
		{"server detail", NewServerError("start session", 400, `{"detail":"Please enter a valid phone number (at least 10 digits)."}`), "Please enter a valid phone number (at least 10 digits)."},
		{"foreign", errors.New("unexpected EOF"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}

	conn := UserMessage(NewConnectivityError("http://example.test", errors.New("refused")))
	if !strings.HasPrefix(conn, "Cannot connect to server.") {
		t.Errorf("UserMessage(connectivity) = %q", conn)
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"foreign", errors.New("x"), SeverityError},
		{"validation", NewValidationError("x"), SeverityWarning},
		{"client error", NewServerError("send message", 400, "bad"), SeverityWarning},
		{"server error", Wrapf(NewServerError("send message", 503, "down"), "chat"), SeverityError},
		{"connectivity", NewConnectivityError("http://localhost:8000", errors.New("refused")), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	base := NewValidationError("bad")
	err := Wrapf(base, "op %s", "send")
	if err.Error() != "op send: validation error: bad" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("wrapped chain should still match")
	}
}
