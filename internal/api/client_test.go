package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/duechat/internal/errors"
)

func TestNewHTTPClient_Defaults(t *testing.T) {
	c := NewHTTPClient("")
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.Origin() != "http://localhost:8000" {
		t.Errorf("Origin() = %q, want http://localhost:8000", c.Origin())
	}
	if c.httpClient.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, defaultTimeout)
	}
}

func TestNewHTTPClient_WithOptions(t *testing.T) {
	c := NewHTTPClient("https://collect.example.com/api/", WithTimeout(5*time.Second))
	if c.baseURL != "https://collect.example.com/api" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", c.httpClient.Timeout)
	}
}

func TestHTTPClient_Init(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/init" {
			t.Errorf("path = %q, want /api/init", r.URL.Path)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("missing request id header")
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["phone"] != "+919876543210" {
			t.Errorf("phone = %q, want sanitized +919876543210", req["phone"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"session_id":"sess-1234567890","messages":[{"role":"assistant","content":"Namaste"}],"stage":"verification","awaiting_user":true}`)
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL + "/api")
	patch, err := c.Init(context.Background(), "+91 98765-43210")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !patch.HasMessages() || !patch.HasStage() {
		t.Error("expected messages and stage in patch")
	}
	if string(patch.SessionID) != `"sess-1234567890"` {
		t.Errorf("SessionID = %s", patch.SessionID)
	}
}

func TestHTTPClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SessionID != "sess-1" || req.UserInput != "hello" {
			t.Errorf("request = %+v", req)
		}
		_, _ = io.WriteString(w, `{"stage":"negotiation","is_complete":false}`)
	}))
	defer server.Close()

	patch, err := NewHTTPClient(server.URL + "/api").Chat(context.Background(), "sess-1", "hello")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if string(patch.Stage) != `"negotiation"` {
		t.Errorf("Stage = %s", patch.Stage)
	}
	if patch.HasMessages() {
		t.Error("patch should not report messages")
	}
}

func TestHTTPClient_Feedback(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantFeedback string
	}{
		{name: "empty text sent as null", text: "", wantFeedback: "null"},
		{name: "text sent as string", text: "very polite", wantFeedback: `"very polite"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req map[string]json.RawMessage
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if string(req["feedback"]) != tt.wantFeedback {
					t.Errorf("feedback = %s, want %s", req["feedback"], tt.wantFeedback)
				}
				if string(req["rating"]) != "4" {
					t.Errorf("rating = %s, want 4", req["rating"])
				}
				_, _ = io.WriteString(w, `{"success":true,"message":"Thanks","feedback_id":"fb-1"}`)
			}))
			defer server.Close()

			ack, err := NewHTTPClient(server.URL).Feedback(context.Background(), "sess-1", 4, tt.text)
			if err != nil {
				t.Fatalf("Feedback: %v", err)
			}
			if !ack.Success || ack.FeedbackID != "fb-1" {
				t.Errorf("ack = %+v", ack)
			}
		})
	}
}

func TestHTTPClient_UploadScreenshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload-screenshot" {
			t.Errorf("path = %q, want /upload-screenshot", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if got := r.FormValue("session_id"); got != "sess-1" {
			t.Errorf("session_id = %q, want sess-1", got)
		}
		file, header, err := r.FormFile("screenshot")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "receipt.png" {
			t.Errorf("filename = %q, want receipt.png", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "PNGDATA" {
			t.Errorf("file contents = %q", data)
		}
		_, _ = io.WriteString(w, `{"messages":[],"stage":"payment_check"}`)
	}))
	defer server.Close()

	patch, err := NewHTTPClient(server.URL).UploadScreenshot(context.Background(), "sess-1", "receipt.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("UploadScreenshot: %v", err)
	}
	if !patch.HasMessages() || !patch.HasStage() {
		t.Error("expected messages and stage in patch")
	}
}

func TestHTTPClient_ValidationBeforeNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{
			name:  "empty phone",
			call:  func() error { _, err := c.Init(ctx, " ( ) - "); return err },
			field: "phone",
		},
		{
			name:  "missing session for chat",
			call:  func() error { _, err := c.Chat(ctx, "", "hi"); return err },
			field: "session_id",
		},
		{
			name:  "empty input",
			call:  func() error { _, err := c.Chat(ctx, "sess-1", ""); return err },
			field: "user_input",
		},
		{
			name:  "rating too low",
			call:  func() error { _, err := c.Feedback(ctx, "sess-1", 0, ""); return err },
			field: "rating",
		},
		{
			name:  "rating too high",
			call:  func() error { _, err := c.Feedback(ctx, "sess-1", 6, ""); return err },
			field: "rating",
		},
		{
			name:  "missing session for upload",
			call:  func() error { _, err := c.UploadScreenshot(ctx, "", "a.png", strings.NewReader("x")); return err },
			field: "session_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var validation *errors.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if validation.Field != tt.field {
				t.Errorf("Field = %q, want %q", validation.Field, tt.field)
			}
		})
	}

	if called {
		t.Error("validation failures must not reach the network")
	}
}

func TestHTTPClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Session not found. Your session may have expired."}`)
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL).Chat(context.Background(), "sess-1", "hello")
	var serverErr *errors.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("err = %v, want ServerError", err)
	}
	if serverErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", serverErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "Session not found") {
		t.Errorf("error %q should carry the body text", err.Error())
	}
	if !errors.IsSessionExpired(err) {
		t.Error("404 should be classified as session expired")
	}
}

func TestHTTPClient_InitUnknownCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Customer not found"}`)
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL).Init(context.Background(), "+91 98765 43210")
	var notFound *errors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if notFound.ResourceType != "customer" || notFound.ResourceID != "+919876543210" {
		t.Errorf("NotFoundError = %s/%s", notFound.ResourceType, notFound.ResourceID)
	}
	var serverErr *errors.ServerError
	if !errors.As(err, &serverErr) || serverErr.StatusCode != http.StatusNotFound {
		t.Error("the 404 response should stay in the chain")
	}
	if got := errors.UserMessage(err); got != errors.NotFoundMessage {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestHTTPClient_ConnectivityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewHTTPClient(url + "/api")
	_, err := c.Init(context.Background(), "+919876543210")
	if !errors.Is(err, errors.ErrConnectivity) {
		t.Fatalf("err = %v, want connectivity error", err)
	}
	want := "Cannot connect to server. Please make sure the backend server is running on " + url
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[1,2,3]`)
	}))
	defer server.Close()

	if _, err := NewHTTPClient(server.URL).Chat(context.Background(), "sess-1", "hi"); err == nil {
		t.Error("expected decode error for non-object body")
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+919876543210", "+919876543210"},
		{" +91 (987) 654-3210 ", "+919876543210"},
		{"", ""},
		{" - ", ""},
	}
	for _, tt := range tests {
		if got := SanitizePhone(tt.in); got != tt.want {
			t.Errorf("SanitizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
