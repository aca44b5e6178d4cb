// Package api talks to the debt-collection assistant backend over HTTP/JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/errors"
	"github.com/Iron-Ham/duechat/internal/logging"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000/api"

	// defaultTimeout bounds each request, including the assistant's LLM turn.
	defaultTimeout = 60 * time.Second

	// RequestIDHeader carries a per-call id that also appears in the log.
	RequestIDHeader = "X-Request-ID"
)

// Client is the backend surface the session controller depends on.
type Client interface {
	Init(ctx context.Context, phone string) (conversation.Patch, error)
	Chat(ctx context.Context, sessionID, userInput string) (conversation.Patch, error)
	Feedback(ctx context.Context, sessionID string, rating int, text string) (FeedbackAck, error)
	UploadScreenshot(ctx context.Context, sessionID, filename string, r io.Reader) (conversation.Patch, error)
}

// FeedbackAck is the backend's reply to a feedback submission.
type FeedbackAck struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	FeedbackID string `json:"feedback_id"`
}

// HTTPClient implements Client against the REST backend.
type HTTPClient struct {
	baseURL    string
	origin     string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHTTPClient creates a client for the backend rooted at baseURL
// (for example "http://localhost:8000/api").
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := &HTTPClient{
		baseURL: baseURL,
		origin:  originOf(baseURL),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Origin returns scheme://host of the backend, as shown in connectivity errors.
func (c *HTTPClient) Origin() string {
	return c.origin
}

type initRequest struct {
	Phone string `json:"phone"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	UserInput string `json:"user_input"`
}

type feedbackRequest struct {
	SessionID string  `json:"session_id"`
	Rating    int     `json:"rating"`
	Feedback  *string `json:"feedback"`
}

// Init starts a session for the customer with the given phone number.
// A 404 means no customer has that number and yields a NotFoundError.
func (c *HTTPClient) Init(ctx context.Context, phone string) (conversation.Patch, error) {
	phone = SanitizePhone(phone)
	if phone == "" {
		return conversation.Patch{}, errors.NewValidationError("Phone number is required to start chat").WithField("phone")
	}

	body, err := c.postJSON(ctx, "/init", "start session", initRequest{Phone: phone})
	var serverErr *errors.ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
		return conversation.Patch{}, errors.NewNotFoundError("customer", phone).WithCause(serverErr)
	}
	if err != nil {
		return conversation.Patch{}, err
	}
	return conversation.ParsePatch(body)
}

// Chat sends one user turn and returns the updated state patch.
func (c *HTTPClient) Chat(ctx context.Context, sessionID, userInput string) (conversation.Patch, error) {
	if sessionID == "" {
		return conversation.Patch{}, errors.NewValidationError("Session ID is required").WithField("session_id")
	}
	if userInput == "" {
		return conversation.Patch{}, errors.NewValidationError("User input cannot be empty").WithField("user_input")
	}

	body, err := c.postJSON(ctx, "/chat", "send message", chatRequest{SessionID: sessionID, UserInput: userInput})
	if err != nil {
		return conversation.Patch{}, err
	}
	return conversation.ParsePatch(body)
}

// Feedback submits a 1..5 rating with optional free text. Empty text is sent
// as null.
func (c *HTTPClient) Feedback(ctx context.Context, sessionID string, rating int, text string) (FeedbackAck, error) {
	if sessionID == "" {
		return FeedbackAck{}, errors.NewValidationError("Session ID is required").WithField("session_id")
	}
	if rating < 1 || rating > 5 {
		return FeedbackAck{}, errors.NewValidationError("Rating must be between 1 and 5").
			WithField("rating").WithValue(rating)
	}

	req := feedbackRequest{SessionID: sessionID, Rating: rating}
	if text != "" {
		req.Feedback = &text
	}

	body, err := c.postJSON(ctx, "/feedback", "submit feedback", req)
	if err != nil {
		return FeedbackAck{}, err
	}

	var ack FeedbackAck
	if len(bytes.TrimSpace(body)) == 0 {
		return ack, nil
	}
	if err := json.Unmarshal(body, &ack); err != nil {
		return FeedbackAck{}, fmt.Errorf("decode response: %w", err)
	}
	return ack, nil
}

// UploadScreenshot posts a payment screenshot as multipart form data.
func (c *HTTPClient) UploadScreenshot(ctx context.Context, sessionID, filename string, r io.Reader) (conversation.Patch, error) {
	if sessionID == "" {
		return conversation.Patch{}, errors.NewValidationError("Session ID is required").WithField("session_id")
	}
	if r == nil {
		return conversation.Patch{}, errors.NewValidationError("Screenshot file is required").WithField("screenshot")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("session_id", sessionID); err != nil {
		return conversation.Patch{}, fmt.Errorf("write session_id field: %w", err)
	}
	part, err := writer.CreateFormFile("screenshot", filename)
	if err != nil {
		return conversation.Patch{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return conversation.Patch{}, fmt.Errorf("copy screenshot: %w", err)
	}
	if err := writer.Close(); err != nil {
		return conversation.Patch{}, fmt.Errorf("close multipart writer: %w", err)
	}

	body, err := c.do(ctx, "/upload-screenshot", "upload screenshot", buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return conversation.Patch{}, err
	}
	return conversation.ParsePatch(body)
}

func (c *HTTPClient) postJSON(ctx context.Context, path, operation string, payload any) ([]byte, error) {
	reqBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, path, operation, reqBytes, "application/json")
}

// do sends a POST and maps failures onto the error taxonomy: transport
// failures become ConnectivityError, non-2xx replies become ServerError.
func (c *HTTPClient) do(ctx context.Context, path, operation string, payload []byte, contentType string) ([]byte, error) {
	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("backend unreachable", "error", err.Error())
		return nil, errors.NewConnectivityError(c.origin, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	logger.Debug("backend response",
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
		"bytes", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewServerError(operation, resp.StatusCode, string(body))
	}
	return body, nil
}

// SanitizePhone strips the spaces, dashes and parentheses people type into
// phone numbers.
func SanitizePhone(phone string) string {
	return phoneNoise.Replace(strings.TrimSpace(phone))
}

var phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

func originOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return baseURL
	}
	return u.Scheme + "://" + u.Host
}
