// Package session owns the conversation state and sequences user actions
// against the backend.
//
// A Controller is single-flight: while a start, send, upload or feedback
// request is in flight, further submissions are dropped rather than queued.
// Its blocking methods are meant to run inside tea.Cmd goroutines; the TUI
// reads the result through Snapshot and is notified of asynchronous changes
// (the delayed reset after a session expires) through SetChangeCallback.
package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/duechat/internal/api"
	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/errors"
	"github.com/Iron-Ham/duechat/internal/logging"
)

// Phase is the session lifecycle position.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseStarting
	PhaseActive
	PhaseSending
	PhaseCompleted
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseStarting:
		return "starting"
	case PhaseActive:
		return "active"
	case PhaseSending:
		return "sending"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DefaultExpiredResetDelay is how long the expiry notice stays up before
// the controller resets itself.
const DefaultExpiredResetDelay = 2 * time.Second

// PhoneRequiredMessage is shown when Start is called without a number.
const PhoneRequiredMessage = "Please enter your phone number"

// ChangeCallback is invoked after the controller changes state outside a
// caller's own request, such as the delayed reset.
type ChangeCallback func()

// Snapshot is a point-in-time copy of the controller for rendering.
type Snapshot struct {
	Phase     Phase
	State     *conversation.State // nil before a session has started
	Busy      bool
	Pending   string // user text of an in-flight Send, not yet in State
	LastError string
}

// Controller is the single owner of a conversation.
type Controller struct {
	client            api.Client
	reconciler        conversation.Reconciler
	pacer             Pacer
	scheduler         Scheduler
	expiredResetDelay time.Duration
	now               func() time.Time
	logger            *logging.Logger

	mu         sync.Mutex
	phase      Phase
	state      *conversation.State
	busy       bool
	pending    string
	lastErr    string
	resetTimer Timer
	generation uint64
	onChange   ChangeCallback
}

// Option configures a Controller.
type Option func(*Controller)

// WithPacer sets the reply pacer. The default waits 1-2 seconds.
func WithPacer(p Pacer) Option {
	return func(c *Controller) {
		if p != nil {
			c.pacer = p
		}
	}
}

// WithScheduler sets the scheduler used for delayed resets.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithReconciler sets the reconciliation policy.
func WithReconciler(r conversation.Reconciler) Option {
	return func(c *Controller) {
		c.reconciler = r
	}
}

// WithExpiredResetDelay sets the delay before resetting an expired session.
func WithExpiredResetDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.expiredResetDelay = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller in PhaseNotStarted.
func NewController(client api.Client, opts ...Option) *Controller {
	c := &Controller{
		client:            client,
		pacer:             NewRandomPacer(time.Second, 2*time.Second),
		scheduler:         clockScheduler{},
		expiredResetDelay: DefaultExpiredResetDelay,
		now:               time.Now,
		logger:            logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetChangeCallback registers the asynchronous change callback.
func (c *Controller) SetChangeCallback(cb ChangeCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = cb
}

// Snapshot returns a copy of the current controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Phase:     c.phase,
		Busy:      c.busy,
		Pending:   c.pending,
		LastError: c.lastErr,
	}
	if c.state != nil {
		st := c.state.Clone()
		snap.State = &st
	}
	return snap
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// LastError returns the transient error text, empty when none.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearError dismisses the transient error.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = ""
}

// ScreenshotVisible reports whether the payment-proof upload affordance
// should be offered for the current transcript.
func (c *Controller) ScreenshotVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return false
	}
	return conversation.ScreenshotEligible(*c.state)
}

// Start opens a session for phone. It returns false without error when a
// request is already in flight or a session already exists. A failed start
// leaves the controller in PhaseNotStarted with LastError set.
func (c *Controller) Start(ctx context.Context, phone string) (bool, error) {
	phone = strings.TrimSpace(phone)

	c.mu.Lock()
	if phone == "" {
		c.lastErr = PhoneRequiredMessage
		c.mu.Unlock()
		return false, errors.NewValidationError(PhoneRequiredMessage).WithField("phone")
	}
	if c.busy || c.phase != PhaseNotStarted {
		c.mu.Unlock()
		return false, nil
	}
	c.busy = true
	c.phase = PhaseStarting
	c.lastErr = ""
	gen := c.generation
	c.mu.Unlock()

	started := c.now()
	patch, err := c.client.Init(ctx, phone)
	if err == nil {
		c.pacer.Wait(ctx, 0)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false, nil
	}
	c.busy = false

	if err != nil {
		c.phase = PhaseNotStarted
		c.lastErr = startErrorMessage(err)
		logFailure(c.logger, "session start failed", err,
			"latency_ms", c.now().Sub(started).Milliseconds(),
		)
		return true, err
	}

	next, rerr := c.reconciler.Reconcile(nil, patch)
	c.state = &next
	c.phase = phaseFor(next)
	c.logger.WithSession(next.SessionID).WithStage(next.Stage).Info("session started",
		"verified", next.IsVerified,
		"latency_ms", c.now().Sub(started).Milliseconds(),
	)
	if rerr != nil {
		c.lastErr = errors.UserMessage(rerr)
		c.logger.WithSession(next.SessionID).Error("init response could not be reconciled", "error", rerr.Error())
		return true, rerr
	}
	return true, nil
}

// Send submits one user turn. It is a silent no-op, returning false and no
// error, when the conversation is not awaiting the user, is complete, text
// is blank, or another request is in flight.
func (c *Controller) Send(ctx context.Context, text string) (bool, error) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if c.state == nil || !c.state.AwaitingUser || c.state.IsComplete || text == "" || c.busy {
		c.mu.Unlock()
		return false, nil
	}
	c.busy = true
	c.phase = PhaseSending
	c.pending = text
	c.lastErr = ""
	sessionID := c.state.SessionID
	gen := c.generation
	c.mu.Unlock()

	logger := c.logger.WithSession(sessionID)
	started := c.now()
	patch, err := c.client.Chat(ctx, sessionID, text)
	if err == nil {
		c.pacer.Wait(ctx, c.now().Sub(started))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false, nil
	}
	c.busy = false
	c.pending = ""

	if err != nil {
		c.phase = phaseFor(*c.state)
		c.failLocked(logger, "send failed", err)
		return true, err
	}

	rerr := c.applyLocked(patch)
	logger.WithStage(c.state.Stage).Info("message exchanged",
		"messages", len(c.state.Messages),
		"complete", c.state.IsComplete,
		"latency_ms", c.now().Sub(started).Milliseconds(),
	)
	if rerr != nil {
		logger.Error("chat response could not be reconciled", "error", rerr.Error())
		return true, rerr
	}
	return true, nil
}

// UploadScreenshot posts payment proof. The response is merged only when
// it carries both messages and a stage; otherwise the upload is accepted
// silently.
func (c *Controller) UploadScreenshot(ctx context.Context, filename string, r io.Reader) (bool, error) {
	c.mu.Lock()
	if c.state == nil || c.state.SessionID == "" {
		c.lastErr = "No active session. Please start a chat first."
		c.mu.Unlock()
		return false, errors.NewValidationError("Session ID is required").WithField("session_id")
	}
	if c.busy {
		c.mu.Unlock()
		return false, nil
	}
	c.busy = true
	c.lastErr = ""
	sessionID := c.state.SessionID
	gen := c.generation
	c.mu.Unlock()

	logger := c.logger.WithSession(sessionID)
	started := c.now()
	patch, err := c.client.UploadScreenshot(ctx, sessionID, filename, r)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false, nil
	}
	c.busy = false

	if err != nil {
		c.failLocked(logger, "screenshot upload failed", err)
		return true, err
	}

	logger.Info("screenshot uploaded",
		"file", filename,
		"latency_ms", c.now().Sub(started).Milliseconds(),
	)
	if !patch.HasMessages() || !patch.HasStage() {
		return true, nil
	}
	if rerr := c.applyLocked(patch); rerr != nil {
		logger.Error("upload response could not be reconciled", "error", rerr.Error())
		return true, rerr
	}
	return true, nil
}

// SubmitFeedback sends the post-conversation rating. Errors are returned to
// the caller and do not touch LastError, since the feedback form shows its
// own.
func (c *Controller) SubmitFeedback(ctx context.Context, rating int, text string) (api.FeedbackAck, error) {
	c.mu.Lock()
	if c.state == nil || c.state.SessionID == "" {
		c.mu.Unlock()
		return api.FeedbackAck{}, errors.NewValidationError("Session ID is required").WithField("session_id")
	}
	if c.busy {
		c.mu.Unlock()
		return api.FeedbackAck{}, errors.ErrBusy
	}
	c.busy = true
	sessionID := c.state.SessionID
	gen := c.generation
	c.mu.Unlock()

	ack, err := c.client.Feedback(ctx, sessionID, rating, strings.TrimSpace(text))

	c.mu.Lock()
	if gen == c.generation {
		c.busy = false
	}
	c.mu.Unlock()

	logger := c.logger.WithSession(sessionID)
	if err != nil {
		logFailure(logger, "feedback failed", err, "rating", rating)
		return api.FeedbackAck{}, err
	}
	logger.Info("feedback submitted", "rating", rating, "feedback_id", ack.FeedbackID)
	return ack, nil
}

// Reset discards the conversation unconditionally and cancels any pending
// continuation. Responses to requests issued before the reset are dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
}

func (c *Controller) resetLocked() {
	c.generation++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	if c.state != nil {
		c.logger.WithSession(c.state.SessionID).Info("session reset")
	}
	c.phase = PhaseNotStarted
	c.state = nil
	c.busy = false
	c.pending = ""
	c.lastErr = ""
}

// applyLocked reconciles patch into the current state. A malformed patch
// still yields the safe merge, so the transcript survives.
func (c *Controller) applyLocked(patch conversation.Patch) error {
	next, err := c.reconciler.Reconcile(c.state, patch)
	c.state = &next
	c.phase = phaseFor(next)
	if err != nil {
		c.lastErr = errors.UserMessage(err)
	}
	return err
}

// failLocked records err for display and schedules a reset when the
// backend no longer knows the session.
func (c *Controller) failLocked(logger *logging.Logger, msg string, err error) {
	logFailure(logger, msg, err)

	if !errors.IsSessionExpired(err) {
		c.lastErr = errors.UserMessage(err)
		return
	}

	c.lastErr = errors.SessionExpiredMessage
	if c.resetTimer != nil {
		c.resetTimer.Stop()
	}
	gen := c.generation
	c.resetTimer = c.scheduler.AfterFunc(c.expiredResetDelay, func() {
		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		logger.Info("resetting expired session")
		c.resetLocked()
		cb := c.onChange
		c.mu.Unlock()

		if cb != nil {
			cb()
		}
	})
}

// logFailure logs err at a level matching its severity: client-side and
// 4xx failures are warnings, transport and 5xx failures are errors.
func logFailure(logger *logging.Logger, msg string, err error, args ...any) {
	severity := errors.GetSeverity(err)
	args = append([]any{
		"error", err.Error(),
		"severity", severity.String(),
		"retryable", errors.IsRetryable(err),
	}, args...)
	if severity >= errors.SeverityError {
		logger.Error(msg, args...)
		return
	}
	logger.Warn(msg, args...)
}

func phaseFor(s conversation.State) Phase {
	if s.IsComplete {
		return PhaseCompleted
	}
	return PhaseActive
}

// startErrorMessage tells a failed phone lookup apart from an unreachable
// backend.
func startErrorMessage(err error) string {
	if errors.IsSessionExpired(err) {
		return errors.NotFoundMessage
	}
	return errors.UserMessage(err)
}
