package tui

import (
	"context"
	"strings"

	"github.com/Iron-Ham/duechat/internal/format"
	"github.com/Iron-Ham/duechat/internal/logging"
	"github.com/Iron-Ham/duechat/internal/session"
	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/Iron-Ham/duechat/internal/tui/view"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Input placeholders.
const (
	ChatPlaceholder     = "Type your response..."
	FeedbackPlaceholder = "Tell us about your experience..."
	UploadPlaceholder   = "Path to screenshot (png, jpg)"
)

// Options configures the presentation.
type Options struct {
	ShowTimestamps   bool
	ShowQuickReplies bool

	// Phone pre-fills the phone entry screen.
	Phone string
}

// focusArea is the chat screen region receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusQuickReplies
)

// errorBoundary records a panic caught while rendering. It is shared by
// pointer so the value-receiver View can report into later Updates.
type errorBoundary struct {
	recovered any
}

// Model holds the TUI application state
type Model struct {
	ctx        context.Context
	controller Controller
	formatter  format.Formatter
	logger     *logging.Logger
	opts       Options
	keys       keyMap

	// UI state
	width    int
	height   int
	ready    bool
	quitting bool
	mode     view.Mode
	boundary *errorBoundary

	// Bubbles
	phoneInput    textinput.Model
	chatInput     textinput.Model
	feedbackInput textinput.Model
	uploadInput   textinput.Model
	spinner       spinner.Model
	transcript    viewport.Model

	// Controller view, refreshed after every request
	snap session.Snapshot

	// Local request state until the controller reports back
	requesting  bool
	pendingText string

	// Chat navigation
	focus       focusArea
	quickIndex  int
	optionIndex int

	// Feedback modal
	feedback      view.FeedbackState
	ratingFocused bool

	// Screenshot upload
	uploading bool

	// Errors the controller never sees, such as an unreadable file
	localErr string
	notice   string
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, controller Controller, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	phone := textinput.New()
	phone.Placeholder = view.PhonePlaceholder
	phone.CharLimit = 20
	phone.Width = 40
	phone.SetValue(opts.Phone)
	phone.Focus()

	chat := textinput.New()
	chat.Placeholder = ChatPlaceholder
	chat.CharLimit = 500

	fb := textinput.New()
	fb.Placeholder = FeedbackPlaceholder
	fb.CharLimit = 500

	upload := textinput.New()
	upload.Placeholder = UploadPlaceholder
	upload.CharLimit = 1024

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Primary

	return Model{
		ctx:           ctx,
		controller:    controller,
		formatter:     format.New(),
		logger:        logging.NopLogger(),
		opts:          opts,
		keys:          defaultKeyMap(),
		mode:          view.ModePhone,
		boundary:      &errorBoundary{},
		phoneInput:    phone,
		chatInput:     chat,
		feedbackInput: fb,
		uploadInput:   upload,
		spinner:       sp,
		transcript:    viewport.New(80, 10),
		snap:          controller.Snapshot(),
		optionIndex:   view.NoOption,
	}
}

// WithFormatter replaces the message formatter.
func (m Model) WithFormatter(f format.Formatter) Model {
	if f != nil {
		m.formatter = f
	}
	return m
}

// WithLogger sets the logger used for UI events.
func (m Model) WithLogger(logger *logging.Logger) Model {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// busy reports whether a request is in flight, as far as the UI knows.
func (m Model) busy() bool {
	return m.requesting || m.snap.Busy
}

// inputEnabled reports whether the chat input accepts a message.
func (m Model) inputEnabled() bool {
	st := m.snap.State
	return st != nil && st.AwaitingUser && !st.IsComplete && !m.busy()
}

// pending returns the user text awaiting a reply.
func (m Model) pending() string {
	if m.snap.Pending != "" {
		return m.snap.Pending
	}
	return m.pendingText
}

// choices returns the answers selectable with the arrow keys.
func (m Model) choices() ([]view.Choice, bool) {
	if m.busy() {
		return nil, false
	}
	return view.ActiveChoices(m.formatter, m.snap.State)
}

// quickReplies returns the chips currently shown. The Payment chip is
// offered once the customer has been verified.
func (m Model) quickReplies() []view.QuickReply {
	st := m.snap.State
	if !m.opts.ShowQuickReplies || st == nil || st.IsComplete {
		return nil
	}
	return view.VisibleQuickReplies(st.IsVerified)
}

// errorText returns the error line content.
func (m Model) errorText() string {
	if m.localErr != "" {
		return m.localErr
	}
	return m.snap.LastError
}

// canSend mirrors the controller's guard so the UI does not flash a
// pending bubble for a turn the controller would drop.
func (m Model) canSend(text string) bool {
	return m.inputEnabled() && strings.TrimSpace(text) != ""
}
