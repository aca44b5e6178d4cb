package tui

import (
	"strings"

	"github.com/Iron-Ham/duechat/internal/errors"
	"github.com/Iron-Ham/duechat/internal/session"
	"github.com/Iron-Ham/duechat/internal/tui/msg"
	"github.com/Iron-Ham/duechat/internal/tui/view"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update implements tea.Model
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKey(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.syncTranscript(false)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(message)
		if m.busy() {
			m.syncTranscript(false)
		}
		return m, cmd

	case msg.StartedMsg:
		m.requesting = false
		m.refresh()
		if m.snap.State != nil {
			m.logger.Info("chat opened", "phase", m.snap.Phase.String())
			m.enterChat()
			m.syncTranscript(true)
			return m, m.chatInput.Focus()
		}
		return m, nil

	case msg.SentMsg:
		m.requesting = false
		m.pendingText = ""
		m.optionIndex = view.NoOption
		m.refresh()
		m.syncTranscript(true)
		return m, nil

	case msg.UploadedMsg:
		m.uploading = false
		m.refresh()
		if message.Err != nil {
			if m.snap.LastError == "" {
				m.localErr = errors.UserMessage(message.Err)
			}
			return m, nil
		}
		m.mode = view.ModeChat
		m.uploadInput.Reset()
		if message.Handled {
			m.notice = "Screenshot uploaded: " + message.Filename
		}
		m.syncTranscript(true)
		return m, m.chatInput.Focus()

	case msg.FeedbackMsg:
		m.feedback.Submitting = false
		if message.Err != nil {
			m.feedback.Error = feedbackError(message.Err)
			return m, nil
		}
		m.feedback.Success = true
		m.feedback.Error = ""
		return m, msg.CloseFeedback()

	case msg.FeedbackCloseMsg:
		if m.mode == view.ModeFeedback && m.feedback.Success {
			m.closeFeedback()
			return m, m.chatInput.Focus()
		}
		return m, nil

	case msg.SessionChangedMsg:
		m.refresh()
		if m.snap.Phase == session.PhaseNotStarted && m.mode != view.ModePhone {
			m.logger.Info("session reset by controller")
			m.enterPhone(true)
			return m, m.phoneInput.Focus()
		}
		m.syncTranscript(false)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(k, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(k, m.keys.Reload) {
		return m.reload()
	}
	if m.boundary.recovered != nil {
		return m, nil
	}

	switch m.mode {
	case view.ModePhone:
		return m.handlePhoneKey(k)
	case view.ModeFeedback:
		return m.handleFeedbackKey(k)
	case view.ModeUpload:
		return m.handleUploadKey(k)
	default:
		return m.handleChatKey(k)
	}
}

// reload discards the conversation and every piece of UI state.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.logger.Info("reload requested")
	m.controller.Reset()
	m.boundary.recovered = nil
	m.requesting = false
	m.uploading = false
	m.refresh()
	m.enterPhone(false)
	return m, m.phoneInput.Focus()
}

func (m Model) handlePhoneKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(k, m.keys.Submit) {
		if m.busy() {
			return m, nil
		}
		phone := strings.TrimSpace(m.phoneInput.Value())
		m.localErr = ""
		m.requesting = true
		return m, msg.StartSession(m.ctx, m.controller, phone)
	}

	var cmd tea.Cmd
	m.phoneInput, cmd = m.phoneInput.Update(k)
	return m, cmd
}

func (m Model) handleChatKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.PageUp):
		m.transcript.SetYOffset(m.transcript.YOffset - max(m.transcript.Height/2, 1))
		return m, nil
	case key.Matches(k, m.keys.PageDown):
		m.transcript.SetYOffset(m.transcript.YOffset + max(m.transcript.Height/2, 1))
		return m, nil
	case key.Matches(k, m.keys.Upload):
		if m.controller.ScreenshotVisible() && !m.busy() {
			m.mode = view.ModeUpload
			m.localErr = ""
			m.notice = ""
			m.chatInput.Blur()
			return m, m.uploadInput.Focus()
		}
		return m, nil
	case key.Matches(k, m.keys.Cancel):
		m.localErr = ""
		m.notice = ""
		m.controller.ClearError()
		m.refresh()
		if m.focus == focusQuickReplies {
			return m, m.focusInput()
		}
		m.optionIndex = view.NoOption
		m.syncTranscript(false)
		return m, nil
	case key.Matches(k, m.keys.ToggleFocus):
		if m.focus == focusQuickReplies || len(m.quickReplies()) == 0 {
			return m, m.focusInput()
		}
		m.focus = focusQuickReplies
		m.quickIndex = 0
		m.chatInput.Blur()
		return m, nil
	}

	st := m.snap.State
	if st != nil && st.IsComplete && key.Matches(k, m.keys.Rate) {
		return m, m.openFeedback()
	}

	if m.focus == focusQuickReplies {
		return m.handleQuickReplyKey(k)
	}

	if choices, _ := m.choices(); len(choices) > 0 {
		switch {
		case key.Matches(k, m.keys.OptionDown):
			m.optionIndex = min(m.optionIndex+1, len(choices)-1)
			m.syncTranscript(false)
			return m, nil
		case key.Matches(k, m.keys.OptionUp):
			m.optionIndex = max(m.optionIndex-1, view.NoOption)
			m.syncTranscript(false)
			return m, nil
		case key.Matches(k, m.keys.Submit) && m.optionIndex != view.NoOption && m.optionIndex < len(choices):
			return m.send(choices[m.optionIndex].Reply)
		}
	}

	if key.Matches(k, m.keys.Submit) {
		text := m.chatInput.Value()
		if !m.canSend(text) {
			return m, nil
		}
		m.chatInput.Reset()
		return m.send(text)
	}

	if !m.inputEnabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(k)
	return m, cmd
}

func (m Model) handleQuickReplyKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	replies := m.quickReplies()
	if len(replies) == 0 {
		return m, m.focusInput()
	}
	switch {
	case key.Matches(k, m.keys.Left):
		m.quickIndex = max(m.quickIndex-1, 0)
	case key.Matches(k, m.keys.Right):
		m.quickIndex = min(m.quickIndex+1, len(replies)-1)
	case key.Matches(k, m.keys.Submit):
		if m.quickIndex >= len(replies) {
			return m, nil
		}
		return m.send(replies[m.quickIndex].Action)
	}
	return m, nil
}

// send dispatches one user turn if the controller would accept it.
func (m Model) send(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if !m.canSend(text) {
		return m, nil
	}
	m.requesting = true
	m.pendingText = text
	m.optionIndex = view.NoOption
	m.localErr = ""
	m.notice = ""
	m.syncTranscript(true)
	return m, msg.SendMessage(m.ctx, m.controller, text)
}

func (m Model) handleFeedbackKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.feedback.Success {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Cancel):
		if m.feedback.Submitting {
			return m, nil
		}
		m.closeFeedback()
		return m, m.chatInput.Focus()
	case key.Matches(k, m.keys.ToggleFocus):
		if m.feedback.Submitting {
			return m, nil
		}
		m.ratingFocused = !m.ratingFocused
		if m.ratingFocused {
			m.feedbackInput.Blur()
			return m, nil
		}
		return m, m.feedbackInput.Focus()
	case key.Matches(k, m.keys.Submit):
		if m.feedback.Submitting {
			return m, nil
		}
		if m.feedback.Rating == 0 {
			m.feedback.Error = view.RatingRequiredMessage
			return m, nil
		}
		m.feedback.Submitting = true
		m.feedback.Error = ""
		return m, msg.SubmitFeedback(m.ctx, m.controller, m.feedback.Rating, m.feedbackInput.Value())
	}

	if m.feedback.Submitting {
		return m, nil
	}

	if m.ratingFocused {
		switch {
		case key.Matches(k, m.keys.Left):
			m.setRating(m.feedback.Rating - 1)
		case key.Matches(k, m.keys.Right):
			m.setRating(m.feedback.Rating + 1)
		case k.Type == tea.KeyRunes && len(k.Runes) == 1 && k.Runes[0] >= '1' && k.Runes[0] <= '5':
			m.setRating(int(k.Runes[0] - '0'))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.feedbackInput, cmd = m.feedbackInput.Update(k)
	return m, cmd
}

func (m *Model) setRating(rating int) {
	m.feedback.Rating = max(1, min(rating, view.MaxRating))
	m.feedback.Error = ""
}

func (m Model) handleUploadKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uploading {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.mode = view.ModeChat
		m.localErr = ""
		m.uploadInput.Reset()
		m.uploadInput.Blur()
		return m, m.chatInput.Focus()
	case key.Matches(k, m.keys.Submit):
		path := strings.TrimSpace(m.uploadInput.Value())
		if path == "" {
			return m, nil
		}
		m.uploading = true
		m.localErr = ""
		return m, msg.UploadScreenshot(m.ctx, m.controller, path)
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(k)
	return m, cmd
}

// refresh pulls a new snapshot from the controller.
func (m *Model) refresh() {
	m.snap = m.controller.Snapshot()
}

func (m *Model) enterChat() {
	m.mode = view.ModeChat
	m.focus = focusInput
	m.optionIndex = view.NoOption
	m.localErr = ""
	m.phoneInput.Blur()
}

// enterPhone returns to the phone screen. keepPhone leaves the number in
// place so the customer can start again after an expired session.
func (m *Model) enterPhone(keepPhone bool) {
	m.mode = view.ModePhone
	m.focus = focusInput
	m.quickIndex = 0
	m.optionIndex = view.NoOption
	m.pendingText = ""
	m.localErr = ""
	m.notice = ""
	m.feedback = view.FeedbackState{}
	m.ratingFocused = false
	m.chatInput.Reset()
	m.chatInput.Blur()
	m.feedbackInput.Reset()
	m.feedbackInput.Blur()
	m.uploadInput.Reset()
	m.uploadInput.Blur()
	if !keepPhone {
		m.phoneInput.Reset()
	}
	m.transcript.SetContent("")
	m.transcript.GotoTop()
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.chatInput.Focus()
}

func (m *Model) openFeedback() tea.Cmd {
	m.mode = view.ModeFeedback
	m.feedback = view.FeedbackState{}
	m.ratingFocused = true
	m.feedbackInput.Reset()
	m.feedbackInput.Blur()
	m.chatInput.Blur()
	return nil
}

func (m *Model) closeFeedback() {
	m.mode = view.ModeChat
	m.feedback = view.FeedbackState{}
	m.ratingFocused = false
	m.feedbackInput.Reset()
	m.feedbackInput.Blur()
}

// feedbackError picks the text shown in the feedback form.
func feedbackError(err error) string {
	if errors.Is(err, errors.ErrBusy) {
		return view.FeedbackFailedMessage
	}
	if text := errors.UserMessage(err); text != "" {
		return text
	}
	return view.FeedbackFailedMessage
}
