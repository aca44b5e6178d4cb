package tui

import (
	"strings"

	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/Iron-Ham/duechat/internal/tui/view"
	"github.com/charmbracelet/lipgloss"
)

// minTranscriptHeight keeps a few message lines visible on short terminals.
const minTranscriptHeight = 3

// View implements tea.Model. A panic while rendering switches the UI to
// the fallback screen until the user reloads.
func (m Model) View() (out string) {
	if m.quitting {
		return ""
	}
	if m.boundary.recovered != nil {
		return view.RenderFallback(m.boundary.recovered, m.width)
	}

	defer func() {
		if r := recover(); r != nil {
			m.boundary.recovered = r
			m.logger.Error("render panic", "panic", r)
			out = view.RenderFallback(r, m.width)
		}
	}()

	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case view.ModePhone:
		return m.renderPhone()
	case view.ModeFeedback:
		modal := view.RenderFeedback(m.feedbackState(), m.width)
		help := view.RenderHelp(&view.HelpBarState{Mode: view.ModeFeedback})
		return lipgloss.Place(m.width, max(m.height-lipgloss.Height(help), 0), lipgloss.Center, lipgloss.Center, modal) +
			"\n" + help
	default:
		return m.renderChat()
	}
}

func (m Model) renderPhone() string {
	body := view.RenderPhoneEntry(view.PhoneEntryState{
		Input:    m.phoneInput.View(),
		Empty:    strings.TrimSpace(m.phoneInput.Value()) == "",
		Starting: m.busy(),
		Error:    m.errorText(),
		Width:    m.width,
		Height:   max(m.height-2, 0),
	})
	return body + "\n" + view.RenderHelp(&view.HelpBarState{Mode: view.ModePhone})
}

func (m Model) renderChat() string {
	top, bottom := m.chrome()
	return top + "\n" + m.transcript.View() + "\n" + bottom
}

// chrome renders everything above and below the transcript.
func (m Model) chrome() (top, bottom string) {
	st := m.snap.State

	topParts := []string{view.RenderHeader(st, m.width)}
	if reminder := view.RenderReminder(st, m.width); reminder != "" {
		topParts = append(topParts, reminder)
	}

	var parts []string
	choices, inline := m.choices()
	if len(choices) > 0 && !inline && st != nil {
		parts = append(parts, view.RenderPlans(st.OfferedPlans, m.optionIndex, m.width))
	}
	if st != nil && st.IsComplete {
		parts = append(parts, view.RenderCompletion(m.width))
	}
	if m.controller.ScreenshotVisible() && m.mode != view.ModeUpload {
		parts = append(parts, view.RenderUploadHint())
	}
	if m.notice != "" {
		parts = append(parts, styles.Secondary.Render("✓ "+m.notice))
	}
	if errText := m.errorText(); errText != "" {
		parts = append(parts, view.RenderError(errText, m.width))
	}

	if m.mode == view.ModeUpload {
		parts = append(parts, view.RenderUploadPrompt(m.uploadInput.View(), m.uploading, m.width))
	} else {
		if replies := m.quickReplies(); len(replies) > 0 {
			focused := view.NoOption
			if m.focus == focusQuickReplies {
				focused = m.quickIndex
			}
			parts = append(parts, view.RenderQuickReplies(replies, focused, !m.inputEnabled()))
		}
		if st == nil || !st.IsComplete {
			parts = append(parts, m.renderInput())
		}
	}

	parts = append(parts, view.RenderHelp(&view.HelpBarState{
		Mode:       m.mode,
		Busy:       m.busy(),
		HasChoices: len(choices) > 0,
		CanUpload:  m.controller.ScreenshotVisible(),
		Complete:   st != nil && st.IsComplete,
	}))

	return strings.Join(topParts, "\n"), strings.Join(parts, "\n")
}

func (m Model) renderInput() string {
	style := styles.InputBox
	if m.inputEnabled() && m.focus == focusInput {
		style = styles.InputBoxFocused
	}
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(m.chatInput.View())
}

func (m Model) feedbackState() view.FeedbackState {
	state := m.feedback
	state.Input = m.feedbackInput.View()
	return state
}

// syncTranscript re-renders the transcript into the viewport and resizes it
// to the space the chrome leaves. follow scrolls to the newest message.
func (m *Model) syncTranscript(follow bool) {
	if !m.ready || m.mode == view.ModePhone {
		return
	}

	top, bottom := m.chrome()
	height := m.height - lipgloss.Height(top) - lipgloss.Height(bottom)
	m.transcript.Width = m.width
	m.transcript.Height = max(height, minTranscriptHeight)

	atBottom := m.transcript.AtBottom()
	m.transcript.SetContent(view.RenderTranscript(m.formatter, view.TranscriptState{
		Messages:       m.messages(),
		Pending:        m.pending(),
		Typing:         m.busy() && m.pending() != "",
		Spinner:        m.spinner.View(),
		ShowTimestamps: m.opts.ShowTimestamps,
		FocusedOption:  m.inlineFocus(),
		Width:          max(m.width-2, 20),
	}))
	if follow || atBottom {
		m.transcript.GotoBottom()
	}
}

func (m Model) messages() []conversation.Message {
	if m.snap.State == nil {
		return nil
	}
	return m.snap.State.Messages
}

// inlineFocus returns the option index to highlight inside the latest
// message, NoOption when the focus is on the offered plans.
func (m Model) inlineFocus() int {
	if _, inline := m.choices(); inline {
		return m.optionIndex
	}
	return view.NoOption
}
