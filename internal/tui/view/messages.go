package view

import (
	"strings"

	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/format"
	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// AssistantName labels agent messages and the typing indicator.
const AssistantName = "Finance Assistant"

// NoOption means no option has keyboard focus.
const NoOption = -1

// maxBubbleRatio is the share of the transcript width a bubble may use.
const maxBubbleRatio = 0.75

// TranscriptState holds what RenderTranscript needs.
type TranscriptState struct {
	Messages []conversation.Message

	// Pending is user text sent but not yet echoed back by the backend.
	Pending string

	// Typing shows the typing indicator after the last message.
	Typing bool

	// Spinner is the current spinner frame for the typing indicator.
	Spinner string

	ShowTimestamps bool

	// FocusedOption highlights an option of the latest assistant message.
	FocusedOption int

	Width int
}

// Choice is one selectable answer: a parsed option of the latest
// assistant message, or a plan the backend offered.
type Choice struct {
	Label       string
	Description string
	Reply       string
}

// ActiveChoices returns the answers the user can pick right now. Options
// parsed from the latest message win over the offered plans; inline
// reports which source was used.
func ActiveChoices(f format.Formatter, s *conversation.State) (choices []Choice, inline bool) {
	if s == nil || !s.AwaitingUser || s.IsComplete {
		return nil, false
	}
	if n := len(s.Messages); n > 0 && s.Messages[n-1].IsAssistant() {
		rendered := f.Format(s.Messages[n-1])
		if rendered.Kind == format.KindOptions {
			choices = make([]Choice, 0, len(rendered.Options))
			for _, opt := range rendered.Options {
				choices = append(choices, Choice{
					Label:       opt.Number + ". " + opt.Name,
					Description: opt.Description,
					Reply:       opt.Reply(),
				})
			}
			return choices, true
		}
	}
	choices = make([]Choice, 0, len(s.OfferedPlans))
	for _, plan := range s.OfferedPlans {
		choices = append(choices, Choice{Label: plan.Name, Description: plan.Description, Reply: plan.Name})
	}
	return choices, false
}

// RenderTranscript renders every message, then the pending user turn and
// the typing indicator.
func RenderTranscript(f format.Formatter, state TranscriptState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}

	blocks := make([]string, 0, len(state.Messages)+2)
	last := len(state.Messages) - 1
	for i, msg := range state.Messages {
		focused := NoOption
		if i == last {
			focused = state.FocusedOption
		}
		blocks = append(blocks, RenderMessage(f, msg, width, focused, state.ShowTimestamps))
	}
	if state.Pending != "" {
		blocks = append(blocks, RenderMessage(f, conversation.Message{
			Role:    conversation.RoleUser,
			Content: state.Pending,
		}, width, NoOption, false))
	}
	if state.Typing {
		blocks = append(blocks, RenderTyping(state.Spinner))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderMessage renders one bubble. User messages are right-aligned.
// Assistant messages go through the formatter; focused highlights one of
// their options.
func RenderMessage(f format.Formatter, msg conversation.Message, width, focused int, showTimestamp bool) string {
	bubbleWidth := int(float64(width) * maxBubbleRatio)
	if bubbleWidth < 20 {
		bubbleWidth = width
	}

	var body string
	if msg.IsUser() {
		body = styles.UserBubble.Width(bubbleWidth).Render(msg.Content)
		// Shrink short messages to fit their text.
		if w := lipgloss.Width(msg.Content) + 2; w < bubbleWidth {
			body = styles.UserBubble.Render(msg.Content)
		}
	} else {
		label := styles.Muted.Render(AssistantName)
		content := renderAssistantContent(f.Format(msg), bubbleWidth-2, focused)
		body = label + "\n" + styles.AssistantBubble.Width(bubbleWidth).Render(content)
	}

	if showTimestamp && msg.Timestamp != "" {
		body += "\n" + styles.Muted.Render(msg.Timestamp)
	}

	if msg.IsUser() {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, body)
	}
	return body
}

func renderAssistantContent(r format.Rendered, width, focused int) string {
	if r.Kind != format.KindOptions {
		return r.Text
	}

	var b strings.Builder
	if r.Intro != "" {
		b.WriteString(r.Intro)
		b.WriteString("\n\n")
	}
	for i, opt := range r.Options {
		b.WriteString(renderOptionLine(opt.Number, opt.Name, opt.Description, width, i == focused))
		b.WriteString("\n")
	}
	if r.ClosingQuestion != "" {
		b.WriteString("\n")
		b.WriteString(styles.Bold.Render(r.ClosingQuestion))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderOptionLine(number, name, description string, width int, focused bool) string {
	badge := styles.OptionNumber.Render(number)
	title := styles.OptionName.Render(name)
	if focused {
		title = styles.OptionSelected.Render("▸ " + name)
	}
	line := badge + " " + title
	if description == "" {
		return line
	}
	indent := lipgloss.Width(badge) + 1
	desc := lipgloss.NewStyle().
		Width(max(width-indent, 10)).
		Render(description)
	return line + "\n" + indentLines(desc, indent)
}

// RenderPlans renders plans the backend offered outside the message text.
func RenderPlans(plans []conversation.Plan, focused, width int) string {
	if len(plans) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.Bold.Render("Select a payment option:"))
	for i, plan := range plans {
		marker := "  "
		name := styles.OptionName.Render(plan.Name)
		if i == focused {
			marker = "▸ "
			name = styles.OptionSelected.Render(plan.Name)
		}
		line := marker + name
		if plan.Description != "" {
			line += styles.Muted.Render(": " + plan.Description)
		}
		b.WriteString("\n")
		b.WriteString(truncate(line, width))
	}
	return b.String()
}

func indentLines(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
