package view

import (
	"strings"

	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Phone entry texts.
const (
	PhonePrompt      = "Enter your phone number to start chat"
	PhonePlaceholder = "Enter phone number (e.g., +919876543210)"
	StartLabel       = "Start Chat"
	StartingLabel    = "Starting..."
)

// PhoneEntryState holds what the phone entry screen needs.
type PhoneEntryState struct {
	// Input is the rendered phone text input.
	Input string

	// Empty reports whether the phone field is blank, which disables the
	// start button.
	Empty bool

	Starting bool
	Error    string
	Width    int
	Height   int
}

// RenderPhoneEntry renders the screen shown before a session starts.
func RenderPhoneEntry(state PhoneEntryState) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(PhonePrompt))
	b.WriteString("\n")
	b.WriteString(styles.InputBoxFocused.Width(44).Render(state.Input))
	b.WriteString("\n\n")

	button := styles.OptionNumber.Padding(0, 2)
	label := StartLabel
	switch {
	case state.Starting:
		label = StartingLabel
		button = button.Background(styles.BorderColor)
	case state.Empty:
		button = button.Background(styles.BorderColor)
	}
	b.WriteString(button.Render(label))
	b.WriteString("  ")
	b.WriteString(styles.Muted.Render("press Enter"))

	if state.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(RenderError(state.Error, 0))
	}

	card := styles.Modal.Render(b.String())
	if state.Width <= 0 || state.Height <= 0 {
		return card
	}
	return lipgloss.Place(state.Width, state.Height, lipgloss.Center, lipgloss.Center, card)
}
