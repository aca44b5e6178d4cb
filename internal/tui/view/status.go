package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// RenderTyping renders the assistant typing indicator with a spinner frame.
func RenderTyping(spinner string) string {
	return styles.Muted.Render(AssistantName) + "\n" +
		styles.AssistantBubble.Render(spinner+" "+styles.Muted.Render("typing..."))
}

// RenderCompletion renders the banner shown once the call is complete.
func RenderCompletion(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"✓ Call Completed",
		styles.Muted.Render("Thank you for using our service"),
		"",
		styles.HelpKey.Render("[r]")+" Rate Conversation",
	)
	banner := styles.Banner.Render(content)
	if width <= 0 {
		return banner
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, banner)
}

// RenderError renders the transient error line, "" when msg is empty.
func RenderError(msg string, width int) string {
	if msg == "" {
		return ""
	}
	line := styles.ErrorLine.Render("✗ " + msg)
	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(line)
	}
	return line
}

// RenderFallback renders the screen shown after a rendering panic. The
// only way out is a full reload.
func RenderFallback(recovered any, width int) string {
	var b strings.Builder
	b.WriteString(styles.ErrorLine.Render("Something went wrong"))
	b.WriteString("\n\n")
	b.WriteString("An error occurred. Press ")
	b.WriteString(styles.HelpKey.Render("ctrl+r"))
	b.WriteString(" to reload and try again.")
	if recovered != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render(fmt.Sprintf("Details: %v", recovered)))
	}

	style := styles.Modal
	if width > 8 {
		style = style.Width(min(width-4, 60))
	}
	return style.Render(b.String())
}

// RenderUploadHint tells the user a payment screenshot can be attached.
func RenderUploadHint() string {
	return styles.Muted.Render("Already paid? Press ") +
		styles.HelpKey.Render("ctrl+u") +
		styles.Muted.Render(" to upload a payment screenshot")
}

// RenderUploadPrompt renders the file path prompt of the screenshot upload.
func RenderUploadPrompt(input string, uploading bool, width int) string {
	title := styles.Bold.Render("Upload payment screenshot")
	body := input
	if uploading {
		body = styles.Muted.Render("Uploading...")
	}
	style := styles.InputBoxFocused
	if width > 4 {
		style = style.Width(width - 4)
	}
	return title + "\n" + style.Render(body)
}
