package view

import (
	"strings"

	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Feedback form messages.
const (
	RatingRequiredMessage  = "Please select a rating"
	FeedbackThanksMessage  = "Thank you for your feedback!"
	FeedbackFailedMessage  = "Failed to submit feedback. Please try again."
	FeedbackPromptQuestion = "How would you rate this conversation?"
)

// MaxRating is the highest star rating.
const MaxRating = 5

// FeedbackState holds the feedback modal fields.
type FeedbackState struct {
	// Rating is 0 until the user picks one.
	Rating int

	// Input is the rendered comment text input.
	Input string

	Submitting bool
	Success    bool
	Error      string
}

// RatingLabel returns the word shown under a star rating, "" for no rating.
func RatingLabel(rating int) string {
	switch rating {
	case 5:
		return "Excellent"
	case 4:
		return "Great"
	case 3:
		return "Good"
	case 2:
		return "Fair"
	case 1:
		return "Poor"
	default:
		return ""
	}
}

// Stars renders rating filled stars out of MaxRating.
func Stars(rating int) string {
	rating = max(0, min(rating, MaxRating))
	filled := lipgloss.NewStyle().Foreground(styles.YellowColor).Render(strings.Repeat("★", rating))
	empty := styles.Muted.Render(strings.Repeat("☆", MaxRating-rating))
	return filled + empty
}

// RenderFeedback renders the rating modal.
func RenderFeedback(state FeedbackState, width int) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Rate Your Experience"))
	b.WriteString("\n")
	b.WriteString(FeedbackPromptQuestion)
	b.WriteString("\n\n")
	b.WriteString(Stars(state.Rating))
	if label := RatingLabel(state.Rating); label != "" {
		b.WriteString("  ")
		b.WriteString(styles.Muted.Render(label))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("Additional Feedback (Optional)"))
	b.WriteString("\n")
	b.WriteString(state.Input)
	b.WriteString("\n\n")

	switch {
	case state.Success:
		b.WriteString(styles.Secondary.Bold(true).Render("✓ " + FeedbackThanksMessage))
	case state.Submitting:
		b.WriteString(styles.Muted.Render("Submitting..."))
	default:
		if state.Error != "" {
			b.WriteString(styles.ErrorLine.Render(state.Error))
			b.WriteString("\n")
		}
		b.WriteString(styles.HelpKey.Render("[1-5]") + " rate  " +
			styles.HelpKey.Render("[Enter]") + " Submit Feedback  " +
			styles.HelpKey.Render("[Esc]") + " Cancel")
	}

	style := styles.Modal
	if width > 8 {
		style = style.Width(min(width-4, 64))
	}
	return style.Render(b.String())
}
