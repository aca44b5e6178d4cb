package view

import (
	"fmt"

	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/Iron-Ham/duechat/internal/util"
)

// Urgency returns the reminder urgency level for days past due.
func Urgency(daysPastDue int) string {
	switch {
	case daysPastDue >= 60:
		return styles.UrgencyCritical
	case daysPastDue >= 30:
		return styles.UrgencyHigh
	case daysPastDue >= 15:
		return styles.UrgencyMedium
	default:
		return styles.UrgencyLow
	}
}

// ReminderMessage returns the headline for an urgency level.
func ReminderMessage(urgency string) string {
	switch urgency {
	case styles.UrgencyCritical:
		return "Urgent: Payment overdue by 60+ days"
	case styles.UrgencyHigh:
		return "Important: Payment overdue by 30+ days"
	case styles.UrgencyMedium:
		return "Reminder: Payment overdue"
	default:
		return "Payment due"
	}
}

// ShowReminder reports whether the payment reminder applies: the customer
// is verified and owes a non-zero amount.
func ShowReminder(s *conversation.State) bool {
	return s != nil && s.IsVerified && s.OutstandingAmount != nil && *s.OutstandingAmount != 0
}

// RenderReminder renders the payment reminder, or "" when ShowReminder is
// false.
func RenderReminder(s *conversation.State, width int) string {
	if !ShowReminder(s) {
		return ""
	}

	urgency := Urgency(s.DaysPastDue)
	content := styles.UrgencyIcon(urgency) + " " + ReminderMessage(urgency) + "\n" +
		styles.Bold.Render(util.FormatINR(*s.OutstandingAmount))
	if s.DaysPastDue > 0 {
		content += "\n" + fmt.Sprintf("%d days past due", s.DaysPastDue)
	}

	style := styles.Reminder(urgency)
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}
