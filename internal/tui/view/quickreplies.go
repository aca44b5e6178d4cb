package view

import (
	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// QuickReply is a one-key canned message. Action is the text sent to the
// backend.
type QuickReply struct {
	Label  string
	Action string
}

// Quick reply actions understood by the backend.
const (
	ActionPaymentOptions  = "payment_options"
	ActionAccountDetails  = "account_details"
	ActionRequestCallback = "request_callback"
	ActionNeedHelp        = "need_help"
)

// DefaultQuickReplies lists the chips in display order.
var DefaultQuickReplies = []QuickReply{
	{Label: "Payment", Action: ActionPaymentOptions},
	{Label: "Account", Action: ActionAccountDetails},
	{Label: "Callback", Action: ActionRequestCallback},
	{Label: "Help", Action: ActionNeedHelp},
}

// VisibleQuickReplies returns the chips to show. The Payment chip is
// hidden unless showPayment is set.
func VisibleQuickReplies(showPayment bool) []QuickReply {
	replies := make([]QuickReply, 0, len(DefaultQuickReplies))
	for _, qr := range DefaultQuickReplies {
		if qr.Action == ActionPaymentOptions && !showPayment {
			continue
		}
		replies = append(replies, qr)
	}
	return replies
}

// RenderQuickReplies renders the chips on one row. focused is the index of
// the chip with keyboard focus, NoOption for none. Disabled chips are
// dimmed and never focused.
func RenderQuickReplies(replies []QuickReply, focused int, disabled bool) string {
	if len(replies) == 0 {
		return ""
	}
	chips := make([]string, 0, 2*len(replies))
	for i, qr := range replies {
		style := styles.QuickReply
		switch {
		case disabled:
			style = styles.QuickReplyDisabled
		case i == focused:
			style = styles.QuickReplyFocused
		}
		if i > 0 {
			chips = append(chips, " ")
		}
		chips = append(chips, style.Render(qr.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}
