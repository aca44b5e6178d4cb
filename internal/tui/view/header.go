package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/tui/styles"
	"github.com/Iron-Ham/duechat/internal/util"
	"github.com/charmbracelet/lipgloss"
)

// Header fallbacks for fields the backend has not filled in yet.
const (
	DefaultInitial      = "C"
	DefaultCustomerName = "Customer"
	DefaultAccount      = "N/A"
)

// RenderHeader renders the customer header. A nil state renders the
// placeholders.
func RenderHeader(s *conversation.State, width int) string {
	var st conversation.State
	if s != nil {
		st = *s
	}

	name := st.CustomerName
	if name == "" {
		name = DefaultCustomerName
	}
	account := st.LoanID
	if account == "" {
		account = DefaultAccount
	}

	avatar := styles.Avatar.Render(util.Initial(st.CustomerName, DefaultInitial))
	identity := lipgloss.JoinVertical(lipgloss.Left,
		styles.Bold.Render(name),
		styles.Muted.Render("Account "+account),
	)
	top := lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", identity)

	var amount float64
	if st.OutstandingAmount != nil {
		amount = *st.OutstandingAmount
	}
	figures := []string{labelled("Outstanding Amount", styles.Bold.Render(util.FormatINR(amount)))}
	if st.DaysPastDue > 0 {
		days := lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.DaysPastDueColor(st.DaysPastDue)).
			Render(fmt.Sprintf("%d days", st.DaysPastDue))
		figures = append(figures, "   ", labelled("Days Past Due", days))
	}
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, figures...)

	content := truncateBlock(top, width) + "\n\n" + truncateBlock(bottom, width)
	if width > 0 {
		return styles.Header.Width(width).Render(content)
	}
	return styles.Header.Render(content)
}

func labelled(label, value string) string {
	return lipgloss.JoinVertical(lipgloss.Left, styles.Muted.Render(label), value)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return util.TruncateANSI(s, width)
}

func truncateBlock(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = util.TruncateANSI(line, width)
	}
	return strings.Join(lines, "\n")
}
