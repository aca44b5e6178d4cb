package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple (violet-400)
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red (red-400)
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray (gray-500)

	BlueColor   = lipgloss.Color("#60A5FA") // Blue
	YellowColor = lipgloss.Color("#FBBF24") // Yellow
	OrangeColor = lipgloss.Color("#FB923C") // Orange

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Surface   = lipgloss.NewStyle().Background(SurfaceColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)
	Bold      = lipgloss.NewStyle().Bold(true)
)

// Base styles
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(PrimaryColor).
	MarginBottom(1)

var Subtitle = lipgloss.NewStyle().
	Foreground(MutedColor).
	Italic(true)

// Header bar with customer and account details.
var Header = lipgloss.NewStyle().
	Foreground(TextColor).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(BorderColor).
	PaddingBottom(1)

// Avatar is the customer-initial badge.
var Avatar = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextColor).
	Background(PrimaryColor).
	Padding(0, 1)

// Message bubbles
var UserBubble = lipgloss.NewStyle().
	Foreground(TextColor).
	Background(PrimaryColor).
	Padding(0, 1)

var AssistantBubble = lipgloss.NewStyle().
	Foreground(TextColor).
	Background(SurfaceColor).
	Padding(0, 1)

// Options block inside an assistant message
var OptionNumber = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextColor).
	Background(PrimaryColor).
	Padding(0, 1)

var OptionName = lipgloss.NewStyle().
	Bold(true).
	Foreground(PrimaryColor)

var OptionSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(SurfaceColor).
	Background(SecondaryColor)

// Quick reply chips
var QuickReply = lipgloss.NewStyle().
	Foreground(PrimaryColor).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(BorderColor).
	Padding(0, 1)

var QuickReplyFocused = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextColor).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(PrimaryColor).
	Padding(0, 1)

var QuickReplyDisabled = lipgloss.NewStyle().
	Foreground(MutedColor).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(SurfaceColor).
	Padding(0, 1)

// Input box
var InputBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(BorderColor).
	Padding(0, 1)

var InputBoxFocused = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(PrimaryColor).
	Padding(0, 1)

// Banner shown when the call is complete
var Banner = lipgloss.NewStyle().
	Bold(true).
	Foreground(SecondaryColor).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(SecondaryColor).
	Padding(0, 2)

// Modal dialog
var Modal = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(PrimaryColor).
	Padding(1, 2)

// Error line
var ErrorLine = lipgloss.NewStyle().
	Foreground(ErrorColor).
	Bold(true)

// Help bar
var HelpBar = lipgloss.NewStyle().
	Foreground(MutedColor).
	MarginTop(1)

var HelpKey = lipgloss.NewStyle().
	Bold(true).
	Foreground(SecondaryColor)

// Urgency levels of the payment reminder.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// UrgencyColor returns the color for a reminder urgency level.
func UrgencyColor(urgency string) lipgloss.Color {
	switch urgency {
	case UrgencyCritical:
		return ErrorColor
	case UrgencyHigh:
		return OrangeColor
	case UrgencyMedium:
		return YellowColor
	case UrgencyLow:
		return BlueColor
	default:
		return MutedColor
	}
}

// UrgencyIcon returns the icon for a reminder urgency level.
func UrgencyIcon(urgency string) string {
	switch urgency {
	case UrgencyCritical:
		return "⚠"
	case UrgencyHigh:
		return "!"
	case UrgencyMedium:
		return "⏱"
	default:
		return "ℹ"
	}
}

// Reminder returns the bordered reminder box style for an urgency level.
func Reminder(urgency string) lipgloss.Style {
	color := UrgencyColor(urgency)
	return lipgloss.NewStyle().
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
}

// DaysPastDueColor colors the overdue counter: red from 30 days, orange
// from 15, muted below.
func DaysPastDueColor(days int) lipgloss.Color {
	switch {
	case days >= 30:
		return ErrorColor
	case days >= 15:
		return OrangeColor
	default:
		return MutedColor
	}
}
