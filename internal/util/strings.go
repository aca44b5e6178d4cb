// Package util provides text helpers shared by the TUI renderers.
package util

import (
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// This function properly handles ANSI escape codes and wide characters, making it
// suitable for terminal output with styling.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, "...")
}

// Initial returns the upper-cased first letter of name, or fallback when
// name has no letters.
func Initial(name, fallback string) string {
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return fallback
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders a whole-rupee amount with Indian digit grouping and
// no decimals, e.g. ₹1,50,000.
func FormatINR(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-₹" + inrPrinter.Sprintf("%d", -rounded)
	}
	return "₹" + inrPrinter.Sprintf("%d", rounded)
}
