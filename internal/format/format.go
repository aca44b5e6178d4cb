// Package format turns assistant message text into something the TUI can
// render: either plain text, or an intro / numbered options / closing
// question block when the text reads like a payment-options offer.
//
// Detection is a heuristic over free text produced upstream. It can be
// swapped for structured server output by supplying another Formatter.
package format

import (
	"regexp"
	"strings"

	"github.com/Iron-Ham/duechat/internal/conversation"
)

// Kind distinguishes the two render shapes.
type Kind int

const (
	KindPlain Kind = iota
	KindOptions
)

// Option is one numbered payment option.
type Option struct {
	Number      string
	Name        string
	Description string
}

// Reply is the exact user message sent when the option is chosen.
func (o Option) Reply() string {
	return o.Number + ". " + o.Name
}

// Rendered is the result of formatting a message.
type Rendered struct {
	Kind Kind

	// Text is set for KindPlain, whitespace untouched.
	Text string

	// Intro, Options and ClosingQuestion are set for KindOptions.
	Intro           string
	Options         []Option
	ClosingQuestion string
}

// Formatter classifies and parses a message for display.
type Formatter interface {
	Format(msg conversation.Message) Rendered
}

var (
	numberedAnywhere = regexp.MustCompile(`\d+\.\s+.+?:\s+.+`)
	optionLine       = regexp.MustCompile(`^(\d+)\.\s+(.+?):\s+(.+)$`)
	emphasis         = strings.NewReplacer("**", "", "__", "", "*", "")
)

// DefaultTriggerPhrases mark a message as an options offer even without a
// numbered line. Matching is case-insensitive.
var DefaultTriggerPhrases = []string{
	"payment options",
	"here are some options",
	"which option works best",
	"which option would work",
	"choose an option",
	"kuch options",
	"kaunsa option",
}

// Heuristic is the regex and phrase based Formatter.
type Heuristic struct {
	Phrases []string
}

// New returns a Heuristic formatter using DefaultTriggerPhrases.
func New() *Heuristic {
	return &Heuristic{Phrases: DefaultTriggerPhrases}
}

// Format implements Formatter.
func (h *Heuristic) Format(msg conversation.Message) Rendered {
	plain := Rendered{Kind: KindPlain, Text: msg.Content}
	if !msg.IsAssistant() || !h.isOptions(msg.Content) {
		return plain
	}
	r := parseOptions(msg.Content)
	if len(r.Options) == 0 {
		return plain
	}
	return r
}

func (h *Heuristic) isOptions(text string) bool {
	if numberedAnywhere.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, phrase := range h.Phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func parseOptions(text string) Rendered {
	r := Rendered{Kind: KindOptions}
	var intro []string
	closingSet := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := optionLine.FindStringSubmatch(line); m != nil {
			r.Options = append(r.Options, Option{
				Number:      m[1],
				Name:        strings.TrimSpace(emphasis.Replace(m[2])),
				Description: strings.TrimSpace(m[3]),
			})
			continue
		}
		switch {
		case len(r.Options) == 0:
			intro = append(intro, line)
		case !closingSet:
			r.ClosingQuestion = line
			closingSet = true
		}
	}

	r.Intro = strings.Join(intro, " ")
	return r
}
