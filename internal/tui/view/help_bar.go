package view

import (
	"strings"

	"github.com/Iron-Ham/duechat/internal/tui/styles"
)

// Mode is the input mode the help bar describes.
type Mode int

const (
	ModePhone Mode = iota
	ModeChat
	ModeFeedback
	ModeUpload
)

// HelpBarState holds the state needed to render the help bar.
type HelpBarState struct {
	Mode Mode

	// Busy indicates a request is in flight
	Busy bool

	// HasChoices indicates the latest message offers selectable options
	HasChoices bool

	// CanUpload indicates the screenshot upload is offered
	CanUpload bool

	// Complete indicates the call is over and can be rated
	Complete bool
}

// RenderHelp renders the key hints for the current mode.
func RenderHelp(state *HelpBarState) string {
	if state == nil {
		return ""
	}

	var keys []string
	switch state.Mode {
	case ModePhone:
		keys = []string{
			styles.HelpKey.Render("[Enter]") + " start chat",
			styles.HelpKey.Render("[Ctrl+C]") + " quit",
		}
	case ModeFeedback:
		keys = []string{
			styles.HelpKey.Render("[1-5/←→]") + " rate",
			styles.HelpKey.Render("[Tab]") + " comment",
			styles.HelpKey.Render("[Enter]") + " submit",
			styles.HelpKey.Render("[Esc]") + " cancel",
		}
	case ModeUpload:
		keys = []string{
			styles.HelpKey.Render("[Enter]") + " upload",
			styles.HelpKey.Render("[Esc]") + " cancel",
		}
	default:
		if state.Busy {
			keys = append(keys, styles.Warning.Bold(true).Render("WAITING"))
		} else {
			keys = append(keys, styles.HelpKey.Render("[Enter]")+" send")
		}
		keys = append(keys, styles.HelpKey.Render("[Tab]")+" quick replies")
		if state.HasChoices {
			keys = append(keys, styles.HelpKey.Render("[↑/↓]")+" options")
		}
		keys = append(keys, styles.HelpKey.Render("[PgUp/PgDn]")+" scroll")
		if state.CanUpload {
			keys = append(keys, styles.HelpKey.Render("[Ctrl+U]")+" screenshot")
		}
		if state.Complete {
			keys = append(keys, styles.HelpKey.Render("[r]")+" rate")
		}
		keys = append(keys,
			styles.HelpKey.Render("[Ctrl+R]")+" reset",
			styles.HelpKey.Render("[Ctrl+C]")+" quit",
		)
	}

	return styles.HelpBar.Render(strings.Join(keys, "  "))
}
