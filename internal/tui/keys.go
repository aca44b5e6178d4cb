package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the key bindings of every screen.
type keyMap struct {
	Quit        key.Binding
	Reload      key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	ToggleFocus key.Binding
	Left        key.Binding
	Right       key.Binding
	OptionUp    key.Binding
	OptionDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Upload      key.Binding
	Rate        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Reload:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		ToggleFocus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "quick replies")),
		Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		OptionUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous option")),
		OptionDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next option")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Upload:      key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "screenshot")),
		Rate:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rate")),
	}
}
