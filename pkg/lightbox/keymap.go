package lightbox

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/lightbox/pkg/dom"
)

// KeyMap holds the host key bindings.
type KeyMap struct {
	Close    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "activate"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Activate, k.Close, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Activate},
		{k.Close, k.Back, k.Quit},
	}
}

// KeyEvent converts a terminal key press into a document keydown event.
func KeyEvent(msg tea.KeyMsg) *dom.Event {
	switch msg.Type {
	case tea.KeyEsc:
		return dom.NewKeyEvent(dom.KeyEscape)
	case tea.KeyEnter:
		return dom.NewKeyEvent(dom.KeyEnter)
	case tea.KeyTab:
		return dom.NewKeyEvent(dom.KeyTab)
	case tea.KeyShiftTab:
		ev := dom.NewKeyEvent(dom.KeyTab)
		ev.Shift = true
		return ev
	case tea.KeySpace:
		return dom.NewKeyEvent(dom.KeySpace)
	case tea.KeyBackspace:
		return dom.NewKeyEvent(dom.KeyBackspace)
	default:
		return dom.NewKeyEvent(msg.String())
	}
}
