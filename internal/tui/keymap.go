package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/moneyspice/internal/selection"
)

// KeyMap lists the shortcuts shown in the help line. The selection machine
// interprets the keys; these bindings only document them.
type KeyMap struct {
	Accept    key.Binding
	Search    key.Binding
	Skip      key.Binding
	Submit    key.Binding
	Back      key.Binding
	NewSearch key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Accept: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
			key.WithHelp("1-9", "accept"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "r"),
			key.WithHelp("esc/r", "suggestions"),
		),
		NewSearch: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "new search"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns the bindings relevant to a mode.
func (k KeyMap) ShortHelp(mode selection.Mode) []key.Binding {
	switch mode {
	case selection.ModeShowSuggestions:
		return []key.Binding{k.Accept, k.Search, k.Skip, k.Quit}
	case selection.ModeSearchInput:
		return []key.Binding{k.Submit, k.Back, k.ForceQuit}
	case selection.ModeSearchResults:
		return []key.Binding{k.Accept, k.NewSearch, k.Back, k.Quit}
	default:
		return nil
	}
}

// keysOf translates a bubbletea key message into the runes the selection
// machine understands. Pasted text yields several runes.
func keysOf(msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyRunes:
		return msg.Runes
	case tea.KeySpace:
		return []rune{' '}
	case tea.KeyEnter:
		return []rune{selection.KeyEnter}
	case tea.KeyBackspace:
		return []rune{selection.KeyBackspace}
	case tea.KeyEsc:
		return []rune{selection.KeyEsc}
	case tea.KeyCtrlC:
		return []rune{selection.KeyCtrlC}
	case tea.KeyCtrlD:
		return []rune{selection.KeyCtrlD}
	default:
		return nil
	}
}
