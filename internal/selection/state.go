// Package selection implements the interactive choice between suggested
// categories, a catalog search, skipping and quitting. The transition
// function is pure; blocking key reads live in Drive.
package selection

import (
	"github.com/Veraticus/moneyspice/internal/model"
)

// Mode is the state machine's current screen.
type Mode int

// Modes.
const (
	ModeShowSuggestions Mode = iota
	ModeSearchInput
	ModeSearchResults
	ModeTerminated
)

func (m Mode) String() string {
	switch m {
	case ModeShowSuggestions:
		return "suggestions"
	case ModeSearchInput:
		return "search-input"
	case ModeSearchResults:
		return "search-results"
	case ModeTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// User-visible notices.
const (
	NoticeNoSuggestions = "no suggestions available, search manually"
	NoticeNoResults     = "no results for that search, try a different query"
	NoticeQueryTooShort = "type at least %d characters to search"
)

// State is an immutable snapshot of one selection session. Slices held by a
// State are never modified after it is produced.
type State struct {
	Notice  string
	Query   string
	Preview []model.Category // live results while typing
	Results []model.Category // results of the completed query
	Mode    Mode
}

// Terminated reports whether no further transitions are possible.
func (s State) Terminated() bool {
	return s.Mode == ModeTerminated
}

// EventKind distinguishes keystrokes from loss of input.
type EventKind int

// Event kinds.
const (
	EventKey EventKind = iota
	EventInterrupt
	EventEndOfInput
)

// Event is one input to the state machine.
type Event struct {
	Key  rune
	Kind EventKind
}

// Key wraps a keystroke.
func Key(r rune) Event {
	return Event{Kind: EventKey, Key: r}
}

// Interrupt signals that the run is being aborted.
func Interrupt() Event {
	return Event{Kind: EventInterrupt}
}

// EndOfInput signals that the key source is exhausted.
func EndOfInput() Event {
	return Event{Kind: EventEndOfInput}
}

// Control keys understood by the machine.
const (
	KeyCtrlC     rune = 0x03
	KeyCtrlD     rune = 0x04
	KeyBackspace rune = 0x7f
	KeyCtrlH     rune = 0x08
	KeyEnter     rune = '\r'
	KeyNewline   rune = '\n'
	KeyEsc       rune = 0x1b
)
