package selection

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/moneyspice/internal/model"
)

// Searcher ranks catalog categories for a query.
type Searcher interface {
	Search(query string) ([]model.Category, error)
}

// Config holds selection parameters.
type Config struct {
	// MinQueryLength is the query length, in runes, at which live search
	// starts and below which a query cannot be completed.
	MinQueryLength int
}

// DefaultConfig returns the default selection configuration.
func DefaultConfig() Config {
	return Config{MinQueryLength: 2}
}

// Machine drives one transaction's selection. Create a new one for every
// transaction.
type Machine struct {
	searcher    Searcher
	suggestions []model.ValidatedSuggestion
	cfg         Config
}

// New creates a machine over a suggestion set, which may be empty.
func New(suggestions []model.ValidatedSuggestion, searcher Searcher, cfg Config) *Machine {
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = DefaultConfig().MinQueryLength
	}
	return &Machine{
		searcher:    searcher,
		suggestions: suggestions,
		cfg:         cfg,
	}
}

// Suggestions returns the suggestion set the machine was created with.
func (m *Machine) Suggestions() []model.ValidatedSuggestion {
	return m.suggestions
}

// Initial returns the starting state.
func (m *Machine) Initial() State {
	s := State{Mode: ModeShowSuggestions}
	if len(m.suggestions) == 0 {
		s.Notice = NoticeNoSuggestions
	}
	return s
}

// Step applies one event. It returns the next state and, when the session
// ends, the outcome. Unrecognized keys leave the state unchanged.
func (m *Machine) Step(s State, ev Event) (State, *model.SelectionOutcome) {
	if s.Mode == ModeTerminated {
		return s, nil
	}
	if ev.Kind != EventKey || ev.Key == KeyCtrlC || ev.Key == KeyCtrlD {
		return terminate(model.Quit())
	}

	switch s.Mode {
	case ModeShowSuggestions:
		return m.stepSuggestions(s, ev.Key)
	case ModeSearchInput:
		return m.stepSearchInput(s, ev.Key)
	case ModeSearchResults:
		return m.stepSearchResults(s, ev.Key)
	default:
		return s, nil
	}
}

// choice maps 1-9 to indexes 0-8 and 0 to 9, or returns -1.
func choice(key rune) int {
	switch {
	case key >= '1' && key <= '9':
		return int(key - '1')
	case key == '0':
		return 9
	default:
		return -1
	}
}

func (m *Machine) stepSuggestions(s State, key rune) (State, *model.SelectionOutcome) {
	switch unicode.ToLower(key) {
	case 'q':
		return terminate(model.Quit())
	case 'n':
		return terminate(model.Skipped())
	case 's':
		return State{Mode: ModeSearchInput}, nil
	}
	if idx := choice(key); idx >= 0 && idx < len(m.suggestions) {
		return terminate(model.Accepted(m.suggestions[idx].Category))
	}
	return s, nil
}

func (m *Machine) stepSearchInput(s State, key rune) (State, *model.SelectionOutcome) {
	// q only quits before anything has been typed; afterwards it is text.
	if key == 'q' && s.Query == "" {
		return terminate(model.Quit())
	}
	switch key {
	case KeyEsc:
		return m.Initial(), nil
	case KeyEnter, KeyNewline:
		return m.complete(s), nil
	case KeyBackspace, KeyCtrlH:
		if s.Query == "" {
			return s, nil
		}
		_, size := utf8.DecodeLastRuneInString(s.Query)
		return m.typed(s.Query[:len(s.Query)-size]), nil
	}
	if !unicode.IsPrint(key) {
		return s, nil
	}
	return m.typed(s.Query + string(key)), nil
}

func (m *Machine) stepSearchResults(s State, key rune) (State, *model.SelectionOutcome) {
	switch unicode.ToLower(key) {
	case 'q':
		return terminate(model.Quit())
	case 'r', KeyEsc:
		return m.Initial(), nil
	case 'b', 's':
		return State{Mode: ModeSearchInput}, nil
	}

	if idx := choice(key); idx >= 0 && idx < len(s.Results) {
		return terminate(model.Accepted(s.Results[idx]))
	}
	return s, nil
}

// typed produces the SearchInput state for a new buffer, refreshing the
// live preview once the query is long enough.
func (m *Machine) typed(query string) State {
	next := State{Mode: ModeSearchInput, Query: query}
	if m.longEnough(query) {
		next.Preview = m.search(query)
	}
	return next
}

func (m *Machine) complete(s State) State {
	if !m.longEnough(s.Query) {
		s.Notice = fmt.Sprintf(NoticeQueryTooShort, m.cfg.MinQueryLength)
		return s
	}
	results := m.search(s.Query)
	if len(results) == 0 {
		return State{Mode: ModeSearchInput, Query: s.Query, Notice: NoticeNoResults}
	}
	return State{Mode: ModeSearchResults, Query: s.Query, Results: results}
}

// search never fails from the user's point of view; errors read as no results.
func (m *Machine) search(query string) []model.Category {
	if m.searcher == nil {
		return nil
	}
	results, err := m.searcher.Search(query)
	if err != nil {
		return nil
	}
	out := make([]model.Category, 0, len(results))
	for _, c := range results {
		if c.Assignable() {
			out = append(out, c)
		}
	}
	return out
}

func (m *Machine) longEnough(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= m.cfg.MinQueryLength
}

func terminate(o model.SelectionOutcome) (State, *model.SelectionOutcome) {
	return State{Mode: ModeTerminated}, &o
}
