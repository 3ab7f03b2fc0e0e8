// Package tui runs selection sessions as bubbletea programs.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/selection"
	"github.com/Veraticus/moneyspice/internal/tui/themes"
)

// Position locates a transaction within the run.
type Position struct {
	Index int
	Total int
}

// Model is the bubbletea model of one selection session.
type Model struct {
	machine  *selection.Machine
	outcome  *model.SelectionOutcome
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	input    textinput.Model
	txn      model.Transaction
	pos      Position
	state    selection.State
	width    int
	quitting bool
}

// NewModel creates a session model over a fresh machine.
func NewModel(m *selection.Machine, txn model.Transaction, pos Position, theme themes.Theme) Model {
	input := textinput.New()
	input.Prompt = "🔍 "
	input.Placeholder = "category name"
	input.CharLimit = 64

	return Model{
		machine: m,
		theme:   theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		input:   input,
		txn:     txn,
		pos:     pos,
		state:   m.Initial(),
		width:   80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Every key goes through the selection
// machine; the text input only mirrors the query.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		for _, r := range keysOf(msg) {
			if m.step(selection.Key(r)) {
				return m, tea.Quit
			}
		}
		return m, nil
	}
	return m, nil
}

// step applies one event and reports whether the session ended.
func (m *Model) step(ev selection.Event) bool {
	next, outcome := m.machine.Step(m.state, ev)
	m.state = next
	m.syncInput()
	if outcome != nil {
		m.outcome = outcome
		m.quitting = true
		return true
	}
	return false
}

func (m *Model) syncInput() {
	if m.state.Mode == selection.ModeSearchInput {
		m.input.Focus()
		m.input.SetValue(m.state.Query)
		m.input.CursorEnd()
		return
	}
	m.input.Blur()
	m.input.Reset()
}

// Outcome returns the session outcome; sessions that ended without one
// count as Quit.
func (m Model) Outcome() model.SelectionOutcome {
	if m.outcome == nil {
		return model.Quit()
	}
	return *m.outcome
}

// State returns the current selection state.
func (m Model) State() selection.State {
	return m.state
}
