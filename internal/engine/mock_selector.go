package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/selection"
)

// MockSelector is a test implementation of the Selector interface. It
// replays scripted keys through the selection machine.
type MockSelector struct {
	scripts  map[string]string
	fallback string
	calls    []MockSelectCall
	mu       sync.Mutex
}

// MockSelectCall records one selection session.
type MockSelectCall struct {
	Suggestions []model.ValidatedSuggestion
	Transaction model.Transaction
	Outcome     model.SelectionOutcome
}

// NewMockSelector creates a selector that types fallback for every
// transaction without its own script.
func NewMockSelector(fallback string) *MockSelector {
	return &MockSelector{
		scripts:  make(map[string]string),
		fallback: fallback,
	}
}

// SetScript sets the keys typed for one transaction.
func (m *MockSelector) SetScript(transactionID, keys string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[transactionID] = keys
}

// Select drives the machine with the scripted keys.
func (m *MockSelector) Select(ctx context.Context, txn model.Transaction, machine *selection.Machine) (model.SelectionOutcome, error) {
	m.mu.Lock()
	keys, ok := m.scripts[txn.ID]
	if !ok {
		keys = m.fallback
	}
	m.mu.Unlock()

	outcome := selection.Drive(ctx, machine, selection.Script(keys), nil)

	m.mu.Lock()
	m.calls = append(m.calls, MockSelectCall{
		Transaction: txn,
		Suggestions: machine.Suggestions(),
		Outcome:     outcome,
	})
	m.mu.Unlock()
	return outcome, nil
}

// Calls returns the recorded sessions.
func (m *MockSelector) Calls() []MockSelectCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockSelectCall(nil), m.calls...)
}
