package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
)

// MockSuggester is a test implementation of the Suggester interface.
// It returns deterministic candidates based on the transaction name.
type MockSuggester struct {
	PingErr    error
	SuggestErr error
	calls      []model.Transaction
	mu         sync.Mutex
}

// NewMockSuggester creates a new mock suggester.
func NewMockSuggester() *MockSuggester {
	return &MockSuggester{}
}

// Suggest proposes candidates from keywords in the transaction name.
func (m *MockSuggester) Suggest(_ context.Context, txn model.Transaction, _ *catalog.Tree) ([]model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, txn)

	if m.SuggestErr != nil {
		return nil, m.SuggestErr
	}

	name := strings.ToLower(txn.Name)
	switch {
	case strings.Contains(name, "starbucks") || strings.Contains(name, "coffee"):
		return []model.Candidate{
			mockCandidate(`Food & Dining\Coffee`, 0.92),
			mockCandidate(`Food & Dining\Restaurants`, 0.4),
		}, nil
	case strings.Contains(name, "rewe") || strings.Contains(name, "grocery"):
		return []model.Candidate{mockCandidate("Groceries", 0.9)}, nil
	case strings.Contains(name, "shell") || strings.Contains(name, "aral"):
		return []model.Candidate{mockCandidate(`Transportation\Fuel`, 0.88)}, nil
	default:
		return nil, nil
	}
}

// Ping reports PingErr.
func (m *MockSuggester) Ping(context.Context) error {
	return m.PingErr
}

// Model returns a fixed model name.
func (m *MockSuggester) Model() string {
	return "mock-model"
}

// Calls returns the transactions Suggest was asked about.
func (m *MockSuggester) Calls() []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Transaction(nil), m.calls...)
}

func mockCandidate(text string, confidence float64) model.Candidate {
	return model.Candidate{RawText: text, Confidence: &confidence}
}
