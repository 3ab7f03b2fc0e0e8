// Package service defines the contracts between the categorization engine
// and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/moneyspice/internal/model"
)

// FinanceApp is the personal-finance application that owns transactions
// and the category catalog.
type FinanceApp interface {
	Categories(ctx context.Context) ([]model.RawCategory, error)
	UncategorizedTransactions(ctx context.Context, from time.Time, to *time.Time) ([]model.Transaction, error)
	SetTransactionCategory(ctx context.Context, transactionID, categoryPath string) error
}

// SuggestionCache stores raw model candidates per transaction so a rerun does
// not ask the model again.
type SuggestionCache interface {
	GetSuggestions(ctx context.Context, transactionID string) ([]model.Candidate, error)
	SaveSuggestions(ctx context.Context, transactionID, modelName string, candidates []model.Candidate) error
	DeleteSuggestions(ctx context.Context, transactionID string) error
}

// DecisionLog records every applied selection outcome.
type DecisionLog interface {
	SaveDecision(ctx context.Context, d model.Decision) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
