package engine

import (
	"context"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/selection"
)

// Suggester proposes raw category candidates for a transaction.
type Suggester interface {
	Suggest(ctx context.Context, txn model.Transaction, tree *catalog.Tree) ([]model.Candidate, error)
	Ping(ctx context.Context) error
	Model() string
}

// Selector runs one interactive selection session to completion. An error
// means the session could not be run at all and stops the whole run.
type Selector interface {
	Select(ctx context.Context, txn model.Transaction, m *selection.Machine) (model.SelectionOutcome, error)
}

// Reporter receives run progress for display.
type Reporter interface {
	RunStarted(total int, cfg Config)
	TransactionStarted(index, total int, txn model.Transaction)
	TransactionFinished(txn model.Transaction, outcome model.SelectionOutcome, err error)
	RunFinished(stats Stats)
}

type nopReporter struct{}

func (nopReporter) RunStarted(int, Config)                                              {}
func (nopReporter) TransactionStarted(int, int, model.Transaction)                      {}
func (nopReporter) TransactionFinished(model.Transaction, model.SelectionOutcome, error) {}
func (nopReporter) RunFinished(Stats)                                                   {}
