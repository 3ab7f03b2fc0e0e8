// Package engine runs a categorization session: it loads the catalog and the
// uncategorized transactions, gathers suggestions, lets the user decide and
// applies every decision.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/match"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/search"
	"github.com/Veraticus/moneyspice/internal/selection"
	"github.com/Veraticus/moneyspice/internal/service"
)

// ErrNoSuggestions fails a test-mode run whose transaction got no usable
// suggestion.
var ErrNoSuggestions = errors.New("no valid suggestions for test transaction")

// Config holds configuration options for a run.
type Config struct {
	FromDate  time.Time
	ToDate    *time.Time
	Match     match.Config
	Search    search.Config
	Selection selection.Config
	DryRun    bool
	TestMode  bool
	UseCache  bool
}

// DefaultConfig returns the default configuration: the last 30 days, with
// the suggestion cache enabled.
func DefaultConfig() Config {
	return Config{
		FromDate:  time.Now().AddDate(0, 0, -30),
		Match:     match.DefaultConfig(),
		Search:    search.DefaultConfig(),
		Selection: selection.DefaultConfig(),
		UseCache:  true,
	}
}

// Stats summarizes a run.
type Stats struct {
	Duration    time.Duration
	Total       int
	Processed   int
	Categorized int
	Skipped     int
	Errors      int
	Quit        bool
}

// SuccessRate returns categorized transactions as a percentage of processed
// ones.
func (s Stats) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Categorized) / float64(s.Processed) * 100
}

// Engine orchestrates a categorization run.
type Engine struct {
	app       service.FinanceApp
	suggester Suggester
	selector  Selector
	cache     service.SuggestionCache
	decisions service.DecisionLog
	reporter  Reporter
	logger    *slog.Logger
	cfg       Config
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache enables the suggestion cache.
func WithCache(c service.SuggestionCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithDecisionLog records every applied outcome.
func WithDecisionLog(d service.DecisionLog) Option {
	return func(e *Engine) { e.decisions = d }
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with the given dependencies.
func New(app service.FinanceApp, suggester Suggester, selector Selector, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		app:       app,
		suggester: suggester,
		selector:  selector,
		reporter:  nopReporter{},
		logger:    slog.Default(),
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes the uncategorized transactions in the configured window.
// A Quit outcome or context cancellation stops the run without an error.
func (e *Engine) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	var stats Stats

	tree, err := e.loadCatalog(ctx)
	if err != nil {
		return stats, err
	}

	if err := e.suggester.Ping(ctx); err != nil {
		return stats, err
	}

	transactions, err := e.app.UncategorizedTransactions(ctx, e.cfg.FromDate, e.cfg.ToDate)
	if err != nil {
		return stats, fmt.Errorf("failed to load transactions: %w", err)
	}
	transactions = slices.DeleteFunc(transactions, func(t model.Transaction) bool {
		return !t.Uncategorized()
	})
	if len(transactions) == 0 {
		e.logger.Info("No uncategorized transactions found",
			"from", e.cfg.FromDate.Format(time.DateOnly))
		if e.cfg.TestMode {
			return stats, common.ErrNoTransactions
		}
		return stats, nil
	}
	if e.cfg.TestMode {
		transactions = transactions[:1]
	}

	stats.Total = len(transactions)
	e.logger.Info("Starting categorization",
		"transactions", stats.Total,
		"categories", tree.Len(),
		"model", e.suggester.Model(),
		"dry_run", e.cfg.DryRun,
		"test_mode", e.cfg.TestMode)
	e.reporter.RunStarted(stats.Total, e.cfg)

	resolver := match.NewResolver(tree, e.cfg.Match)
	searcher := search.NewEngine(tree, e.cfg.Search)
	selCfg := e.cfg.Selection
	if selCfg.MinQueryLength <= 0 {
		selCfg.MinQueryLength = searcher.MinQueryLength()
	}

	for i, txn := range transactions {
		if ctx.Err() != nil {
			stats.Quit = true
			break
		}

		e.reporter.TransactionStarted(i+1, stats.Total, txn)

		suggestions := resolver.BuildSet(e.candidates(ctx, txn, tree))
		if e.cfg.TestMode && len(suggestions) == 0 {
			stats.Errors++
			e.finish(&stats, start)
			return stats, fmt.Errorf("%w: transaction %s", ErrNoSuggestions, txn.ID)
		}

		machine := selection.New(suggestions, searcher, selCfg)
		outcome, err := e.selector.Select(ctx, txn, machine)
		if err != nil {
			e.finish(&stats, start)
			return stats, fmt.Errorf("selection failed for transaction %s: %w", txn.ID, err)
		}

		applyErr := e.apply(ctx, txn, machine, outcome, &stats)
		e.reporter.TransactionFinished(txn, outcome, applyErr)
		if outcome.Kind == model.OutcomeQuit {
			stats.Quit = true
			break
		}
	}

	e.finish(&stats, start)
	return stats, nil
}

func (e *Engine) finish(stats *Stats, start time.Time) {
	stats.Duration = time.Since(start)
	e.logger.Info("Categorization finished",
		"processed", stats.Processed,
		"categorized", stats.Categorized,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"quit", stats.Quit,
		"duration", stats.Duration)
	e.reporter.RunFinished(*stats)
}

func (e *Engine) loadCatalog(ctx context.Context) (*catalog.Tree, error) {
	raw, err := e.app.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	tree, err := catalog.Build(raw)
	if err != nil {
		return nil, err
	}
	if tree.Len() == 0 {
		return nil, common.ErrNoCategories
	}
	return tree, nil
}

// candidates returns cached candidates when allowed, otherwise asks the
// suggester. A failing suggester yields no candidates; the user can still
// search.
func (e *Engine) candidates(ctx context.Context, txn model.Transaction, tree *catalog.Tree) []model.Candidate {
	if e.cache != nil && e.cfg.UseCache {
		cached, err := e.cache.GetSuggestions(ctx, txn.ID)
		switch {
		case err == nil:
			e.logger.Debug("Using cached suggestions", "transaction_id", txn.ID, "count", len(cached))
			return cached
		case !errors.Is(err, common.ErrNotFound):
			e.logger.Warn("Failed to read suggestion cache", "transaction_id", txn.ID, "error", err)
		}
	}

	fresh, err := e.suggester.Suggest(ctx, txn, tree)
	if err != nil {
		common.LogError(e.logger, err, "Failed to get suggestions", common.Fields{"transaction_id": txn.ID})
		return nil
	}

	if e.cache != nil && len(fresh) > 0 {
		if err := e.cache.SaveSuggestions(ctx, txn.ID, e.suggester.Model(), fresh); err != nil {
			e.logger.Warn("Failed to cache suggestions", "transaction_id", txn.ID, "error", err)
		}
	}
	return fresh
}

func (e *Engine) apply(ctx context.Context, txn model.Transaction, m *selection.Machine, outcome model.SelectionOutcome, stats *Stats) error {
	decision := model.Decision{
		DecidedAt:     time.Now(),
		TransactionID: txn.ID,
		Outcome:       outcome.Kind,
		DryRun:        e.cfg.DryRun,
	}

	switch outcome.Kind {
	case model.OutcomeSkipped:
		stats.Processed++
		stats.Skipped++
	case model.OutcomeAccepted:
		stats.Processed++
		decision.CategoryID = outcome.Category.ID
		decision.CategoryPath = outcome.Category.FullPath()
		decision.Stage = stageOf(m, outcome.Category)

		if !e.cfg.DryRun {
			// Write-back needs a context that survives a late interrupt.
			if err := e.app.SetTransactionCategory(context.WithoutCancel(ctx), txn.ID, decision.CategoryPath); err != nil {
				stats.Errors++
				common.LogError(e.logger, err, "Failed to apply category", common.Fields{
					"transaction_id": txn.ID,
					"category":       decision.CategoryPath,
				})
				return err
			}
			e.forget(ctx, txn.ID)
		}
		stats.Categorized++
	case model.OutcomeQuit:
	}

	if e.decisions != nil {
		if err := e.decisions.SaveDecision(context.WithoutCancel(ctx), decision); err != nil {
			e.logger.Warn("Failed to record decision", "transaction_id", txn.ID, "error", err)
		}
	}
	return nil
}

func (e *Engine) forget(ctx context.Context, transactionID string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.DeleteSuggestions(context.WithoutCancel(ctx), transactionID); err != nil {
		e.logger.Debug("Failed to drop cached suggestions", "transaction_id", transactionID, "error", err)
	}
}

// stageOf reports how an accepted category was matched; zero means it came
// from search.
func stageOf(m *selection.Machine, c model.Category) model.MatchStage {
	for _, s := range m.Suggestions() {
		if s.Category.ID == c.ID {
			return s.Stage
		}
	}
	return 0
}
