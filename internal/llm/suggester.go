package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/service"
)

// Suggester produces raw category candidates for transactions.
type Suggester struct {
	client         Client
	limiter        *rate.Limiter
	logger         *slog.Logger
	retryOpts      service.RetryOptions
	numSuggestions int
}

// NewSuggester wraps a provider client.
func NewSuggester(client Client, cfg Config, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	d := DefaultConfig()

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts <= 0 {
		retryOpts.MaxAttempts = d.MaxRetries
	}
	if retryOpts.InitialDelay <= 0 {
		retryOpts.InitialDelay = d.RetryDelay
	}
	n := cfg.NumSuggestions
	if n <= 0 {
		n = d.NumSuggestions
	}

	return &Suggester{
		client:         client,
		limiter:        newRateLimiter(cfg.RateLimit),
		logger:         logger,
		retryOpts:      retryOpts,
		numSuggestions: n,
	}
}

// Model returns the model name reported by the provider.
func (s *Suggester) Model() string {
	return s.client.Model()
}

// Ping checks the provider before a run starts.
func (s *Suggester) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return fmt.Errorf("language model unavailable: %w", err)
	}
	return nil
}

// Suggest asks the model for candidates for one transaction. A response
// that cannot be parsed is retried like a transport failure.
func (s *Suggester) Suggest(ctx context.Context, txn model.Transaction, tree *catalog.Tree) ([]model.Candidate, error) {
	prompt := BuildPrompt(txn, tree, s.numSuggestions)

	var candidates []model.Candidate
	err := common.WithRetry(ctx, "suggest", func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return common.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		start := time.Now()
		text, err := s.client.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		s.logger.Debug("Model responded",
			"transaction_id", txn.ID,
			"model", s.client.Model(),
			"duration", time.Since(start),
			"chars", len(text))

		parsed, err := ParseCandidates(text)
		if err != nil {
			return common.Transient(err)
		}
		candidates = parsed
		return nil
	}, s.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w for transaction %s: %w", common.ErrSuggestFailed, txn.ID, err)
	}
	return candidates, nil
}
