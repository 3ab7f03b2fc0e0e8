package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/model"
)

// CacheStats summarizes the suggestion cache.
type CacheStats struct {
	Oldest  time.Time
	Newest  time.Time
	Models  map[string]int
	Entries int
}

// GetSuggestions returns the cached candidates for a transaction, or
// common.ErrNotFound when none are stored.
func (s *SQLiteStorage) GetSuggestions(ctx context.Context, transactionID string) ([]model.Candidate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT candidates
		FROM suggestion_cache
		WHERE transaction_id = ?
	`, transactionID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}

	var candidates []model.Candidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, fmt.Errorf("%w: suggestion cache entry for %s: %w", common.ErrDatabaseCorrupted, transactionID, err)
	}
	return candidates, nil
}

// SaveSuggestions stores (or replaces) the candidates for a transaction.
func (s *SQLiteStorage) SaveSuggestions(ctx context.Context, transactionID, modelName string, candidates []model.Candidate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if err := validateCandidates(candidates); err != nil {
		return err
	}

	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO suggestion_cache (transaction_id, candidates, model, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			candidates = excluded.candidates,
			model = excluded.model,
			created_at = excluded.created_at
	`, transactionID, string(payload), modelName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save suggestions: %w", err)
	}
	return nil
}

// DeleteSuggestions removes the cached candidates for a transaction. Deleting
// a missing entry is not an error.
func (s *SQLiteStorage) DeleteSuggestions(ctx context.Context, transactionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM suggestion_cache WHERE transaction_id = ?`, transactionID); err != nil {
		return fmt.Errorf("failed to delete suggestions: %w", err)
	}
	return nil
}

// CountSuggestions returns the number of cached transactions.
func (s *SQLiteStorage) CountSuggestions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM suggestion_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count suggestions: %w", err)
	}
	return count, nil
}

// ClearSuggestions empties the cache and reports how many entries were removed.
func (s *SQLiteStorage) ClearSuggestions(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM suggestion_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear suggestion cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared entries: %w", err)
	}
	return n, nil
}

// SuggestionStats reports entry counts per model and the cache age range.
func (s *SQLiteStorage) SuggestionStats(ctx context.Context) (*CacheStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT model, created_at
		FROM suggestion_cache
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestion cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := &CacheStats{Models: make(map[string]int)}
	for rows.Next() {
		var (
			modelName string
			createdAt time.Time
		)
		if err := rows.Scan(&modelName, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		stats.Entries++
		stats.Models[modelName]++
		if stats.Oldest.IsZero() || createdAt.Before(stats.Oldest) {
			stats.Oldest = createdAt
		}
		if createdAt.After(stats.Newest) {
			stats.Newest = createdAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entries: %w", err)
	}
	return stats, nil
}
