package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/moneyspice/internal/model"
)

// SaveDecision appends a decision to the log.
func (s *SQLiteStorage) SaveDecision(ctx context.Context, d model.Decision) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDecision(d); err != nil {
		return err
	}

	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now()
	}

	stage := ""
	if d.Stage != 0 {
		stage = d.Stage.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (transaction_id, outcome, category_id, category_path, match_stage, dry_run, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, d.TransactionID, d.Outcome.String(), d.CategoryID, d.CategoryPath, stage, d.DryRun, d.DecidedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}
	return nil
}

// RecentDecisions returns up to limit decisions, newest first.
func (s *SQLiteStorage) RecentDecisions(ctx context.Context, limit int) ([]model.Decision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, outcome, category_id, category_path, match_stage, dry_run, decided_at
		FROM decisions
		ORDER BY decided_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decisions []model.Decision
	for rows.Next() {
		var (
			d       model.Decision
			outcome string
			stage   string
		)
		if err := rows.Scan(&d.TransactionID, &outcome, &d.CategoryID, &d.CategoryPath, &stage, &d.DryRun, &d.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.Outcome = parseOutcome(outcome)
		d.Stage = parseStage(stage)
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decisions: %w", err)
	}
	return decisions, nil
}

func parseOutcome(s string) model.OutcomeKind {
	for _, k := range []model.OutcomeKind{model.OutcomeAccepted, model.OutcomeSkipped, model.OutcomeQuit} {
		if k.String() == s {
			return k
		}
	}
	return 0
}

func parseStage(s string) model.MatchStage {
	for _, st := range []model.MatchStage{model.StageExactID, model.StageExactPath, model.StageFuzzy} {
		if st.String() == s {
			return st
		}
	}
	return 0
}
