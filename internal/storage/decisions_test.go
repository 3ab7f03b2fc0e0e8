package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/model"
)

func TestDecisions_SaveAndList(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	decisions := []model.Decision{
		{
			TransactionID: "1",
			Outcome:       model.OutcomeAccepted,
			CategoryID:    "cat-1",
			CategoryPath:  `Food\Coffee`,
			Stage:         model.StageFuzzy,
			DecidedAt:     base,
		},
		{
			TransactionID: "2",
			Outcome:       model.OutcomeSkipped,
			DecidedAt:     base.Add(time.Minute),
		},
		{
			TransactionID: "3",
			Outcome:       model.OutcomeAccepted,
			CategoryID:    "cat-2",
			CategoryPath:  "Rent",
			DryRun:        true,
			DecidedAt:     base.Add(2 * time.Minute),
		},
	}
	for _, d := range decisions {
		require.NoError(t, store.SaveDecision(ctx, d))
	}

	got, err := store.RecentDecisions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "3", got[0].TransactionID)
	assert.True(t, got[0].DryRun)
	assert.Equal(t, model.MatchStage(0), got[0].Stage)
	assert.Equal(t, "2", got[1].TransactionID)
	assert.Equal(t, model.OutcomeSkipped, got[1].Outcome)

	all, err := store.RecentDecisions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.StageFuzzy, all[2].Stage)
	assert.Equal(t, `Food\Coffee`, all[2].CategoryPath)
	assert.True(t, base.Equal(all[2].DecidedAt))
}

func TestDecisions_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name     string
		decision model.Decision
	}{
		{name: "missing transaction", decision: model.Decision{Outcome: model.OutcomeSkipped}},
		{name: "accepted without category", decision: model.Decision{TransactionID: "1", Outcome: model.OutcomeAccepted}},
		{name: "unknown outcome", decision: model.Decision{TransactionID: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SaveDecision(ctx, tt.decision), ErrInvalidDecision)
		})
	}
}

func TestDecisions_InvalidLimit(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.RecentDecisions(context.Background(), 0)
	assert.Error(t, err)
}
