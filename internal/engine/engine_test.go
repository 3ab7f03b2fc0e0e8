package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/engine"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/storage"
	"github.com/Veraticus/moneyspice/internal/testutil/categories"
)

type fakeApp struct {
	categoriesErr error
	setErr        error
	applied       map[string]string
	raw           []model.RawCategory
	transactions  []model.Transaction
	mu            sync.Mutex
}

func newFakeApp(txns ...model.Transaction) *fakeApp {
	return &fakeApp{
		raw:          categories.NewBuilder().WithFixture(categories.FixtureStandard).Raw(),
		transactions: txns,
		applied:      make(map[string]string),
	}
}

func (f *fakeApp) Categories(context.Context) ([]model.RawCategory, error) {
	return f.raw, f.categoriesErr
}

func (f *fakeApp) UncategorizedTransactions(context.Context, time.Time, *time.Time) ([]model.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeApp) SetTransactionCategory(_ context.Context, id, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.applied[id] = path
	return nil
}

func (f *fakeApp) appliedPaths() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.applied))
	for k, v := range f.applied {
		out[k] = v
	}
	return out
}

func createTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTransactions() []model.Transaction {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return []model.Transaction{
		{ID: "1", Name: "STARBUCKS 1234", Amount: -4.5, Currency: "EUR", BookingDate: day, Booked: true},
		{ID: "2", Name: "REWE Markt", Amount: -52.1, Currency: "EUR", BookingDate: day, Booked: true},
		{ID: "3", Name: "Shell Station", Amount: -70, Currency: "EUR", BookingDate: day, Booked: true},
	}
}

func TestEngine_Run(t *testing.T) {
	app := newFakeApp(testTransactions()...)
	suggester := engine.NewMockSuggester()
	selector := engine.NewMockSelector("n")
	selector.SetScript("1", "1")
	selector.SetScript("3", "sparking\r1")
	store := createTestStorage(t)

	e := engine.New(app, suggester, selector, engine.DefaultConfig(),
		engine.WithCache(store),
		engine.WithDecisionLog(store))

	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Categorized)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Errors)
	assert.False(t, stats.Quit)
	assert.InDelta(t, 66.67, stats.SuccessRate(), 0.01)

	assert.Equal(t, map[string]string{
		"1": categories.PathCoffee,
		"3": categories.PathParking,
	}, app.appliedPaths())

	calls := selector.Calls()
	require.Len(t, calls, 3)
	require.Len(t, calls[0].Suggestions, 2)
	assert.Equal(t, categories.PathCoffee, calls[0].Suggestions[0].Category.FullPath())
	assert.Equal(t, model.StageExactPath, calls[0].Suggestions[0].Stage)
	require.Len(t, calls[1].Suggestions, 1)
	assert.Equal(t, model.StageFuzzy, calls[1].Suggestions[0].Stage)

	ctx := context.Background()
	decisions, err := store.RecentDecisions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, decisions, 3)
	byTxn := make(map[string]model.Decision)
	for _, d := range decisions {
		byTxn[d.TransactionID] = d
	}
	assert.Equal(t, model.StageExactPath, byTxn["1"].Stage)
	assert.Equal(t, model.OutcomeSkipped, byTxn["2"].Outcome)
	assert.Equal(t, model.MatchStage(0), byTxn["3"].Stage, "search selections carry no stage")

	// Categorized transactions leave the cache; skipped ones stay for the next run.
	_, err = store.GetSuggestions(ctx, "1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	cached, err := store.GetSuggestions(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestEngine_DryRun(t *testing.T) {
	app := newFakeApp(testTransactions()[0])
	store := createTestStorage(t)
	cfg := engine.DefaultConfig()
	cfg.DryRun = true

	e := engine.New(app, engine.NewMockSuggester(), engine.NewMockSelector("1"), cfg,
		engine.WithDecisionLog(store))

	stats, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Categorized)
	assert.Empty(t, app.appliedPaths())

	decisions, err := store.RecentDecisions(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.True(t, decisions[0].DryRun)
	assert.Equal(t, categories.PathCoffee, decisions[0].CategoryPath)
}

func TestEngine_QuitStopsRun(t *testing.T) {
	app := newFakeApp(testTransactions()...)
	selector := engine.NewMockSelector("q")

	stats, err := engine.New(app, engine.NewMockSuggester(), selector, engine.DefaultConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.Quit)
	assert.Zero(t, stats.Processed)
	assert.Len(t, selector.Calls(), 1)
	assert.Empty(t, app.appliedPaths())
}

func TestEngine_EndOfScriptQuits(t *testing.T) {
	app := newFakeApp(testTransactions()...)
	selector := engine.NewMockSelector("")

	stats, err := engine.New(app, engine.NewMockSuggester(), selector, engine.DefaultConfig()).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Quit)
	assert.Len(t, selector.Calls(), 1)
}

func TestEngine_CancelledContextQuits(t *testing.T) {
	app := newFakeApp(testTransactions()...)
	selector := engine.NewMockSelector("n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := engine.New(app, engine.NewMockSuggester(), selector, engine.DefaultConfig()).Run(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Quit)
	assert.Empty(t, selector.Calls())
}

func TestEngine_TestMode(t *testing.T) {
	t.Run("processes one transaction", func(t *testing.T) {
		app := newFakeApp(testTransactions()...)
		selector := engine.NewMockSelector("n")
		cfg := engine.DefaultConfig()
		cfg.TestMode = true

		stats, err := engine.New(app, engine.NewMockSuggester(), selector, cfg).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 1, stats.Skipped)
		assert.Len(t, selector.Calls(), 1)
	})

	t.Run("fails without suggestions", func(t *testing.T) {
		app := newFakeApp(model.Transaction{ID: "9", Name: "Unknown Merchant"})
		selector := engine.NewMockSelector("n")
		cfg := engine.DefaultConfig()
		cfg.TestMode = true

		_, err := engine.New(app, engine.NewMockSuggester(), selector, cfg).Run(context.Background())
		require.ErrorIs(t, err, engine.ErrNoSuggestions)
		assert.Empty(t, selector.Calls())
	})

	t.Run("fails without transactions", func(t *testing.T) {
		selector := engine.NewMockSelector("n")
		cfg := engine.DefaultConfig()
		cfg.TestMode = true

		_, err := engine.New(newFakeApp(), engine.NewMockSuggester(), selector, cfg).Run(context.Background())
		require.ErrorIs(t, err, common.ErrNoTransactions)
	})
}

func TestEngine_IgnoresCategorizedTransactions(t *testing.T) {
	txns := testTransactions()
	txns[0].Category = categories.PathCoffee
	app := newFakeApp(txns...)
	selector := engine.NewMockSelector("n")

	stats, err := engine.New(app, engine.NewMockSuggester(), selector, engine.DefaultConfig()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	require.Len(t, selector.Calls(), 2)
	assert.Equal(t, "2", selector.Calls()[0].Transaction.ID)
}

func TestEngine_CatalogErrors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		raw     []model.RawCategory
	}{
		{
			name:    "empty catalog",
			raw:     nil,
			wantErr: common.ErrNoCategories,
		},
		{
			name: "duplicate identifiers",
			raw: []model.RawCategory{
				{ID: "a", Name: "Food"},
				{ID: "a", Name: "Travel"},
			},
			wantErr: catalog.ErrMalformedCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newFakeApp(testTransactions()...)
			app.raw = tt.raw
			selector := engine.NewMockSelector("n")

			_, err := engine.New(app, engine.NewMockSuggester(), selector, engine.DefaultConfig()).Run(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, selector.Calls())
		})
	}
}

func TestEngine_PingFailure(t *testing.T) {
	app := newFakeApp(testTransactions()...)
	suggester := engine.NewMockSuggester()
	suggester.PingErr = errors.New("connection refused")

	_, err := engine.New(app, suggester, engine.NewMockSelector("n"), engine.DefaultConfig()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, suggester.Calls())
}

func TestEngine_SuggestFailureStillOffersSearch(t *testing.T) {
	app := newFakeApp(testTransactions()[0])
	suggester := engine.NewMockSuggester()
	suggester.SuggestErr = common.ErrSuggestFailed
	selector := engine.NewMockSelector("srent\r1")
	store := createTestStorage(t)

	stats, err := engine.New(app, suggester, selector, engine.DefaultConfig(), engine.WithCache(store)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Categorized)
	assert.Equal(t, map[string]string{"1": categories.PathRent}, app.appliedPaths())
	require.Len(t, selector.Calls(), 1)
	assert.Empty(t, selector.Calls()[0].Suggestions)

	count, err := store.CountSuggestions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEngine_Cache(t *testing.T) {
	rent := 0.95
	cachedCandidates := []model.Candidate{{RawText: categories.PathRent, Confidence: &rent}}

	t.Run("cached candidates skip the model", func(t *testing.T) {
		store := createTestStorage(t)
		require.NoError(t, store.SaveSuggestions(context.Background(), "1", "old-model", cachedCandidates))

		app := newFakeApp(testTransactions()[0])
		suggester := engine.NewMockSuggester()
		selector := engine.NewMockSelector("1")

		_, err := engine.New(app, suggester, selector, engine.DefaultConfig(), engine.WithCache(store)).Run(context.Background())
		require.NoError(t, err)

		assert.Empty(t, suggester.Calls())
		assert.Equal(t, map[string]string{"1": categories.PathRent}, app.appliedPaths())
	})

	t.Run("disabled cache asks again", func(t *testing.T) {
		store := createTestStorage(t)
		require.NoError(t, store.SaveSuggestions(context.Background(), "1", "old-model", cachedCandidates))

		app := newFakeApp(testTransactions()[0])
		suggester := engine.NewMockSuggester()
		selector := engine.NewMockSelector("1")
		cfg := engine.DefaultConfig()
		cfg.UseCache = false

		_, err := engine.New(app, suggester, selector, cfg, engine.WithCache(store)).Run(context.Background())
		require.NoError(t, err)

		assert.Len(t, suggester.Calls(), 1)
		assert.Equal(t, map[string]string{"1": categories.PathCoffee}, app.appliedPaths())
	})
}

func TestEngine_WriteBackFailure(t *testing.T) {
	app := newFakeApp(testTransactions()[:2]...)
	app.setErr = errors.New("MoneyMoney is locked")
	selector := engine.NewMockSelector("1")

	stats, err := engine.New(app, engine.NewMockSuggester(), selector, engine.DefaultConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Errors)
	assert.Zero(t, stats.Categorized)
}

type recordingReporter struct {
	finished []model.OutcomeKind
	final    engine.Stats
	started  int
}

func (r *recordingReporter) RunStarted(total int, _ engine.Config) { r.started = total }
func (r *recordingReporter) TransactionStarted(int, int, model.Transaction) {}
func (r *recordingReporter) TransactionFinished(_ model.Transaction, o model.SelectionOutcome, _ error) {
	r.finished = append(r.finished, o.Kind)
}
func (r *recordingReporter) RunFinished(s engine.Stats) { r.final = s }

func TestEngine_Reporter(t *testing.T) {
	app := newFakeApp(testTransactions()...)
	selector := engine.NewMockSelector("n")
	selector.SetScript("2", "q")
	reporter := &recordingReporter{}

	_, err := engine.New(app, engine.NewMockSuggester(), selector, engine.DefaultConfig(),
		engine.WithReporter(reporter)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, reporter.started)
	assert.Equal(t, []model.OutcomeKind{model.OutcomeSkipped, model.OutcomeQuit}, reporter.finished)
	assert.True(t, reporter.final.Quit)
	assert.Equal(t, 1, reporter.final.Skipped)
}

func TestStats_SuccessRate(t *testing.T) {
	assert.Zero(t, engine.Stats{}.SuccessRate())
	assert.InDelta(t, 80.0, engine.Stats{Processed: 5, Categorized: 4}.SuccessRate(), 1e-9)
}
