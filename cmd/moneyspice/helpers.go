package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/moneyspice/internal/config"
	"github.com/Veraticus/moneyspice/internal/llm"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/moneymoney"
	"github.com/Veraticus/moneyspice/internal/storage"
)

// initStorage opens the local database and applies migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("cache.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// createSuggester builds the language-model suggester from configuration.
func createSuggester() (*llm.Suggester, error) {
	cfg, err := llmConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return llm.NewSuggester(client, cfg, slog.Default()), nil
}

// createFinanceApp builds the MoneyMoney client from configuration.
func createFinanceApp() *moneymoney.Client {
	return moneymoney.New(
		moneymoney.OSAScript{Path: viper.GetString("moneymoney.osascript")},
		moneymoney.WithAppName(viper.GetString("moneymoney.app_name")),
		moneymoney.WithIncludePending(viper.GetBool("transactions.include_pending")),
		moneymoney.WithLogger(slog.Default()),
	)
}

// loadRawCategories reads the catalog from a file when one is given and from
// MoneyMoney otherwise.
func loadRawCategories(ctx context.Context, fromFile string) ([]model.RawCategory, error) {
	if fromFile != "" {
		return moneymoney.LoadCatalogFile(config.ExpandPath(fromFile))
	}
	return createFinanceApp().Categories(ctx)
}
