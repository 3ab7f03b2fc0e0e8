package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/cli"
	"github.com/Veraticus/moneyspice/internal/common"
)

func TestCategorizeFlags(t *testing.T) {
	cmd := categorizeCmd()

	for _, name := range []string{"from-date", "to-date", "dry-run", "test", "no-cache", "ui"} {
		assert.NotNil(t, cmd.Flag(name), "%s flag should exist", name)
	}
	assert.Equal(t, "auto", cmd.Flag("ui").DefValue)
}

func TestEngineConfig(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.Local)

	tests := []struct {
		check   func(t *testing.T, cfgFrom time.Time, cfgTo *time.Time)
		flags   map[string]string
		wantErr string
		name    string
	}{
		{
			name: "defaults to the last 30 days",
			check: func(t *testing.T, from time.Time, to *time.Time) {
				t.Helper()
				assert.Equal(t, now.AddDate(0, 0, -30), from)
				assert.Nil(t, to)
			},
		},
		{
			name:  "explicit range",
			flags: map[string]string{"from-date": "2025-01-01", "to-date": "2025-01-31"},
			check: func(t *testing.T, from time.Time, to *time.Time) {
				t.Helper()
				assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), from)
				require.NotNil(t, to)
				assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local), *to)
			},
		},
		{
			name:    "invalid from date",
			flags:   map[string]string{"from-date": "01/01/2025"},
			wantErr: "--from-date must be YYYY-MM-DD",
		},
		{
			name:    "invalid to date",
			flags:   map[string]string{"to-date": "2025/01/31"},
			wantErr: "--to-date must be YYYY-MM-DD",
		},
		{
			name:    "reversed range",
			flags:   map[string]string{"from-date": "2025-02-01", "to-date": "2025-01-01"},
			wantErr: "--to-date is before --from-date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := categorizeCmd()
			for k, v := range tt.flags {
				require.NoError(t, cmd.Flags().Set(k, v))
			}

			cfg, err := engineConfig(cmd, newTestViper(t), now)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg.FromDate, cfg.ToDate)
		})
	}
}

func TestEngineConfigModes(t *testing.T) {
	cmd := categorizeCmd()
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))
	require.NoError(t, cmd.Flags().Set("test", "true"))

	v := newTestViper(t)
	v.Set("matching.max_suggestions", 3)

	cfg, err := engineConfig(cmd, v, time.Now())
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.TestMode)
	assert.True(t, cfg.UseCache)
	assert.Equal(t, 3, cfg.Match.MaxSuggestions)

	t.Run("no-cache flag", func(t *testing.T) {
		cmd := categorizeCmd()
		require.NoError(t, cmd.Flags().Set("no-cache", "true"))
		cfg, err := engineConfig(cmd, newTestViper(t), time.Now())
		require.NoError(t, err)
		assert.False(t, cfg.UseCache)
	})

	t.Run("cache disabled in config", func(t *testing.T) {
		v := newTestViper(t)
		v.Set("cache.enabled", false)
		cfg, err := engineConfig(categorizeCmd(), v, time.Now())
		require.NoError(t, err)
		assert.False(t, cfg.UseCache)
	})
}

func TestNewUI(t *testing.T) {
	// A regular file is never a terminal.
	in, err := os.Create(filepath.Join(t.TempDir(), "input"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = in.Close() })

	var out bytes.Buffer

	t.Run("test mode scripts a skip", func(t *testing.T) {
		ui, err := newUI(true, "tui", in, &out)
		require.NoError(t, err)
		assert.IsType(t, &cli.KeySelector{}, ui.selector)
		assert.Nil(t, ui.closer)
	})

	t.Run("auto falls back to line input", func(t *testing.T) {
		ui, err := newUI(false, "auto", in, &out)
		require.NoError(t, err)
		assert.IsType(t, &cli.KeySelector{}, ui.selector)
		assert.IsType(t, &cli.Reporter{}, ui.reporter)
	})

	t.Run("plain without a terminal", func(t *testing.T) {
		ui, err := newUI(false, " Plain ", in, &out)
		require.NoError(t, err)
		assert.Nil(t, ui.closer)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := newUI(false, "gui", in, &out)
		require.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}
