package moneymoney

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/common"
)

// fakeOSAScript writes a shell script standing in for osascript.
func fakeOSAScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "osascript")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestOSAScript_Run(t *testing.T) {
	t.Run("returns stdout", func(t *testing.T) {
		r := OSAScript{Path: fakeOSAScript(t, `printf '%s' "$2"`)}
		out, err := r.Run(context.Background(), "tell application")
		require.NoError(t, err)
		assert.Equal(t, "tell application", string(out))
	})

	t.Run("script error", func(t *testing.T) {
		r := OSAScript{Path: fakeOSAScript(t, `echo "syntax error: Expected end of line (-2741)" >&2; exit 1`)}
		_, err := r.Run(context.Background(), "bogus")
		require.ErrorIs(t, err, ErrScriptFailed)
		assert.Contains(t, err.Error(), "-2741")
	})

	t.Run("application not running", func(t *testing.T) {
		r := OSAScript{Path: fakeOSAScript(t, `echo "execution error: MoneyMoney got an error: Application isn't running. (-600)" >&2; exit 1`)}
		_, err := r.Run(context.Background(), "tell application")
		require.ErrorIs(t, err, common.ErrAppUnavailable)
	})

	t.Run("missing binary", func(t *testing.T) {
		r := OSAScript{Path: "moneyspice-osascript-does-not-exist"}
		_, err := r.Run(context.Background(), "tell application")
		require.ErrorIs(t, err, common.ErrAppUnavailable)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := OSAScript{Path: fakeOSAScript(t, "sleep 5")}
		_, err := r.Run(ctx, "tell application")
		require.ErrorIs(t, err, context.Canceled)
	})
}
