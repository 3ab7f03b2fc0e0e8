package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/service"
)

var fastRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   2,
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("succeeds first time", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			return nil
		}, fastRetry)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			if calls < 3 {
				return Transient(errBoom)
			}
			return nil
		}, fastRetry)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			return errBoom
		}, fastRetry)
		require.ErrorIs(t, err, ErrMaxRetries)
		require.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "op:")
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			return Permanent(errBoom)
		}, fastRetry)
		require.ErrorIs(t, err, errBoom)
		assert.NotErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors requested delay", func(t *testing.T) {
		calls := 0
		start := time.Now()
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			if calls == 1 {
				return &RetryableError{Err: ErrRateLimit, Retryable: true, After: 3 * time.Millisecond}
			}
			return nil
		}, fastRetry)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
	})

	t.Run("rate limit waits the maximum delay", func(t *testing.T) {
		calls := 0
		start := time.Now()
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			if calls == 1 {
				return ErrRateLimit
			}
			return nil
		}, fastRetry)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.GreaterOrEqual(t, time.Since(start), fastRetry.MaxDelay)
	})

	t.Run("single attempt", func(t *testing.T) {
		calls := 0
		opts := fastRetry
		opts.MaxAttempts = 1
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			return Transient(errBoom)
		}, opts)
		require.ErrorIs(t, err, ErrMaxRetries)
		assert.Contains(t, err.Error(), "after 1 attempts")
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(ctx, "op", func() error {
			calls++
			cancel()
			return Transient(errBoom)
		}, fastRetry)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("defaults applied", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), "op", func() error {
			calls++
			return Permanent(errBoom)
		}, service.RetryOptions{})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryableError_Unwrap(t *testing.T) {
	err := Transient(ErrRateLimit)
	assert.ErrorIs(t, err, ErrRateLimit)
	assert.Equal(t, ErrRateLimit.Error(), err.Error())
}
