package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Veraticus/moneyspice/internal/service"
)

var (
	// ErrRateLimit indicates that the API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError wraps an error with retry-specific metadata. After, when
// set, is the delay the remote side asked for.
type RetryableError struct {
	Err       error
	After     time.Duration
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return &RetryableError{Err: err, Retryable: false}
}

// Transient marks err as retryable.
func Transient(err error) error {
	return &RetryableError{Err: err, Retryable: true}
}

// hintedBackOff lets the last error override the exponential delay, for
// servers that say when to come back.
type hintedBackOff struct {
	backoff.BackOff
	hint     *time.Duration
	maxDelay time.Duration
}

func (h hintedBackOff) NextBackOff() time.Duration {
	next := h.BackOff.NextBackOff()
	if next == backoff.Stop || *h.hint <= 0 {
		return next
	}
	return min(*h.hint, h.maxDelay)
}

// WithRetry runs operation until it succeeds, fails permanently, the attempts
// run out or ctx is done. Delays grow by opts.Multiplier up to opts.MaxDelay.
func WithRetry(ctx context.Context, name string, operation func() error, opts service.RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = opts.InitialDelay
	exp.MaxInterval = opts.MaxDelay
	exp.Multiplier = opts.Multiplier
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0

	var (
		attempts int
		hint     time.Duration
		stopped  bool
	)
	policy := hintedBackOff{
		BackOff:  backoff.WithMaxRetries(exp, uint64(opts.MaxAttempts-1)),
		hint:     &hint,
		maxDelay: opts.MaxDelay,
	}

	err := backoff.RetryNotify(func() error {
		attempts++
		hint = 0
		err := operation()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			stopped = true
			return backoff.Permanent(ctx.Err())
		}

		var retryable *RetryableError
		switch {
		case errors.As(err, &retryable):
			if !retryable.Retryable {
				stopped = true
				return backoff.Permanent(err)
			}
			hint = retryable.After
		case errors.Is(err, ErrRateLimit):
			hint = opts.MaxDelay
		}
		return err
	}, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		slog.Warn("Operation failed, retrying",
			"operation", name,
			"attempt", attempts,
			"max_attempts", opts.MaxAttempts,
			"delay", wait,
			"error", err)
	})

	if err == nil || stopped || ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%s: %w after %d attempts: %w", name, ErrMaxRetries, attempts, err)
}
