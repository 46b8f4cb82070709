// Package retry provides configurable retry helpers with pluggable
// backoff strategies.
package retry

import (
	"context"
	"fmt"
	"time"

	"igstats/pkg/errors"
	"igstats/pkg/logger"
)

// Config controls one retry loop.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Backoff computes the delay between attempts.
	Backoff BackoffStrategy

	// RetryIf reports whether the error is worth retrying.
	// Defaults to retrying transport errors and retryable HTTP codes.
	RetryIf func(error) bool

	// OnRetry is invoked before each retry sleep.
	OnRetry func(attempt int, err error, delay time.Duration)

	Logger logger.Logger
}

// DefaultConfig returns a config with exponential backoff and
// transport-aware retry classification.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Backoff:     DefaultExponentialBackoff(),
		RetryIf:     DefaultRetryIf,
	}
}

// DefaultRetryIf retries upstream errors that carry a retryable
// classification and gives up on everything else.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *errors.Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

// Do runs fn until it succeeds, the attempts are exhausted, or the
// context is cancelled. The last error is returned on failure.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult runs fn until it yields a result, the attempts are
// exhausted, or the context is cancelled.
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg == nil {
		cfg = DefaultConfig()
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = DefaultExponentialBackoff()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts || !retryIf(err) {
			break
		}

		delay := backoff.NextDelay(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		if cfg.Logger != nil {
			cfg.Logger.WithFields(map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
			}).WithError(err).Debug("retrying after error")
		}
		if err := Wait(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
