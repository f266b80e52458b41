// Package retry provides a bounded retry helper for backing-store reads.
// Only errors classified as transient are retried; everything else is
// surfaced immediately so domain failures are never masked as cache misses.
package retry

import (
	"context"
	"time"

	apperrors "telecare-backend/pkg/errors"

	"go.uber.org/zap"
)

// Config controls retry behavior
type Config struct {
	Attempts int           // total attempts, including the first
	BaseWait time.Duration // backoff base; attempt n waits n*n*BaseWait
}

// DefaultConfig matches the backing-store read paths: three attempts with
// a quadratic backoff starting at 100ms.
func DefaultConfig() Config {
	return Config{
		Attempts: 3,
		BaseWait: 100 * time.Millisecond,
	}
}

// Do runs op, retrying transient failures up to cfg.Attempts times.
func Do[T any](ctx context.Context, cfg Config, logger *zap.Logger, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt*attempt) * cfg.BaseWait
			logger.Warn("retrying after transient error",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", wait),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(wait):
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !apperrors.IsTransient(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}
