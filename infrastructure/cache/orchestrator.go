package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// writeBackTimeout bounds the detached cache population write
const writeBackTimeout = 5 * time.Second

// GetOrCompute is the cache-aside primitive: return the cached value under
// key, or invoke producer, return its result and populate the cache in the
// background.
//
// Behavior:
//   - Store errors and malformed payloads are treated as misses, never
//     surfaced to the caller.
//   - A producer error propagates unchanged and nothing is cached, so
//     "no data" stays distinguishable from "cache unavailable".
//   - The write-back runs in its own goroutine and cannot affect the
//     caller's result or error path.
//
// Concurrent misses on the same key each invoke producer independently.
// That stampede is an accepted trade-off here: read producers are
// idempotent, and costly producers are paired with content-addressed keys
// that bound duplicate work to racing requests for the same new input.
func GetOrCompute[T any](ctx context.Context, store *Store, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	var zero T

	if data, ok := store.Get(ctx, key); ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			store.metrics.Hit()
			return value, nil
		}
		store.logger.Warn("discarding malformed cache entry",
			zap.String("key", key),
		)
	}
	store.metrics.Miss()

	value, err := producer(ctx)
	if err != nil {
		return zero, err
	}

	if store.IsConfigured() {
		data, err := json.Marshal(value)
		if err != nil {
			store.logger.Warn("cache value not serializable, skipping write-back",
				zap.String("key", key),
				zap.Error(err),
			)
			return value, nil
		}

		// Detached from the request lifetime: a slow or failed write must
		// never delay or fail a response the producer already delivered.
		go func() {
			wctx, cancel := context.WithTimeout(context.Background(), writeBackTimeout)
			defer cancel()
			if err := store.Set(wctx, key, data, ttl); err != nil {
				store.logger.Warn("cache write-back failed",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}()
	}

	return value, nil
}
