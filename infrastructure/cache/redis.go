// Package cache provides the shared key-value store adapter and the
// cache-aside policies layered on top of it: canonical key construction,
// TTL tiers, content-addressed keys for AI results and a generic
// get-or-compute orchestrator.
//
// Every operation is fail-open: an unconfigured or unreachable store
// degrades into "no caching" rather than surfacing errors to callers.
package cache

import (
	"context"
	"fmt"
	"time"

	"telecare-backend/infrastructure/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store wraps the remote key-value store. A nil inner client means the
// store was never configured; all operations then report a miss.
type Store struct {
	client  *redis.Client
	metrics Collector
	logger  *zap.Logger
}

// NewStore creates a store from configuration. Missing Redis credentials
// are a supported state, not an error.
func NewStore(cfg *config.Config, metrics Collector, logger *zap.Logger) (*Store, error) {
	if metrics == nil {
		metrics = NopCollector{}
	}
	if !cfg.RedisConfigured() {
		logger.Info("cache store not configured; caching and rate limiting disabled")
		return &Store{metrics: metrics, logger: logger}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.RedisToken != "" {
		opt.Password = cfg.RedisToken
	}

	return &Store{
		client:  redis.NewClient(opt),
		metrics: metrics,
		logger:  logger,
	}, nil
}

// NewStoreWithClient wraps an existing client. Used by tests.
func NewStoreWithClient(client *redis.Client, metrics Collector, logger *zap.Logger) *Store {
	if metrics == nil {
		metrics = NopCollector{}
	}
	return &Store{client: client, metrics: metrics, logger: logger}
}

// IsConfigured reports whether store credentials were present at startup
func (s *Store) IsConfigured() bool {
	return s.client != nil
}

// Ping verifies connectivity. Reports nil when the store is unconfigured
// so readiness checks do not fail in cache-less deployments.
func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Get returns the raw value for key. Misses, transport errors and the
// unconfigured state all report (nil, false); errors are logged.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if s.client == nil {
		return nil, false
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

// Set writes value under key with the given TTL
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes one or more keys. Transport errors are logged and
// absorbed: a failed invalidation leaves a bounded-TTL stale entry, never
// a user-facing failure.
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if s.client == nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Exists reports whether key is present
func (s *Store) Exists(ctx context.Context, key string) bool {
	if s.client == nil {
		return false
	}
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.logger.Warn("cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

// TTL returns the remaining lifetime of key. Redis semantics apply:
// -1 means no expiry, -2 means the key is absent.
func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	if s.client == nil {
		return -2, nil
	}
	return s.client.TTL(ctx, key).Result()
}

// Increment atomically adds amount to the integer stored at key
func (s *Store) Increment(ctx context.Context, key string, amount int64) (int64, error) {
	if s.client == nil {
		return 0, nil
	}
	return s.client.IncrBy(ctx, key, amount).Result()
}

// TxPipeline returns an atomic batch. Callers must check IsConfigured
// first; the rate limiter relies on this being a single MULTI/EXEC unit.
func (s *Store) TxPipeline() redis.Pipeliner {
	if s.client == nil {
		return nil
	}
	return s.client.TxPipeline()
}

// Metrics returns the injected collector
func (s *Store) Metrics() Collector {
	return s.metrics
}

// Logger returns the store's logger
func (s *Store) Logger() *zap.Logger {
	return s.logger
}
