// Package ratelimit implements per-(endpoint, identity) request quotas
// with a sliding time window backed by the shared cache store.
//
// All coordination happens inside a single atomic pipeline on the store;
// no in-process state is kept, so the limiter is correct across
// horizontally scaled instances. Store outages fail open: availability is
// deliberately ranked above quota enforcement.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"telecare-backend/infrastructure/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Preset is a named traffic-class policy. Presets are data, not behavior.
type Preset struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	// Default covers routes without a more specific class
	Default = Preset{Name: "default", Limit: 60, Window: time.Minute}
	// AI guards expensive generative-model endpoints
	AI = Preset{Name: "ai", Limit: 10, Window: 10 * time.Minute}
	// Listing covers read-heavy directory endpoints
	Listing = Preset{Name: "listing", Limit: 120, Window: time.Minute}
	// Mutation guards sensitive write endpoints
	Mutation = Preset{Name: "mutation", Limit: 5, Window: time.Minute}
)

// Result is the outcome of a quota check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when allowed
	Reset      time.Time
}

// Limiter evaluates sliding-window quotas against the cache store
type Limiter struct {
	store  *cache.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewLimiter creates a limiter on top of the shared store
func NewLimiter(store *cache.Store, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the limiter's clock. Used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Check records one request for (endpoint, identity) and decides whether
// it is within quota.
//
// The prune + count + insert + expire sequence executes as one atomic
// batch so two concurrent requests can never both observe the last free
// slot. The count compared against the limit is the cardinality before
// the new token is inserted, so exactly Limit requests are admitted per
// window. A rejected request's token is removed again: rejected traffic
// must not extend the lockout.
func (l *Limiter) Check(ctx context.Context, identity, endpoint string, preset Preset) Result {
	if !l.store.IsConfigured() {
		return l.open(preset)
	}

	now := l.now()
	windowStart := now.Add(-preset.Window)
	key := cache.RateLimitKey(endpoint, identity)
	member := fmt.Sprintf("%d:%s", now.UnixMilli(), uuid.NewString()[:8])

	pipe := l.store.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(windowStart.UnixMilli(), 10))
	cardCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	pipe.Expire(ctx, key, preset.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("rate limit check failed, failing open",
			zap.String("endpoint", endpoint),
			zap.String("identity", identity),
			zap.Error(err),
		)
		return l.open(preset)
	}

	count := int(cardCmd.Val())
	if count >= preset.Limit {
		l.removeToken(ctx, key, member)
		return Result{
			Allowed:    false,
			Limit:      preset.Limit,
			Remaining:  0,
			RetryAfter: preset.Window,
			Reset:      now.Add(preset.Window),
		}
	}

	return Result{
		Allowed:   true,
		Limit:     preset.Limit,
		Remaining: preset.Limit - count - 1,
		Reset:     now.Add(preset.Window),
	}
}

// removeToken best-effort deletes the token inserted for a rejected
// request
func (l *Limiter) removeToken(ctx context.Context, key, member string) {
	pipe := l.store.TxPipeline()
	pipe.ZRem(ctx, key, member)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("failed to remove rejected rate-limit token",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// open is the fail-open result: full quota, request admitted
func (l *Limiter) open(preset Preset) Result {
	return Result{
		Allowed:   true,
		Limit:     preset.Limit,
		Remaining: preset.Limit,
		Reset:     l.now().Add(preset.Window),
	}
}
