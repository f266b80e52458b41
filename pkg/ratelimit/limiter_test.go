package ratelimit

import (
	"context"
	"testing"
	"time"

	"telecare-backend/infrastructure/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, start time.Time) (*Limiter, *clock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := cache.NewStoreWithClient(client, nil, zap.NewNop())

	clk := &clock{now: start}
	limiter := NewLimiter(store, zap.NewNop()).WithClock(clk.Now)
	return limiter, clk, mr
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time  { return c.now }
func (c *clock) Set(t time.Time) { c.now = t }

func TestCheck_SlidingWindowScenario(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter, clk, _ := newTestLimiter(t, start)
	ctx := context.Background()

	preset := Preset{Name: "test", Limit: 3, Window: 60 * time.Second}

	// Three requests at t=0, 1, 2 fill the window
	for i, wantRemaining := range []int{2, 1, 0} {
		clk.Set(start.Add(time.Duration(i) * time.Second))
		result := limiter.Check(ctx, "user:u1", "/api/test", preset)
		require.True(t, result.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, wantRemaining, result.Remaining)
		assert.Equal(t, 3, result.Limit)
	}

	// A fourth request at t=5 is over quota
	clk.Set(start.Add(5 * time.Second))
	result := limiter.Check(ctx, "user:u1", "/api/test", preset)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, 60*time.Second, result.RetryAfter)

	// At t=61 the first token has slid out of the window; the rejected
	// request at t=5 must not have consumed a slot
	clk.Set(start.Add(61 * time.Second))
	result = limiter.Check(ctx, "user:u1", "/api/test", preset)
	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestCheck_IdentitiesAreIsolated(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter, _, _ := newTestLimiter(t, start)
	ctx := context.Background()

	preset := Preset{Name: "test", Limit: 1, Window: time.Minute}

	require.True(t, limiter.Check(ctx, "user:u1", "/api/test", preset).Allowed)
	assert.False(t, limiter.Check(ctx, "user:u1", "/api/test", preset).Allowed)

	// A different user and a different endpoint each have their own bucket
	assert.True(t, limiter.Check(ctx, "user:u2", "/api/test", preset).Allowed)
	assert.True(t, limiter.Check(ctx, "user:u1", "/api/other", preset).Allowed)
}

func TestCheck_UnconfiguredStoreFailsOpen(t *testing.T) {
	store := cache.NewStoreWithClient(nil, nil, zap.NewNop())
	limiter := NewLimiter(store, zap.NewNop())

	for i := 0; i < 10; i++ {
		result := limiter.Check(context.Background(), "user:u1", "/api/test", Mutation)
		assert.True(t, result.Allowed)
		assert.Equal(t, Mutation.Limit, result.Remaining)
	}
}

func TestCheck_StoreOutageFailsOpen(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter, _, mr := newTestLimiter(t, start)
	mr.Close()

	result := limiter.Check(context.Background(), "user:u1", "/api/test", Default)
	assert.True(t, result.Allowed)
	assert.Equal(t, Default.Limit, result.Remaining)
}

func TestCheck_WindowKeyExpires(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter, _, mr := newTestLimiter(t, start)

	preset := Preset{Name: "test", Limit: 5, Window: time.Minute}
	limiter.Check(context.Background(), "user:u1", "/api/test", preset)

	key := cache.RateLimitKey("/api/test", "user:u1")
	require.True(t, mr.Exists(key))

	ttl := mr.TTL(key)
	assert.Equal(t, time.Minute, ttl)
}
