package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payload struct {
	Value string `json:"value"`
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis, *Counters) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	counters := NewCounters()
	return NewStoreWithClient(client, counters, zap.NewNop()), mr, counters
}

func TestGetOrCompute_MissInvokesProducerAndWritesBack(t *testing.T) {
	store, mr, counters := newTestStore(t)
	calls := 0

	result, err := GetOrCompute(context.Background(), store, "k1", time.Minute,
		func(ctx context.Context) (payload, error) {
			calls++
			return payload{Value: "computed"}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "computed", result.Value)
	assert.Equal(t, 1, calls)

	// Write-back is detached from the request
	require.Eventually(t, func() bool {
		return mr.Exists("k1")
	}, time.Second, 10*time.Millisecond)

	stats := counters.Snapshot()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestGetOrCompute_HitSkipsProducer(t *testing.T) {
	store, _, counters := newTestStore(t)
	require.NoError(t, store.Set(context.Background(), "k1", []byte(`{"value":"cached"}`), time.Minute))

	result, err := GetOrCompute(context.Background(), store, "k1", time.Minute,
		func(ctx context.Context) (payload, error) {
			t.Fatal("producer must not run on a hit")
			return payload{}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "cached", result.Value)
	assert.Equal(t, int64(1), counters.Snapshot().Hits)
}

func TestGetOrCompute_MalformedEntryIsAMiss(t *testing.T) {
	store, mr, _ := newTestStore(t)
	require.NoError(t, mr.Set("k1", "{not json"))

	result, err := GetOrCompute(context.Background(), store, "k1", time.Minute,
		func(ctx context.Context) (payload, error) {
			return payload{Value: "recomputed"}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "recomputed", result.Value)
}

func TestGetOrCompute_ProducerErrorPropagatesUncached(t *testing.T) {
	store, mr, _ := newTestStore(t)
	wantErr := errors.New("backing store down")

	_, err := GetOrCompute(context.Background(), store, "k1", time.Minute,
		func(ctx context.Context) (payload, error) {
			return payload{}, wantErr
		})

	require.ErrorIs(t, err, wantErr)
	assert.False(t, mr.Exists("k1"))
}

func TestGetOrCompute_StoreOutageFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStoreWithClient(client, nil, zap.NewNop())
	mr.Close()

	result, err := GetOrCompute(context.Background(), store, "k1", time.Minute,
		func(ctx context.Context) (payload, error) {
			return payload{Value: "from producer"}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "from producer", result.Value)
}

func TestGetOrCompute_UnconfiguredStoreAlwaysComputes(t *testing.T) {
	store := NewStoreWithClient(nil, nil, zap.NewNop())
	calls := 0

	for i := 0; i < 2; i++ {
		result, err := GetOrCompute(context.Background(), store, "k1", time.Minute,
			func(ctx context.Context) (payload, error) {
				calls++
				return payload{Value: "fresh"}, nil
			})
		require.NoError(t, err)
		assert.Equal(t, "fresh", result.Value)
	}

	assert.Equal(t, 2, calls)
}

func TestStore_DeleteAbsorbsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStoreWithClient(client, nil, zap.NewNop())
	mr.Close()

	// Must not panic or surface an error to the caller
	store.Delete(context.Background(), "k1", "k2")
}

func TestStore_Increment(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	n, err := store.Increment(ctx, "counter", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.Increment(ctx, "counter", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	// Unconfigured store reports zero without erroring
	bare := NewStoreWithClient(nil, nil, zap.NewNop())
	n, err = bare.Increment(ctx, "counter", 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_TTLSemantics(t *testing.T) {
	store, mr, _ := newTestStore(t)
	ctx := context.Background()

	ttl, err := store.TTL(ctx, "absent")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-2), ttl)

	require.NoError(t, mr.Set("forever", "v"))
	ttl, err = store.TTL(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)

	require.NoError(t, store.Set(ctx, "expiring", []byte("v"), time.Minute))
	ttl, err = store.TTL(ctx, "expiring")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
