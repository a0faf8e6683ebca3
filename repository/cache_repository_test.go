package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	val, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	require.NoError(t, cache.Set(ctx, "k", "v2", time.Minute))
	val, _ = cache.Get(ctx, "k")
	assert.Equal(t, "v2", val)
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	now := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "short", "1", time.Minute))
	require.NoError(t, cache.Set(ctx, "forever", "2", 0))

	now = now.Add(59 * time.Second)
	_, ok := cache.Get(ctx, "short")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = cache.Get(ctx, "short")
	assert.False(t, ok)
	assert.NotContains(t, cache.data, "short", "expired entries are evicted on read")

	now = now.Add(24 * 365 * time.Hour)
	val, ok := cache.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "2", val)
}

func TestMemoryCache_SweepsExpiredEntries(t *testing.T) {
	cache := NewMemoryCacheWithLimit(50_000)
	ctx := context.Background()
	now := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for i := 0; i < 10_000; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("k%d", i), "v", time.Minute))
	}
	require.Equal(t, 10_000, cache.Len())

	now = now.Add(48 * time.Hour)
	require.NoError(t, cache.Set(ctx, "fresh", "v", time.Minute))

	assert.Equal(t, 1, cache.Len(), "expired entries are dropped without being read")
	val, ok := cache.Get(ctx, "fresh")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_EvictsOldestWhenFull(t *testing.T) {
	cache := NewMemoryCacheWithLimit(3)
	ctx := context.Background()
	now := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set(ctx, key, key, 0))
		now = now.Add(time.Second)
	}

	// overwriting an existing key never evicts
	require.NoError(t, cache.Set(ctx, "b", "b2", 0))
	assert.Equal(t, 3, cache.Len())

	require.NoError(t, cache.Set(ctx, "d", "d", 0))
	assert.Equal(t, 3, cache.Len())
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok, "oldest entry evicted")
	for _, key := range []string{"b", "c", "d"} {
		_, ok := cache.Get(ctx, key)
		assert.True(t, ok, key)
	}
}

func TestMemoryCache_DeleteIfExpiredKeepsFreshValue(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	now := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "stale", "old", time.Minute))
	require.NoError(t, cache.Set(ctx, "k", "old", time.Minute))
	now = now.Add(2 * time.Minute)

	// a Set landing after Get saw the expired value must survive the delete
	require.NoError(t, cache.Set(ctx, "k", "new", time.Hour))
	cache.deleteIfExpired("k", now)
	val, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "new", val)

	cache.deleteIfExpired("stale", now)
	assert.NotContains(t, cache.data, "stale")
}

func TestMemoryCache_ConcurrentUse(t *testing.T) {
	cache := NewMemoryCacheWithLimit(100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("g%d-%d", g, i%150)
				_ = cache.Set(ctx, key, "v", time.Millisecond)
				cache.Get(ctx, key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 100)
}

// Set HOMECALC_TEST_REDIS_ADDR to run against a real server.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("HOMECALC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("HOMECALC_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	cache, err := NewRedisCache(ctx, addr, "", 0)
	require.NoError(t, err)

	require.NoError(t, cache.Set(ctx, "test:k", "v", time.Minute))
	val, ok := cache.Get(ctx, "test:k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	_, ok = cache.Get(ctx, "test:absent")
	assert.False(t, ok)

	require.NoError(t, cache.Close())
	assert.NoError(t, cache.Close(), "closing twice is harmless")
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
