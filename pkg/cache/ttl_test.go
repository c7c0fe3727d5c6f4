package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestTTLCache_ExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[uint64, int64](time.Minute, clock)

	c.Set(1, 42)
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	clock.Advance(59 * time.Second)
	_, ok = c.Get(1)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(1)
	assert.False(t, ok, "entry at exactly ttl is stale")
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_Invalidate(t *testing.T) {
	c := NewTTLCache[string, string](time.Hour, nil)
	c.Set("a", "x")
	c.Invalidate("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_GetOrLoad(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTLCache[uint64, int64](10*time.Second, clock)

	calls := 0
	load := func() (int64, error) {
		calls++
		return int64(calls * 10), nil
	}

	v, err := c.GetOrLoad(7, load)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	v, _ = c.GetOrLoad(7, load)
	assert.Equal(t, int64(10), v)
	assert.Equal(t, 1, calls)

	clock.Advance(10 * time.Second)
	v, _ = c.GetOrLoad(7, load)
	assert.Equal(t, int64(20), v)
	assert.Equal(t, 2, calls)
}

func TestTTLCache_GetOrLoadErrorNotCached(t *testing.T) {
	c := NewTTLCache[uint64, int64](time.Minute, nil)
	boom := errors.New("db down")

	_, err := c.GetOrLoad(1, func() (int64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_InvalidateDuringLoadSkipsStore(t *testing.T) {
	c := NewTTLCache[uint64, int64](time.Minute, nil)

	// a vote debits and invalidates while the read is still in flight
	v, err := c.GetOrLoad(5, func() (int64, error) {
		c.Invalidate(5)
		return 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), v, "caller still gets what it loaded")

	_, ok := c.Get(5)
	assert.False(t, ok, "stale balance must not be cached")

	v, err = c.GetOrLoad(5, func() (int64, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
	cached, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, int64(7), cached)
}

func TestRedisCache_NilClientIsNoop(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.NoError(t, svc.SetBalance(ctx, 1, 5))
	assert.NoError(t, svc.InvalidateBalance(ctx, 1))
	assert.NoError(t, svc.InvalidateCampaigns(ctx))

	_, err := svc.GetBalance(ctx, 1)
	assert.Error(t, err)
}
