package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/ratelimiter"
)

func newRedis(t *testing.T, cfg ratelimiter.Config, c *clock) (*ratelimiter.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l, err := ratelimiter.NewRedis(client, cfg, ratelimiter.WithRedisClock(c.Now))
	require.NoError(t, err)
	return l, mr
}

func TestRedis_Allow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{now: time.UnixMilli(1_700_000_000_000)}
	l, _ := newRedis(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second}, c)

	for want := 2; want >= 0; want-- {
		res, err := l.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, want, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, c.Now().Add(time.Second), res.ResetAt)

	c.Advance(2 * time.Second)
	res, err = l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining, "two tokens refilled, one taken")

	other, err := l.Allow(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 2, other.Remaining)
}

func TestRedis_RefillCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{now: time.UnixMilli(1_700_000_000_000)}
	l, _ := newRedis(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Second}, c)

	for range 3 {
		_, err := l.Allow(ctx, "k")
		require.NoError(t, err)
	}
	c.Advance(24 * time.Hour)

	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)
}

func TestRedis_KeysAndReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{now: time.UnixMilli(1_700_000_000_000)}
	l, mr := newRedis(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute}, c)

	_, err := l.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	key := ratelimiter.DefaultKeyPrefix + "203.0.113.9"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 2*time.Minute, mr.TTL(key))

	res, err := l.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	require.NoError(t, l.Reset(ctx, "203.0.113.9"))
	res, err = l.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestRedis_EmptyKey(t *testing.T) {
	t.Parallel()
	l, mr := newRedis(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second}, &clock{now: time.Now()})

	for range 3 {
		res, err := l.Allow(context.Background(), "")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	}
	assert.Empty(t, mr.Keys())
}

func TestRedis_StoreDown(t *testing.T) {
	t.Parallel()
	l, mr := newRedis(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second}, &clock{now: time.Now()})
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimiter.ErrStore)
}

func TestNewRedis_InvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := ratelimiter.NewRedis(nil, ratelimiter.Config{})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}
