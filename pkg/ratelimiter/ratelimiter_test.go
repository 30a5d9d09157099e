package ratelimiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/ratelimiter"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBucket(t *testing.T, cfg ratelimiter.Config, c *clock) *ratelimiter.Bucket {
	t.Helper()
	b, err := ratelimiter.NewBucket(cfg, ratelimiter.WithClock(c.Now), ratelimiter.WithCleanupInterval(0))
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return b
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := newBucket(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second}, c)
	ctx := context.Background()

	for i := 2; i >= 0; i-- {
		res, err := b.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := b.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, c.Now().Add(time.Second), res.ResetAt)

	other, err := b.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "keys are independent")

	c.Advance(time.Second)
	res, err = b.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed(), "refilled after one interval")
	assert.Equal(t, 0, res.Remaining)

	c.Advance(time.Hour)
	res, err = b.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining, "refill is capped at capacity")
}

func TestBucket_EmptyKeyAndReset(t *testing.T) {
	t.Parallel()
	c := &clock{now: time.Now()}
	b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute}, c)
	ctx := context.Background()

	for range 5 {
		res, err := b.Allow(ctx, "")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	}

	_, _ = b.Allow(ctx, "k")
	res, _ := b.Allow(ctx, "k")
	assert.False(t, res.Allowed())
	assert.Greater(t, res.RetryAfter(), time.Duration(0))

	b.Reset("k")
	res, _ = b.Allow(ctx, "k")
	assert.True(t, res.Allowed())
	assert.Zero(t, res.RetryAfter())
}

func TestBucket_CancelledContext(t *testing.T) {
	t.Parallel()
	b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second}, &clock{now: time.Now()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Allow(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBucket_Concurrent(t *testing.T) {
	t.Parallel()
	b := newBucket(t, ratelimiter.Config{Capacity: 50, RefillRate: 1, RefillInterval: time.Hour}, &clock{now: time.Now()})

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, err := b.Allow(context.Background(), "shared"); err == nil && res.Allowed() {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(50), allowed.Load())
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{"zero capacity", ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{"zero rate", ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{"zero interval", ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucket_CloseTwice(t *testing.T) {
	t.Parallel()
	b, err := ratelimiter.NewBucket(ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second},
		ratelimiter.WithCleanupInterval(time.Millisecond))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		b.Close()
		b.Close()
	})
}
