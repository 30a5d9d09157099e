package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// staleAfter is how long an idle bucket is kept before cleanup drops it.
const staleAfter = time.Hour

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// Bucket is an in-memory token bucket limiter keyed by caller.
type Bucket struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	cleanup  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures NewBucket.
type Option func(*Bucket)

// WithCleanupInterval sets how often idle buckets are dropped. Zero
// disables the background cleanup.
func WithCleanupInterval(d time.Duration) Option {
	return func(b *Bucket) { b.cleanup = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Bucket) { b.now = now }
}

// NewBucket validates cfg and starts the cleanup loop. Call Close to stop it.
func NewBucket(cfg Config, opts ...Option) (*Bucket, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	b := &Bucket{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
		cleanup: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cleanup > 0 {
		go b.cleanupLoop()
	}
	return b, nil
}

// Allow takes one token for key. An empty key is never limited.
func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if key == "" {
		return Result{Limit: b.cfg.Capacity, Remaining: b.cfg.Capacity}, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	st, ok := b.buckets[key]
	if !ok {
		st = &bucket{tokens: b.cfg.Capacity, lastRefill: now}
		b.buckets[key] = st
	}

	// intervals are capped so a long idle period cannot overflow
	maxIntervals := int64(b.cfg.Capacity/b.cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(st.lastRefill)/b.cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		st.tokens = min(st.tokens+intervals*b.cfg.RefillRate, b.cfg.Capacity)
		st.lastRefill = now
	}

	// a denied request does not drain the bucket further
	remaining := st.tokens - 1
	if remaining >= 0 {
		st.tokens = remaining
	}
	st.lastAccess = now

	return Result{
		Limit:     b.cfg.Capacity,
		Remaining: remaining,
		ResetAt:   st.lastRefill.Add(b.cfg.RefillInterval),
	}, nil
}

// Reset forgets the state of key.
func (b *Bucket) Reset(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.buckets, key)
}

// Close stops the cleanup loop. It is safe to call more than once.
func (b *Bucket) Close() {
	b.stopOnce.Do(func() { close(b.stop) })
}

func (b *Bucket) cleanupLoop() {
	ticker := time.NewTicker(b.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.removeStale()
		case <-b.stop:
			return
		}
	}
}

func (b *Bucket) removeStale() {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for key, st := range b.buckets {
		if now.Sub(st.lastAccess) > staleAfter {
			delete(b.buckets, key)
		}
	}
}
