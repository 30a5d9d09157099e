package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces bucket keys in Redis.
const DefaultKeyPrefix = "coerce:ratelimit:"

// ErrStore wraps failures talking to the shared bucket store.
var ErrStore = errors.New("rate limit store failure")

// takeToken refills and takes one token atomically. It mirrors Bucket.Allow:
// refill intervals are capped and a denied call leaves the tokens untouched.
// Returns {remaining, last refill in ms}.
var takeToken = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
	tokens = capacity
	last = now
end

local intervals = math.floor((now - last) / interval)
local limit = math.floor(capacity / rate) + 1
if intervals > limit then
	intervals = limit
end
if intervals > 0 then
	tokens = math.min(tokens + intervals * rate, capacity)
	last = now
end

local remaining = tokens - 1
if remaining >= 0 then
	tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last', last)
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {remaining, last}
`)

// Redis is a token bucket limiter whose state lives in Redis, so every
// server replica shares the same budget per key.
type Redis struct {
	client redis.Scripter
	cfg    Config
	prefix string
	now    func() time.Time
	ttl    time.Duration
}

// RedisOption configures NewRedis.
type RedisOption func(*Redis)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// WithRedisClock replaces time.Now.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(r *Redis) { r.now = now }
}

// NewRedis validates cfg and returns a limiter backed by client.
func NewRedis(client redis.Scripter, cfg Config, opts ...RedisOption) (*Redis, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	r := &Redis{
		client: client,
		cfg:    cfg,
		prefix: DefaultKeyPrefix,
		now:    time.Now,
		// an idle key expires once it would have refilled completely
		ttl: time.Duration(cfg.Capacity/cfg.RefillRate+1) * cfg.RefillInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Allow takes one token for key. An empty key is never limited.
func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	if key == "" {
		return Result{Limit: r.cfg.Capacity, Remaining: r.cfg.Capacity}, nil
	}
	res, err := takeToken.Run(ctx, r.client, []string{r.prefix + key},
		r.cfg.Capacity,
		r.cfg.RefillRate,
		r.cfg.RefillInterval.Milliseconds(),
		r.now().UnixMilli(),
		r.ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Result{}, errors.Join(ErrStore, err)
	}
	if len(res) != 2 {
		return Result{}, fmt.Errorf("%w: unexpected script reply %v", ErrStore, res)
	}
	return Result{
		Limit:     r.cfg.Capacity,
		Remaining: int(res[0]),
		ResetAt:   time.UnixMilli(res[1]).Add(r.cfg.RefillInterval),
	}, nil
}

// Reset forgets the state of key.
func (r *Redis) Reset(ctx context.Context, key string) error {
	c, ok := r.client.(redis.Cmdable)
	if !ok {
		return fmt.Errorf("%w: client cannot delete keys", ErrStore)
	}
	if err := c.Del(ctx, r.prefix+key).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}
