// Package ratelimiter throttles validation requests per client with a token
// bucket, kept either in memory (Bucket) or in Redis (Redis).
//
// Each key starts with Capacity tokens; RefillRate tokens are added every
// RefillInterval up to Capacity. A request that finds the bucket empty is
// denied with Result.Allowed false and Result.RetryAfter telling the client
// when to come back.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.Config{
//	    Capacity:       100,
//	    RefillRate:     10,
//	    RefillInterval: time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer limiter.Close()
//
//	res, err := limiter.Allow(ctx, clientIP)
//
// Idle in-memory buckets are dropped after an hour by a background loop.
//
// The Redis limiter runs the same algorithm in a Lua script so that
// replicas behind a load balancer share one budget per client. Idle keys
// expire once they would have refilled completely:
//
//	limiter, err := ratelimiter.NewRedis(client, cfg)
package ratelimiter
