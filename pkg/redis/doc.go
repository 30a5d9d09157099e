// Package redis connects to Redis for state shared between server replicas,
// such as distributed rate limiting.
//
// Connect parses a redis:// URL, pings the server and retries until it
// answers or the connect timeout expires:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck adapts the client into a readiness check for
// httpserver.HealthCheckHandler.
//
// Config is loaded from REDIS_URL, REDIS_RETRY_ATTEMPTS,
// REDIS_RETRY_INTERVAL and REDIS_CONNECT_TIMEOUT under the caller's prefix.
package redis
