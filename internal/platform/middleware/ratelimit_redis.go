// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kertasdev/kertas/internal/platform/constants"
)

// fixedWindowScript atomically increments the per-key counter and arms its
// expiry on first use. Returning 0 means the budget is exhausted.
const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window request limiter shared across all API
// instances. Unlike the in-memory chain limiter it survives restarts and is
// consistent behind a load balancer, which matters for credential-guessing
// endpoints.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

// NewRedisLimiter wraps a connected Redis client. A nil client yields a
// limiter that allows everything, so the API stays usable without Redis in
// local development.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
	}
}

// Allow reports whether the key still has budget within the window.
// Redis failures fail open: limiting is protection, not a dependency.
func (limiter *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if limiter == nil || limiter.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}

	scriptCtx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	allowed, err := limiter.script.Run(scriptCtx, limiter.client, []string{key}, window.Milliseconds(), limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// ThrottleAuth limits a sensitive endpoint (login, forgot-password) per
// client IP using the shared Redis window.
func ThrottleAuth(limiter *RedisLimiter, endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			key := constants.RedisPrefixRateLimit + endpoint + ":" + RealIP(request)

			allowed := limiter.Allow(
				request.Context(),
				key,
				constants.AuthRateLimitAttempts,
				constants.AuthRateLimitWindow,
			)

			if !allowed {
				writeError(writer, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
