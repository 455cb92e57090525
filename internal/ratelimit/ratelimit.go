package ratelimit

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/movie-ticket-booking/internal/adapters/redis"
)

// RateLimiter counts requests per key in fixed windows of period.
type RateLimiter struct {
	redis *redisadapter.Cache
}

func NewRateLimiter(redis *redisadapter.Cache) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow reports whether key is still within rate for the current window. The
// window starts at the first request and is not extended by later ones.
func (rl *RateLimiter) Allow(ctx context.Context, key string, rate int, period time.Duration) bool {
	fullKey := "rl:" + key

	pipe := rl.redis.Client().Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, period)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false
	}

	return incr.Val() <= int64(rate)
}
