package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter provides fixed-window request counting backed by Redis.
// Key format: ratelimit:<class>:<client_addr>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow counts one hit for (class, clientAddr) in the current window and
// reports whether the caller is still within max hits per window.
func (l *RateLimiter) Allow(ctx context.Context, class, clientAddr string, max int, window time.Duration) (bool, error) {
	key := l.key(class, clientAddr, window)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		// First hit in this window owns the expiry.
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= int64(max), nil
}

func (l *RateLimiter) key(class, clientAddr string, window time.Duration) string {
	windowStart := time.Now().Unix() / int64(window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", class, clientAddr, windowStart)
}
