// Package redis holds the Redis connection helper and the rate limiter the
// HTTP middleware counts against.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config is the connection configuration for the rate-limit store.
type Config struct {
	Addr string
	DB   int
	// Timeout bounds the startup ping. Zero means the package default.
	Timeout time.Duration
}

// Connect builds a Redis client and verifies it answers a ping, so a wrong
// address fails at startup rather than on the first limited request.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
