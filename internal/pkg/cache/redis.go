package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/product_marketplace/internal/config"
)

const pingTimeout = 5 * time.Second

// NewRedisClient creates a client for the report throttle and pings it
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// WaitForRedis retries NewRedisClient until it succeeds, attempts run out or
// ctx is cancelled
func WaitForRedis(ctx context.Context, cfg *config.Config, attempts int, delay time.Duration) (*redis.Client, error) {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("redis unavailable after %d attempts: %w", attempts, lastErr)
}
