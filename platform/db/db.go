// Package db provides the Redis connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"time"

	"retrocodex_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Redis client from the configured URL and verifies the
// connection before returning it.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

// Health adapts a Redis client to the readiness check interface.
type Health struct {
	rdb *redis.Client
}

// NewHealth wraps the client for readiness probes.
func NewHealth(rdb *redis.Client) *Health {
	return &Health{rdb: rdb}
}

// Ping checks the Redis connection.
func (h *Health) Ping(ctx context.Context) error {
	return h.rdb.Ping(ctx).Err()
}
