// Package repository persists the favorites list in Redis.
// The whole list lives under a single key per device as one JSON document,
// read in full and rewritten on every mutation.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"retrocodex_backend/internal/games/domain"
)

const keyPrefix = "retrocodex:favorites:"

// Repository reads and writes a device's favorites list.
type Repository interface {
	List(ctx context.Context, deviceID string) ([]domain.GameDetail, error)
	Save(ctx context.Context, deviceID string, favorites []domain.GameDetail) error
}

type redisRepository struct {
	rdb *redis.Client
}

// New creates a Redis-backed favorites repository.
func New(rdb *redis.Client) Repository {
	return &redisRepository{rdb: rdb}
}

func key(deviceID string) string {
	return keyPrefix + deviceID
}

// List returns the stored favorites in insertion order. A missing key is an
// empty list; an undecodable entry is treated as empty rather than failing,
// so one corrupt write cannot brick the favorites tab.
func (r *redisRepository) List(ctx context.Context, deviceID string) ([]domain.GameDetail, error) {
	raw, err := r.rdb.Get(ctx, key(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return []domain.GameDetail{}, nil
	}
	if err != nil {
		return nil, err
	}

	var favorites []domain.GameDetail
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		return []domain.GameDetail{}, nil
	}
	if favorites == nil {
		favorites = []domain.GameDetail{}
	}
	return favorites, nil
}

// Save rewrites the device's whole favorites list.
func (r *redisRepository) Save(ctx context.Context, deviceID string, favorites []domain.GameDetail) error {
	payload, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(deviceID), payload, 0).Err()
}
