package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/shenikar/crisis_response_system/internal/service"
)

const (
	snapshotCacheKey = "snapshot:full"
	snapshotCacheTTL = 30 * time.Second
)

// RedisSnapshotCache кэширует агрегированный снимок состояния для bulk-read.
// TTL короткий: кэш гасит всплески перезагрузок клиентов, а не заменяет бд.
type RedisSnapshotCache struct {
	redisClient *redis.Client
}

func NewRedisSnapshotCache(client *redis.Client) service.SnapshotCache {
	return &RedisSnapshotCache{redisClient: client}
}

// Get пытается получить снимок из Redis; (nil, nil) при промахе
func (c *RedisSnapshotCache) Get(ctx context.Context) (*models.Snapshot, error) {
	val, err := c.redisClient.Get(ctx, snapshotCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	snapshot := &models.Snapshot{}
	if err := json.Unmarshal(val, snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot from cache: %w", err)
	}
	return snapshot, nil
}

// Set сохраняет снимок в Redis
func (c *RedisSnapshotCache) Set(ctx context.Context, snapshot *models.Snapshot) error {
	val, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, snapshotCacheKey, val, snapshotCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in cache: %w", err)
	}
	return nil
}

// Invalidate удаляет снимок из Redis после мутации
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.redisClient.Del(ctx, snapshotCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot cache: %w", err)
	}
	return nil
}
