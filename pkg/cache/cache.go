package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a small read-through cache for hot provider-discovery queries.
// Implementations must treat misses as a normal condition.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type redisCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCache(addr, password string, db int, log *zap.Logger) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return &redisCache{
		client: client,
		log:    log.With(zap.String("cache", "redis")),
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("Cache get failed", zap.Error(err), zap.String("key", key))
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("Cache entry unmarshal failed", zap.Error(err), zap.String("key", key))
		return false
	}

	return true
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache entry marshal failed", zap.Error(err), zap.String("key", key))
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", zap.Error(err), zap.String("key", key))
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache delete failed", zap.Error(err), zap.Strings("keys", keys))
	}
}
