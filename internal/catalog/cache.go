package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "loyalty"

// Cache stores JSON snapshots of catalog entries.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client redisClient
	prefix string
}

// NewRedisCache connects lazily to addr. Keys are namespaced with prefix.
func NewRedisCache(addr, prefix string) *RedisCache {
	return newRedisCache(redis.NewClient(&redis.Options{Addr: addr}), prefix)
}

func newRedisCache(client redisClient, prefix string) *RedisCache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// GetJSON loads key into dest. A missing key is reported as false without error.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, c.buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key for ttl.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.buildKey(key), payload, ttl).Err()
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, strings.TrimSpace(key))
}

type nopCache struct{}

func (nopCache) GetJSON(context.Context, string, any) (bool, error) {
	return false, nil
}

func (nopCache) SetJSON(context.Context, string, any, time.Duration) error {
	return nil
}
