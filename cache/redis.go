package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed cache for multi-instance deployments.
type RedisCache struct {
	client *redis.Client
	config Config
}

// NewRedisCache creates a Redis cache with an existing client.
func NewRedisCache(client *redis.Client, config Config) *RedisCache {
	return &RedisCache{
		client: client,
		config: applyDefaults(config),
	}
}

// Get retrieves an entry from Redis, or (nil, nil) on miss or expiry.
func (rc *RedisCache) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := rc.client.Get(ctx, rc.makeKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	if entry.IsExpired() {
		rc.client.Del(ctx, rc.makeKey(key))
		return nil, nil
	}
	return &entry, nil
}

// Set stores an entry in Redis with TTL-based expiration.
func (rc *RedisCache) Set(ctx context.Context, entry *Entry) error {
	if entry.TTL == 0 {
		entry.TTL = rc.config.TTL
	}
	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if err := rc.client.Set(ctx, rc.makeKey(entry.Key), data, entry.TTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes an entry from Redis.
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.client.Del(ctx, rc.makeKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// makeKey prefixes a cache key for this service's namespace.
func (rc *RedisCache) makeKey(key string) string {
	return rc.config.Prefix + "outline:" + key
}
