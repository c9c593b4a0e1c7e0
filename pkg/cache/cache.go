package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfsense/backend/pkg/logger"
)

// DefaultTTL is how long read-only projections stay cached
const DefaultTTL = 1 * time.Minute

// Cache is a thin read-through cache over Redis for dashboard projections.
// A nil *Cache or a nil Redis client disables caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache backed by the given Redis client
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// NewFromAddr connects to Redis and returns a cache, or nil when addr is empty
func NewFromAddr(addr string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return New(client, ttl)
}

// GetJSON loads a cached value into dest. Returns false on miss or error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil || len(payload) == 0 {
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to decode cached value")
		return false
	}

	logger.Debug(ctx).Str("cache_key", key).Msg("Cache hit")
	return true
}

// SetJSON stores a value under key with the configured TTL. Failures are logged,
// not returned: caching is best effort.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to encode value for cache")
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache value")
	}
}

// Invalidate removes keys after a state change
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn(ctx).Err(err).Strs("cache_keys", keys).Msg("Failed to invalidate cache")
	}
}
