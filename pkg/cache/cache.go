package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storyforge-app/backend/pkg/config"
	"github.com/storyforge-app/backend/pkg/logger"
)

const defaultTTL = time.Hour

// Cache is a thin Redis-backed cache. A nil client disables all operations,
// so the application keeps working without Redis.
type Cache struct {
	client *redis.Client
}

// New connects to Redis if an address is configured; otherwise returns a
// disabled cache.
func New(cfg *config.Config) *Cache {
	if cfg.RedisAddr == "" {
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.S.Warnf("redis unreachable, caching disabled: %v", err)
		return &Cache{}
	}
	return &Cache{client: client}
}

// Enabled reports whether a Redis connection is available.
func (c *Cache) Enabled() bool { return c != nil && c.client != nil }

// GetJSON unmarshals the cached value for key into v.
func (c *Cache) GetJSON(key string, v interface{}) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

// SetJSON marshals v and stores it under key.
func (c *Cache) SetJSON(key string, v interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		logger.S.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// Delete removes the given keys.
func (c *Cache) Delete(keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.S.Warnf("cache delete failed err=%v", err)
	}
}

// InvalidateByPrefix deletes keys matching prefix* using SCAN.
func (c *Cache) InvalidateByPrefix(prefix string) {
	if !c.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // bounded rounds
		keys, cur, err := c.client.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}
