package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskdesk/ticket-management/internal/config"
)

// EntityCache is a redis-backed read-through cache for single-entity lookups.
// All methods tolerate a nil receiver or missing client, so services work
// unchanged when redis is not configured.
type EntityCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// New builds an EntityCache. Returns nil when caching is disabled.
func New(cfg config.CacheConfig, client *redis.Client, logger *zap.Logger) *EntityCache {
	if !cfg.Enabled || client == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &EntityCache{
		client: client,
		ttl:    ttl,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

// AccountKey builds the cache key for an account id.
func (c *EntityCache) AccountKey(id int64) string {
	return c.key("account", id)
}

// TicketKey builds the cache key for a ticket id.
func (c *EntityCache) TicketKey(id int64) string {
	return c.key("ticket", id)
}

func (c *EntityCache) key(kind string, id int64) string {
	prefix := "ticketmgmt"
	if c != nil && c.prefix != "" {
		prefix = c.prefix
	}
	return fmt.Sprintf("%s:%s:%d", prefix, kind, id)
}

// Get unmarshals the cached value into dest. The second return is false on
// miss, decode failure, or any redis error.
func (c *EntityCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set stores the value under key. Failures are logged, never surfaced.
func (c *EntityCache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the given keys after a write.
func (c *EntityCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
