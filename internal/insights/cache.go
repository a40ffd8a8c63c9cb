package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vaultline/vaultline/internal/models"
)

// CardCache is a short-TTL cache for computed card sets. Last writer wins on
// refresh; results for the same (org, range) are idempotent so that is safe.
type CardCache interface {
	Get(ctx context.Context, key string) ([]models.Card, bool)
	Set(ctx context.Context, key string, cards []models.Card, ttl time.Duration)
}

// RedisCardCache implements CardCache over Redis.
type RedisCardCache struct {
	client *redis.Client
}

// NewRedisCardCache creates a cache from a redis URL
// (e.g. "redis://localhost:6379/0").
func NewRedisCardCache(url string) (*RedisCardCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCardCache{client: redis.NewClient(opts)}, nil
}

// NewRedisCardCacheFromClient wraps an existing client (used by tests).
func NewRedisCardCacheFromClient(client *redis.Client) *RedisCardCache {
	return &RedisCardCache{client: client}
}

// Get returns the cached card set for key, if fresh. Any cache failure is a
// miss; the caller recomputes.
func (c *RedisCardCache) Get(ctx context.Context, key string) ([]models.Card, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var cards []models.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, false
	}
	return cards, true
}

// Set stores the card set under key for ttl. Failures are ignored.
func (c *RedisCardCache) Set(ctx context.Context, key string, cards []models.Card, ttl time.Duration) {
	data, err := json.Marshal(cards)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

// Close releases the underlying client.
func (c *RedisCardCache) Close() error {
	return c.client.Close()
}

func cardCacheKey(orgID string, r models.CardRange) string {
	return fmt.Sprintf("insights:cards:%s:%s", orgID, r)
}
