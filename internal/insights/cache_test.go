package insights

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultline/vaultline/internal/models"
)

func TestRedisCardCacheRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewRedisCardCacheFromClient(client)
	ctx := context.Background()

	key := cardCacheKey("org-a", models.Range7d)
	_, hit := cache.Get(ctx, key)
	assert.False(t, hit, "empty cache should miss")

	cards := []models.Card{
		{ID: "mono-questions", Title: "Mono questions answered", Value: 8, Period: "7d", Kind: "count", CTA: "/mono"},
		{ID: "active-documents", Title: "Active documents", Value: 2, Period: "7d", Kind: "unique"},
	}
	cache.Set(ctx, key, cards, time.Minute)

	got, hit := cache.Get(ctx, key)
	require.True(t, hit)
	assert.Equal(t, cards, got)
}

func TestRedisCardCacheExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewRedisCardCacheFromClient(client)
	ctx := context.Background()

	key := cardCacheKey("org-a", models.Range30d)
	cache.Set(ctx, key, []models.Card{{ID: "docs-activity", Value: 1}}, time.Minute)

	srv.FastForward(2 * time.Minute)

	_, hit := cache.Get(ctx, key)
	assert.False(t, hit, "expired entry should miss")
}

func TestRedisCardCacheCorruptEntryIsAMiss(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewRedisCardCacheFromClient(client)

	key := cardCacheKey("org-a", models.Range90d)
	require.NoError(t, srv.Set(key, "{not json"))

	_, hit := cache.Get(context.Background(), key)
	assert.False(t, hit, "undecodable entry should miss, not fail")
}
