package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/marketplace/internal/domain"
)

// ProductCache is a best-effort read-through cache for product lookups.
// Misses and backend failures both read as "not cached".
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Set(ctx context.Context, product *domain.Product)
	Invalidate(ctx context.Context, id string)
}

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache wraps a Redis client as a product cache.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) ProductCache {
	return &redisProductCache{client: client, ttl: ttl}
}

func cacheKey(id string) string {
	return "product:" + id
}

func (c *redisProductCache) Get(ctx context.Context, id string) (*domain.Product, bool) {
	payload, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (c *redisProductCache) Set(ctx context.Context, product *domain.Product) {
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(product.ID), payload, c.ttl).Err()
}

func (c *redisProductCache) Invalidate(ctx context.Context, id string) {
	_ = c.client.Del(ctx, cacheKey(id)).Err()
}
