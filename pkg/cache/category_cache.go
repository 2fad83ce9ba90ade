package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const platformCategoryKey = "platform:categories"

// PlatformCategory is a cached store category from the order platform.
type PlatformCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryCache holds the platform category list in Redis for a fixed TTL.
// The client and TTL are injected so tests can point it at miniature
// instances and short expiries.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a cache around the given Redis client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	return &CategoryCache{client: client, ttl: ttl}
}

// Get returns the cached category list, or (nil, nil) on a miss.
func (c *CategoryCache) Get(ctx context.Context) ([]PlatformCategory, error) {
	if c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, platformCategoryKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read category cache: %w", err)
	}

	var categories []PlatformCategory
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		// A corrupt entry behaves like a miss.
		logger.Warn("Discarding unreadable category cache entry", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}
	return categories, nil
}

// Set stores the category list for the configured TTL.
func (c *CategoryCache) Set(ctx context.Context, categories []PlatformCategory) error {
	if c.client == nil {
		return nil
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode category cache: %w", err)
	}
	return c.client.Set(ctx, platformCategoryKey, raw, c.ttl).Err()
}

// Bust drops the cached list. Called after any write that changes the
// platform's category set.
func (c *CategoryCache) Bust(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, platformCategoryKey).Err()
}
