package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "item"
)

// CachedItem is the denormalized item read model stored in Redis as a hash.
type CachedItem struct {
	ID        uuid.UUID
	OwnerID   string
	Name      string
	Code      string
	Available string
	Weight    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemCache provides structured read/write operations for item cache entries.
// Keys are scoped by owner to prevent cross-owner data leakage.
// Key format: "item:{ownerID}:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by owner + item ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, ownerID string, itemID uuid.UUID) (*CachedItem, error) {
	key := c.key(ownerID, itemID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	weight, err := strconv.ParseFloat(vals["weight"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse weight: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}

	return &CachedItem{
		ID:        id,
		OwnerID:   vals["owner_id"],
		Name:      vals["name"],
		Code:      vals["code"],
		Available: vals["available"],
		Weight:    weight,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Set writes a cached item as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := c.key(item.OwnerID, item.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", item.ID.String(),
		"owner_id", item.OwnerID,
		"name", item.Name,
		"code", item.Code,
		"available", item.Available,
		"weight", strconv.FormatFloat(item.Weight, 'f', -1, 64),
		"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item.
func (c *ItemCache) Delete(ctx context.Context, ownerID string, itemID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(ownerID, itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "item:{ownerID}:{itemID}"
func (c *ItemCache) key(ownerID string, itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", itemCacheKeyPrefix, ownerID, itemID)
}
