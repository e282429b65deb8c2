package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
)

const availabilityPrefix = "availability:"

// AvailabilityCache keeps recent availability answers in Redis. Entries are
// short-lived and invalidated on every reservation or configuration write,
// so a stale answer can only mislead a slot picker, never the booking
// transaction itself.
type AvailabilityCache struct {
	client *Client
	ttl    time.Duration
}

// NewAvailabilityCache creates a new availability cache
func NewAvailabilityCache(client *Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func availabilityKey(spaceID uuid.UUID, date string) string {
	return fmt.Sprintf("%s%s:%s", availabilityPrefix, spaceID, date)
}

// Get retrieves a cached availability result, or nil on miss.
func (c *AvailabilityCache) Get(ctx context.Context, spaceID uuid.UUID, date string) (*domain.AvailabilityResult, error) {
	data, err := c.client.rdb.Get(ctx, availabilityKey(spaceID, date)).Bytes()
	if err != nil {
		return nil, nil // cache miss
	}

	var result domain.AvailabilityResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal availability result: %w", err)
	}
	return &result, nil
}

// Set caches an availability result.
func (c *AvailabilityCache) Set(ctx context.Context, result *domain.AvailabilityResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal availability result: %w", err)
	}
	return c.client.rdb.Set(ctx, availabilityKey(result.SpaceID, result.Date), data, c.ttl).Err()
}

// Invalidate removes the cached result for one space and date.
func (c *AvailabilityCache) Invalidate(ctx context.Context, spaceID uuid.UUID, date string) error {
	return c.client.rdb.Del(ctx, availabilityKey(spaceID, date)).Err()
}

// InvalidateSpace removes every cached date for a space, for configuration
// changes that affect all future answers.
func (c *AvailabilityCache) InvalidateSpace(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	pattern := fmt.Sprintf("%s%s:*", availabilityPrefix, spaceID)
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
