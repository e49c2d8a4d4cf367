package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/budbeer/budbeer_api/internal/models"
)

const approvedBarsKey = "bars:approved"

// ErrCacheMiss is returned when no cached value exists.
var ErrCacheMiss = errors.New("cache miss")

// BarCache caches the public list of approved bars.
type BarCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewBarCache creates a new BarCache.
func NewBarCache(redis *RedisClient, ttl time.Duration) *BarCache {
	return &BarCache{redis: redis, ttl: ttl}
}

// GetApproved returns the cached approved bars or ErrCacheMiss.
func (c *BarCache) GetApproved(ctx context.Context) ([]models.Bar, error) {
	raw, err := c.redis.Get(ctx, approvedBarsKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var bars []models.Bar
	if err := json.Unmarshal([]byte(raw), &bars); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached bars: %w", err)
	}
	return bars, nil
}

// SetApproved stores the approved bar list.
func (c *BarCache) SetApproved(ctx context.Context, bars []models.Bar) error {
	data, err := json.Marshal(bars)
	if err != nil {
		return fmt.Errorf("failed to marshal bars: %w", err)
	}
	return c.redis.Set(ctx, approvedBarsKey, string(data), c.ttl)
}

// Invalidate drops the cached list after any moderation change.
func (c *BarCache) Invalidate(ctx context.Context) error {
	return c.redis.Delete(ctx, approvedBarsKey)
}
