package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	rateLimitIPPrefix     = "rate_limit:ip:"
	rateLimitDevicePrefix = "rate_limit:device:"
)

// RateLimitStore keeps accepted submissions in one sorted set per IP and per
// device, scored by Unix milliseconds. Keys expire after the window, so the
// per-key trim in the counts replaces a global purge.
type RateLimitStore struct {
	redis  *RedisClient
	window time.Duration
}

// NewRateLimitStore creates a Redis-backed rate limit store.
func NewRateLimitStore(redis *RedisClient, window time.Duration) *RateLimitStore {
	return &RateLimitStore{redis: redis, window: window}
}

// Purge is a no-op; stale members are trimmed per key when counting.
func (s *RateLimitStore) Purge(ctx context.Context, before time.Time) error {
	return nil
}

// CountByIP counts submissions from ip at or after since.
func (s *RateLimitStore) CountByIP(ctx context.Context, ip string, since time.Time) (int, error) {
	n, err := s.redis.TrimAndCount(ctx, rateLimitIPPrefix+ip, since.UnixMilli())
	return int(n), err
}

// CountByDevice counts submissions from deviceID at or after since.
func (s *RateLimitStore) CountByDevice(ctx context.Context, deviceID string, since time.Time) (int, error) {
	n, err := s.redis.TrimAndCount(ctx, rateLimitDevicePrefix+deviceID, since.UnixMilli())
	return int(n), err
}

// Record adds one submission for ip and, when present, deviceID.
func (s *RateLimitStore) Record(ctx context.Context, ip, deviceID string, at time.Time) error {
	member := fmt.Sprintf("%d-%s", at.UnixNano(), uuid.NewString()[:8])
	if err := s.redis.AddScored(ctx, rateLimitIPPrefix+ip, at.UnixMilli(), member, s.window); err != nil {
		return err
	}
	if deviceID == "" {
		return nil
	}
	return s.redis.AddScored(ctx, rateLimitDevicePrefix+deviceID, at.UnixMilli(), member, s.window)
}
