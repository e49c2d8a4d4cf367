package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable returns a client pointed at a closed port so every command fails fast.
func unreachable(t *testing.T) *RedisClient {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisClientFrom(client)
}

func TestBarCache_ErrorsAreNotMisses(t *testing.T) {
	c := NewBarCache(unreachable(t), time.Minute)

	_, err := c.GetApproved(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRateLimitStore_PurgeIsNoOp(t *testing.T) {
	s := NewRateLimitStore(unreachable(t), time.Hour)
	assert.NoError(t, s.Purge(context.Background(), time.Now()))
}

func TestRateLimitStore_PropagatesErrors(t *testing.T) {
	s := NewRateLimitStore(unreachable(t), time.Hour)
	ctx := context.Background()

	_, err := s.CountByIP(ctx, "1.2.3.4", time.Now().Add(-time.Hour))
	assert.Error(t, err)

	assert.Error(t, s.Record(ctx, "1.2.3.4", "", time.Now()))
}
