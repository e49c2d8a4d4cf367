package service

import (
	"sync"
	"time"

	"github.com/budbeer/budbeer_api/internal/config"
)

// fakeClock is a settable time source shared by the services under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		Auth: config.AuthConfig{
			PendingTokenTTL: 5 * time.Minute,
			SessionTokenTTL: 24 * time.Hour,
			TOTPIssuer:      "BudBeer",
		},
		RateLimit: config.RateLimitConfig{
			Backend: config.RateLimitBackendPostgres,
			Window:  time.Hour,
			Max:     10,
		},
	}
}

func newTestTokenService(clock *fakeClock) *TokenService {
	s := NewTokenService(testConfig())
	s.now = clock.Now
	return s
}
