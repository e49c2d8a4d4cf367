package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/utils"
)

// LoginAttemptLimiter counts failed admin logins per IP. Only failures are
// counted; a client is blocked once it reaches max failures inside window.
type LoginAttemptLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	max      int
	window   time.Duration
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewLoginAttemptLimiter creates a limiter and starts its cleanup loop, which
// stops when ctx is cancelled.
func NewLoginAttemptLimiter(ctx context.Context, max int, window time.Duration) *LoginAttemptLimiter {
	rl := &LoginAttemptLimiter{
		attempts: make(map[string]*attemptInfo),
		max:      max,
		window:   window,
		now:      time.Now,
	}
	go rl.cleanup(ctx)
	return rl
}

// Blocked reports whether ip used up its failures for the current window.
func (r *LoginAttemptLimiter) Blocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.attempts[ip]
	if !exists {
		return false
	}
	if r.now().Sub(info.firstAt) > r.window {
		delete(r.attempts, ip)
		return false
	}
	return info.count >= r.max
}

// RecordFailure counts one failed attempt for ip.
func (r *LoginAttemptLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return
	}
	info.count++
}

// Reset forgets ip, typically after a successful login.
func (r *LoginAttemptLimiter) Reset(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, ip)
}

// Handle rejects requests from blocked IPs with 429.
func (r *LoginAttemptLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.Blocked(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *LoginAttemptLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			now := r.now()
			for ip, info := range r.attempts {
				if now.Sub(info.firstAt) > r.window {
					delete(r.attempts, ip)
				}
			}
			r.mu.Unlock()
		}
	}
}
