package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/budbeer/budbeer_api/internal/config"
	"github.com/budbeer/budbeer_api/internal/metrics"
	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// BanMatcher finds a ban matching an IP or a device id. It returns nil, nil
// when nothing matches. Empty arguments never match.
type BanMatcher interface {
	FindMatch(ctx context.Context, ip, deviceID string) (*models.Ban, error)
}

// RateLimitStore keeps accepted submission timestamps per IP and device.
type RateLimitStore interface {
	Purge(ctx context.Context, before time.Time) error
	CountByIP(ctx context.Context, ip string, since time.Time) (int, error)
	CountByDevice(ctx context.Context, deviceID string, since time.Time) (int, error)
	Record(ctx context.Context, ip, deviceID string, at time.Time) error
}

// AbuseGuard gates public write endpoints: ban check first, then a sliding
// window rate limit keyed independently by IP and by device id.
//
// Infrastructure errors never reject a request. Both checks log the error
// and let the request through.
type AbuseGuard struct {
	bans   BanMatcher
	limits RateLimitStore
	window time.Duration
	max    int
	now    func() time.Time
}

// NewAbuseGuard creates an AbuseGuard using the configured window and cap.
func NewAbuseGuard(bans BanMatcher, limits RateLimitStore, cfg *config.RateLimitConfig) *AbuseGuard {
	return &AbuseGuard{
		bans:   bans,
		limits: limits,
		window: cfg.Window,
		max:    cfg.Max,
		now:    time.Now,
	}
}

// Check returns nil when the request may proceed, a *utils.BannedError when
// ip or deviceID is banned, or utils.ErrRateLimited when either key reached
// the cap. A banned client does not consume a rate limit slot.
func (g *AbuseGuard) Check(ctx context.Context, ip, deviceID string) error {
	if err := g.CheckBan(ctx, ip, deviceID); err != nil {
		return err
	}
	return g.CheckRateLimit(ctx, ip, deviceID)
}

// CheckBan rejects the request when a ban matches ip or deviceID.
func (g *AbuseGuard) CheckBan(ctx context.Context, ip, deviceID string) error {
	ban, err := g.bans.FindMatch(ctx, ip, deviceID)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Str("device_id", deviceID).Msg("Ban check failed, failing open")
		metrics.RecordAbuseDecision("ban", "error")
		return nil
	}
	if ban != nil {
		log.Info().Int("ban_id", ban.ID).Str("ip", ip).Str("device_id", deviceID).Msg("Request from banned client rejected")
		metrics.RecordAbuseDecision("ban", "rejected")
		return &utils.BannedError{Reason: ban.Reason}
	}
	metrics.RecordAbuseDecision("ban", "passed")
	return nil
}

// CheckRateLimit purges records older than the window, counts the remaining
// ones for ip and deviceID, and records this submission when both counts are
// under the cap. Check-then-insert is not atomic; concurrent bursts may
// slightly exceed the cap.
func (g *AbuseGuard) CheckRateLimit(ctx context.Context, ip, deviceID string) error {
	now := g.now()
	since := now.Add(-g.window)

	if err := g.limits.Purge(ctx, since); err != nil {
		return g.failOpen(err, ip, deviceID, "purge")
	}

	ipCount, err := g.limits.CountByIP(ctx, ip, since)
	if err != nil {
		return g.failOpen(err, ip, deviceID, "count_ip")
	}

	deviceCount := 0
	if deviceID != "" {
		if deviceCount, err = g.limits.CountByDevice(ctx, deviceID, since); err != nil {
			return g.failOpen(err, ip, deviceID, "count_device")
		}
	}

	if ipCount >= g.max || deviceCount >= g.max {
		log.Info().
			Str("ip", ip).
			Str("device_id", deviceID).
			Int("ip_count", ipCount).
			Int("device_count", deviceCount).
			Msg("Submission rate limit reached")
		metrics.RecordAbuseDecision("rate_limit", "rejected")
		return utils.ErrRateLimited
	}

	if err := g.limits.Record(ctx, ip, deviceID, now); err != nil {
		return g.failOpen(err, ip, deviceID, "record")
	}

	metrics.RecordAbuseDecision("rate_limit", "passed")
	return nil
}

func (g *AbuseGuard) failOpen(err error, ip, deviceID, step string) error {
	log.Warn().
		Err(err).
		Str("step", step).
		Str("ip", ip).
		Str("device_id", deviceID).
		Msg("Rate limit check failed, failing open")
	metrics.RecordAbuseDecision("rate_limit", "error")
	return nil
}
