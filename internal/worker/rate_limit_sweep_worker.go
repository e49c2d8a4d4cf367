package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/budbeer/budbeer_api/internal/metrics"
)

// RateLimitPurger deletes rate limit records older than a cutoff and reports
// how many were removed.
type RateLimitPurger interface {
	PurgeCount(ctx context.Context, before time.Time) (int64, error)
}

// RateLimitSweepWorker periodically drops expired rate limit records so the
// table stays small between submissions.
type RateLimitSweepWorker struct {
	purger   RateLimitPurger
	window   time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewRateLimitSweepWorker constructs a RateLimitSweepWorker.
func NewRateLimitSweepWorker(purger RateLimitPurger, window, interval time.Duration) *RateLimitSweepWorker {
	return &RateLimitSweepWorker{
		purger:   purger,
		window:   window,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *RateLimitSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting rate limit sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Rate limit sweep worker stopped")
			return
		}
	}
}

func (w *RateLimitSweepWorker) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := w.purger.PurgeCount(ctx, w.now().Add(-w.window))
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge rate limit records")
		return
	}

	metrics.RecordRateLimitPurged(n)
	if n > 0 {
		log.Debug().Int64("purged", n).Msg("Expired rate limit records purged")
	}
}
