// Package metrics provides Prometheus metrics for the API.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Recording helpers are no-ops until Init runs, so packages can record
	// unconditionally and tests need no registry.
	requestsTotal        atomic.Pointer[prometheus.CounterVec]
	requestDuration      atomic.Pointer[prometheus.HistogramVec]
	abuseDecisionsTotal  atomic.Pointer[prometheus.CounterVec]
	adminLoginsTotal     atomic.Pointer[prometheus.CounterVec]
	rateLimitPurgedTotal atomic.Pointer[prometheus.Counter]
)

// Init registers all metrics with reg. Call once at startup.
func Init(reg prometheus.Registerer) error {
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "budbeer",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "budbeer",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	abuseDecisionsVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "budbeer",
			Subsystem: "abuse_guard",
			Name:      "decisions_total",
			Help:      "Abuse guard decisions by check and outcome",
		},
		[]string{"check", "outcome"},
	)
	if err := reg.Register(abuseDecisionsVec); err != nil {
		return fmt.Errorf("failed to register abuseDecisions: %w", err)
	}

	adminLoginsVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "budbeer",
			Subsystem: "admin",
			Name:      "logins_total",
			Help:      "Admin login attempts by outcome",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(adminLoginsVec); err != nil {
		return fmt.Errorf("failed to register adminLogins: %w", err)
	}

	purged := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "budbeer",
		Subsystem: "rate_limit",
		Name:      "purged_records_total",
		Help:      "Rate limit records removed by the background sweep",
	})
	if err := reg.Register(purged); err != nil {
		return fmt.Errorf("failed to register rateLimitPurged: %w", err)
	}

	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	abuseDecisionsTotal.Store(abuseDecisionsVec)
	adminLoginsTotal.Store(adminLoginsVec)
	rateLimitPurgedTotal.Store(&purged)
	return nil
}

// Handler returns the HTTP handler serving metrics from gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RecordRequest records one handled HTTP request.
func RecordRequest(method, path, status string, seconds float64) {
	if c := requestsTotal.Load(); c != nil {
		c.WithLabelValues(method, path, status).Inc()
	}
	if h := requestDuration.Load(); h != nil {
		h.WithLabelValues(method, path).Observe(seconds)
	}
}

// RecordAbuseDecision records a ban or rate limit outcome: passed, rejected or error.
func RecordAbuseDecision(check, outcome string) {
	if c := abuseDecisionsTotal.Load(); c != nil {
		c.WithLabelValues(check, outcome).Inc()
	}
}

// RecordLogin records an admin login outcome.
func RecordLogin(outcome string) {
	if c := adminLoginsTotal.Load(); c != nil {
		c.WithLabelValues(outcome).Inc()
	}
}

// RecordRateLimitPurged adds n swept rate limit records.
func RecordRateLimitPurged(n int64) {
	if c := rateLimitPurgedTotal.Load(); c != nil && n > 0 {
		(*c).Add(float64(n))
	}
}
