package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// RateLimitRepository stores one row per accepted public submission.
type RateLimitRepository struct {
	db *sqlx.DB
}

// NewRateLimitRepository creates a new RateLimitRepository.
func NewRateLimitRepository(db *sqlx.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Purge deletes records created before the given time.
func (r *RateLimitRepository) Purge(ctx context.Context, before time.Time) error {
	_, err := r.PurgeCount(ctx, before)
	return err
}

// PurgeCount deletes records created before the given time and reports how many went.
func (r *RateLimitRepository) PurgeCount(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rate_limit WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByIP counts records for ip created at or after since.
func (r *RateLimitRepository) CountByIP(ctx context.Context, ip string, since time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM rate_limit WHERE ip = $1 AND created_at >= $2`, ip, since)
	return n, err
}

// CountByDevice counts records for deviceID created at or after since.
func (r *RateLimitRepository) CountByDevice(ctx context.Context, deviceID string, since time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM rate_limit WHERE device_id = $1 AND created_at >= $2`, deviceID, since)
	return n, err
}

// Record inserts one submission stamped at.
func (r *RateLimitRepository) Record(ctx context.Context, ip, deviceID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO rate_limit (ip, device_id, created_at) VALUES ($1, $2, $3)`,
		ip, nullString(deviceID), at)
	return err
}
