package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/budbeer/budbeer_api/internal/models"
)

const barColumns = `id, name, latitude, longitude, regular_price, happy_hour_price,
	happy_hour_start, happy_hour_end, status, submitted_by_ip, device_id, created_at`

// BarRepository provides data access methods for the bars table.
type BarRepository struct {
	db *sqlx.DB
}

// NewBarRepository creates a new BarRepository.
func NewBarRepository(db *sqlx.DB) *BarRepository {
	return &BarRepository{db: db}
}

// ListByStatus returns bars with the given status, newest first. An empty
// status returns every bar.
func (r *BarRepository) ListByStatus(ctx context.Context, status string) ([]models.Bar, error) {
	bars := []models.Bar{}
	if status == "" {
		err := r.db.SelectContext(ctx, &bars, `SELECT `+barColumns+` FROM bars ORDER BY created_at DESC`)
		return bars, err
	}
	err := r.db.SelectContext(ctx, &bars, `SELECT `+barColumns+` FROM bars WHERE status = $1 ORDER BY created_at DESC`, status)
	return bars, err
}

// GetByID returns sql.ErrNoRows when the bar does not exist.
func (r *BarRepository) GetByID(ctx context.Context, id int) (*models.Bar, error) {
	var bar models.Bar
	if err := r.db.GetContext(ctx, &bar, `SELECT `+barColumns+` FROM bars WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &bar, nil
}

// Create inserts a new bar and fills its id, status and created_at.
func (r *BarRepository) Create(ctx context.Context, bar *models.Bar) error {
	query := `
		INSERT INTO bars (name, latitude, longitude, regular_price, happy_hour_price,
			happy_hour_start, happy_hour_end, submitted_by_ip, device_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		bar.Name,
		bar.Latitude,
		bar.Longitude,
		bar.RegularPrice,
		bar.HappyHourPrice,
		bar.HappyHourStart,
		bar.HappyHourEnd,
		bar.SubmittedByIP,
		bar.DeviceID,
	).Scan(&bar.ID, &bar.Status, &bar.CreatedAt)
}

// Update rewrites the editable fields of a bar.
func (r *BarRepository) Update(ctx context.Context, bar *models.Bar) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bars
		SET name = $1, latitude = $2, longitude = $3, regular_price = $4,
			happy_hour_price = $5, happy_hour_start = $6, happy_hour_end = $7
		WHERE id = $8
	`,
		bar.Name,
		bar.Latitude,
		bar.Longitude,
		bar.RegularPrice,
		bar.HappyHourPrice,
		bar.HappyHourStart,
		bar.HappyHourEnd,
		bar.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// SetStatus changes the moderation status of a bar.
func (r *BarRepository) SetStatus(ctx context.Context, id int, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bars SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Delete removes a bar; its reports cascade.
func (r *BarRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Exists reports whether a bar with id exists.
func (r *BarRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bars WHERE id = $1)`, id)
	return exists, err
}

// Stats counts bars per status together with bans and pending reports.
func (r *BarRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM bars WHERE status = 'pending')      AS pending,
			(SELECT COUNT(*) FROM bars WHERE status = 'approved')     AS approved,
			(SELECT COUNT(*) FROM bars WHERE status = 'rejected')     AS rejected,
			(SELECT COUNT(*) FROM banned_ips)                         AS banned,
			(SELECT COUNT(*) FROM reports WHERE status = 'pending')   AS pending_reports
	`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
