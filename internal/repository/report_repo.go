package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/budbeer/budbeer_api/internal/models"
)

// ReportRepository provides data access methods for the reports table.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report and fills its id, status and reported_at.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO reports (bar_id, reason, reported_by_ip, device_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, reported_at
	`, report.BarID, report.Reason, report.ReportedByIP, report.DeviceID).
		Scan(&report.ID, &report.Status, &report.ReportedAt)
}

// List returns reports joined with their bar name, newest first. An empty
// status returns every report.
func (r *ReportRepository) List(ctx context.Context, status string) ([]models.Report, error) {
	reports := []models.Report{}
	query := `
		SELECT r.id, r.bar_id, b.name AS bar_name, r.reason, r.reported_by_ip,
			r.device_id, r.status, r.reported_at
		FROM reports r
		LEFT JOIN bars b ON b.id = r.bar_id
	`
	if status == "" {
		err := r.db.SelectContext(ctx, &reports, query+` ORDER BY r.reported_at DESC`)
		return reports, err
	}
	err := r.db.SelectContext(ctx, &reports, query+` WHERE r.status = $1 ORDER BY r.reported_at DESC`, status)
	return reports, err
}

// SetStatus updates the status of a report.
func (r *ReportRepository) SetStatus(ctx context.Context, id int, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reports SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Delete removes a report.
func (r *ReportRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
