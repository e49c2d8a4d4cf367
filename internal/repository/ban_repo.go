package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/budbeer/budbeer_api/internal/models"
)

// BanRepository provides data access for the banned_ips deny list.
type BanRepository struct {
	db *sqlx.DB
}

// NewBanRepository creates a new BanRepository.
func NewBanRepository(db *sqlx.DB) *BanRepository {
	return &BanRepository{db: db}
}

// FindMatch returns the most recent ban whose ip equals ip or whose device_id
// equals deviceID, or nil when none does. Empty arguments are bound as NULL
// and NULL columns never compare equal, so they cannot match.
func (r *BanRepository) FindMatch(ctx context.Context, ip, deviceID string) (*models.Ban, error) {
	if ip == "" && deviceID == "" {
		return nil, nil
	}

	var ban models.Ban
	err := r.db.GetContext(ctx, &ban, `
		SELECT id, ip, device_id, reason, banned_at
		FROM banned_ips
		WHERE (ip IS NOT NULL AND ip = $1)
		   OR (device_id IS NOT NULL AND device_id = $2)
		ORDER BY banned_at DESC
		LIMIT 1
	`, nullString(ip), nullString(deviceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ban, nil
}

// List returns all bans, newest first.
func (r *BanRepository) List(ctx context.Context) ([]models.Ban, error) {
	bans := []models.Ban{}
	err := r.db.SelectContext(ctx, &bans, `
		SELECT id, ip, device_id, reason, banned_at
		FROM banned_ips
		ORDER BY banned_at DESC
	`)
	return bans, err
}

// Create inserts a ban; ban.IP and ban.DeviceID may be nil but not both.
func (r *BanRepository) Create(ctx context.Context, ban *models.Ban) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO banned_ips (ip, device_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, banned_at
	`, ban.IP, ban.DeviceID, ban.Reason).Scan(&ban.ID, &ban.BannedAt)
}

// Delete removes a ban by id. It returns ErrNoRowsAffected when none existed.
func (r *BanRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banned_ips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
