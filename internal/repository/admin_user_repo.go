package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/budbeer/budbeer_api/internal/models"
)

const adminUserColumns = `id, username, password_hash, totp_secret, totp_enabled, created_at, updated_at`

// AdminUserRepository stores admin credentials. Every TOTP mutation is a
// single-row UPDATE.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByUsername returns sql.ErrNoRows when no admin has that username.
func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.GetContext(ctx, &user, `SELECT `+adminUserColumns+` FROM admin_users WHERE username = $1`, username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns sql.ErrNoRows when the admin does not exist.
func (r *AdminUserRepository) GetByID(ctx context.Context, id int) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.GetContext(ctx, &user, `SELECT `+adminUserColumns+` FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, totp_enabled, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash).
		Scan(&user.ID, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)
}

func (r *AdminUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM admin_users`)
	return n, err
}

// SetTOTPSecret stores a new enrollment secret and leaves TOTP disabled.
func (r *AdminUserRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	return r.execOne(ctx, `
		UPDATE admin_users
		SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW()
		WHERE id = $2
	`, secret, id)
}

// EnableTOTP turns TOTP on for an admin that already has a secret.
func (r *AdminUserRepository) EnableTOTP(ctx context.Context, id int) error {
	return r.execOne(ctx, `
		UPDATE admin_users
		SET totp_enabled = TRUE, updated_at = NOW()
		WHERE id = $1 AND totp_secret IS NOT NULL
	`, id)
}

// DisableTOTP clears the secret and turns TOTP off.
func (r *AdminUserRepository) DisableTOTP(ctx context.Context, id int) error {
	return r.execOne(ctx, `
		UPDATE admin_users
		SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
}

func (r *AdminUserRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
