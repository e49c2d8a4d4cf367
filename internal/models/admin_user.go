package models

import "time"

// AdminUser represents a moderator account for the admin dashboard.
// TOTPEnabled implies TOTPSecret is set; the schema enforces it with a CHECK.
type AdminUser struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	TOTPSecret   *string   `db:"totp_secret" json:"-"`
	TOTPEnabled  bool      `db:"totp_enabled" json:"totpEnabled"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// HasTOTPSecret reports whether an enrollment secret is stored.
func (u *AdminUser) HasTOTPSecret() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}
