package models

import "time"

// Ban denies public submissions from an IP address, a device, or both.
// A NULL column never matches.
type Ban struct {
	ID       int       `db:"id" json:"id"`
	IP       *string   `db:"ip" json:"ip,omitempty"`
	DeviceID *string   `db:"device_id" json:"deviceId,omitempty"`
	Reason   string    `db:"reason" json:"reason"`
	BannedAt time.Time `db:"banned_at" json:"bannedAt"`
}
