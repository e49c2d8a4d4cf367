package models

import "time"

// Bar moderation statuses.
const (
	BarStatusPending  = "pending"
	BarStatusApproved = "approved"
	BarStatusRejected = "rejected"
)

// Bar is a crowd-sourced listing with its regular and happy hour prices.
type Bar struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Latitude       float64   `db:"latitude" json:"latitude"`
	Longitude      float64   `db:"longitude" json:"longitude"`
	RegularPrice   float64   `db:"regular_price" json:"regularPrice"`
	HappyHourPrice *float64  `db:"happy_hour_price" json:"happyHourPrice,omitempty"`
	HappyHourStart *string   `db:"happy_hour_start" json:"happyHourStart,omitempty"`
	HappyHourEnd   *string   `db:"happy_hour_end" json:"happyHourEnd,omitempty"`
	Status         string    `db:"status" json:"status"`
	SubmittedByIP  *string   `db:"submitted_by_ip" json:"submittedByIp,omitempty"`
	DeviceID       *string   `db:"device_id" json:"deviceId,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// IsValidBarStatus reports whether s is a known moderation status.
func IsValidBarStatus(s string) bool {
	switch s {
	case BarStatusPending, BarStatusApproved, BarStatusRejected:
		return true
	}
	return false
}
