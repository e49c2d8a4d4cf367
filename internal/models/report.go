package models

import "time"

// Report statuses.
const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusResolved = "resolved"
)

// Report is a user complaint about a bar listing.
type Report struct {
	ID           int       `db:"id" json:"id"`
	BarID        int       `db:"bar_id" json:"barId"`
	BarName      *string   `db:"bar_name" json:"barName,omitempty"`
	Reason       string    `db:"reason" json:"reason"`
	ReportedByIP *string   `db:"reported_by_ip" json:"reportedByIp,omitempty"`
	DeviceID     *string   `db:"device_id" json:"deviceId,omitempty"`
	Status       string    `db:"status" json:"status"`
	ReportedAt   time.Time `db:"reported_at" json:"reportedAt"`
}

// IsValidReportStatus reports whether s is a known report status.
func IsValidReportStatus(s string) bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusResolved:
		return true
	}
	return false
}
