package models

// DashboardStats summarizes moderation queues for the admin dashboard.
type DashboardStats struct {
	Pending        int `db:"pending" json:"pending"`
	Approved       int `db:"approved" json:"approved"`
	Rejected       int `db:"rejected" json:"rejected"`
	BannedIPs      int `db:"banned" json:"bannedIPs"`
	PendingReports int `db:"pending_reports" json:"pendingReports"`
}
