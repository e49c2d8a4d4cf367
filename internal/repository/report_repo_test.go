package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budbeer/budbeer_api/internal/models"
)

func TestReportRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)
	reported := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	device := "dev-1"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reports (bar_id, reason, reported_by_ip, device_id)`)).
		WithArgs(4, "closed down", nil, "dev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "reported_at"}).AddRow(2, "pending", reported))

	report := &models.Report{BarID: 4, Reason: "closed down", DeviceID: &device}
	require.NoError(t, repo.Create(context.Background(), report))
	assert.Equal(t, 2, report.ID)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.Equal(t, reported, report.ReportedAt)
}

func TestReportRepository_ListByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)
	reported := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE r.status = $1 ORDER BY r.reported_at DESC`)).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "bar_id", "bar_name", "reason", "reported_by_ip", "device_id", "status", "reported_at"}).
			AddRow(2, 4, "Tap Room", "closed down", "1.2.3.4", nil, "pending", reported))

	reports, err := repo.List(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].BarName)
	assert.Equal(t, "Tap Room", *reports[0].BarName)
}

func TestReportRepository_SetStatusAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reports SET status = $1 WHERE id = $2`)).
		WithArgs("resolved", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetStatus(context.Background(), 2, "resolved"))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reports WHERE id = $1`)).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 8), ErrNoRowsAffected)
}
