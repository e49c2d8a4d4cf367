package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budbeer/budbeer_api/internal/models"
)

var findMatchQuery = regexp.QuoteMeta(`WHERE (ip IS NOT NULL AND ip = $1)`)

func TestBanRepository_FindMatchByIP(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBanRepository(db)
	bannedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(findMatchQuery).
		WithArgs("1.2.3.4", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ip", "device_id", "reason", "banned_at"}).
			AddRow(7, "1.2.3.4", nil, "spam", bannedAt))

	ban, err := repo.FindMatch(context.Background(), "1.2.3.4", "")
	require.NoError(t, err)
	require.NotNil(t, ban)
	assert.Equal(t, 7, ban.ID)
	assert.Equal(t, "spam", ban.Reason)
	require.NotNil(t, ban.IP)
	assert.Equal(t, "1.2.3.4", *ban.IP)
	assert.Nil(t, ban.DeviceID)
}

func TestBanRepository_FindMatchNone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBanRepository(db)

	mock.ExpectQuery(findMatchQuery).
		WithArgs("9.9.9.9", "abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ip", "device_id", "reason", "banned_at"}))

	ban, err := repo.FindMatch(context.Background(), "9.9.9.9", "abc")
	require.NoError(t, err)
	assert.Nil(t, ban)
}

func TestBanRepository_FindMatchSkipsEmptyKeys(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewBanRepository(db)

	ban, err := repo.FindMatch(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, ban)
}

func TestBanRepository_FindMatchError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBanRepository(db)

	mock.ExpectQuery(findMatchQuery).WillReturnError(errors.New("connection reset"))

	ban, err := repo.FindMatch(context.Background(), "1.2.3.4", "")
	assert.Nil(t, ban)
	assert.EqualError(t, err, "connection reset")
}

func TestBanRepository_CreateAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBanRepository(db)
	device := "abc"
	bannedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO banned_ips (ip, device_id, reason)`)).
		WithArgs(nil, "abc", "bot").
		WillReturnRows(sqlmock.NewRows([]string{"id", "banned_at"}).AddRow(3, bannedAt))

	ban := &models.Ban{DeviceID: &device, Reason: "bot"}
	require.NoError(t, repo.Create(context.Background(), ban))
	assert.Equal(t, 3, ban.ID)
	assert.Equal(t, bannedAt, ban.BannedAt)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM banned_ips WHERE id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 3))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM banned_ips WHERE id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrNoRowsAffected)
}
