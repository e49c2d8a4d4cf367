package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitRepository_PurgeCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRateLimitRepository(db)
	before := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rate_limit WHERE created_at < $1`)).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.PurgeCount(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestRateLimitRepository_Counts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRateLimitRepository(db)
	since := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM rate_limit WHERE ip = $1`)).
		WithArgs("9.9.9.9", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM rate_limit WHERE device_id = $1`)).
		WithArgs("abc", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	ipCount, err := repo.CountByIP(context.Background(), "9.9.9.9", since)
	require.NoError(t, err)
	assert.Equal(t, 10, ipCount)

	deviceCount, err := repo.CountByDevice(context.Background(), "abc", since)
	require.NoError(t, err)
	assert.Equal(t, 2, deviceCount)
}

func TestRateLimitRepository_RecordWithoutDevice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRateLimitRepository(db)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rate_limit (ip, device_id, created_at)`)).
		WithArgs("9.9.9.9", nil, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Record(context.Background(), "9.9.9.9", "", at))
}
