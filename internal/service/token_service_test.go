package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/utils"
)

func TestTokenService_SessionRoundTrip(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	s := newTestTokenService(clock)

	issued, err := s.IssueSession(&models.AdminUser{ID: 7, Username: "admin"})
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(24*time.Hour), issued.ExpiresAt)

	claims, err := s.Verify(issued.Token, TokenKindSession)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, TokenKindSession, claims.Kind)
}

func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	s := newTestTokenService(newFakeClock(time.Unix(1700000000, 0)))

	pending, err := s.IssuePending(7)
	require.NoError(t, err)
	session, err := s.IssueSession(&models.AdminUser{ID: 7, Username: "admin"})
	require.NoError(t, err)

	_, err = s.Verify(pending.Token, TokenKindSession)
	assert.ErrorIs(t, err, utils.ErrWrongKind)

	_, err = s.Verify(session.Token, TokenKindPending)
	assert.ErrorIs(t, err, utils.ErrWrongKind)

	claims, err := s.Verify(pending.Token, TokenKindPending)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.AdminID)
	assert.Empty(t, claims.Username)
}

func TestTokenService_PendingExpires(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	s := newTestTokenService(clock)

	pending, err := s.IssuePending(1)
	require.NoError(t, err)

	clock.Advance(4*time.Minute + 59*time.Second)
	_, err = s.Verify(pending.Token, TokenKindPending)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = s.Verify(pending.Token, TokenKindPending)
	assert.ErrorIs(t, err, utils.ErrTokenExpired)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	s := newTestTokenService(clock)

	other := newTestTokenService(clock)
	other.secret = []byte("another-secret")
	issued, err := other.IssueSession(&models.AdminUser{ID: 1, Username: "admin"})
	require.NoError(t, err)

	_, err = s.Verify(issued.Token, TokenKindSession)
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)
}

func TestTokenService_RejectsMalformedAndUnsigned(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	s := newTestTokenService(clock)

	_, err := s.Verify("not-a-token", TokenKindSession)
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)

	claims := TokenClaims{
		AdminID: 1,
		Kind:    TokenKindSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Verify(unsigned, TokenKindSession)
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	s := newTestTokenService(newFakeClock(time.Unix(1700000000, 0)))

	claims := TokenClaims{AdminID: 1, Kind: TokenKindSession}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	require.NoError(t, err)

	_, err = s.Verify(token, TokenKindSession)
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)
}
