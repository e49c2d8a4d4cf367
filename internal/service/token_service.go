package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/budbeer/budbeer_api/internal/config"
	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// Token kinds. Both are signed with the same key; the kind claim tells them apart.
const (
	TokenKindPending = "pending-2fa"
	TokenKindSession = "session"
)

// TokenClaims is the JWT payload for admin tokens.
type TokenClaims struct {
	AdminID  int    `json:"id"`
	Username string `json:"username,omitempty"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService signs and verifies stateless admin tokens.
type TokenService struct {
	secret     []byte
	pendingTTL time.Duration
	sessionTTL time.Duration
	now        func() time.Time
}

// NewTokenService builds a TokenService from the process configuration.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		pendingTTL: cfg.Auth.PendingTokenTTL,
		sessionTTL: cfg.Auth.SessionTokenTTL,
		now:        time.Now,
	}
}

// IssuePending signs a short-lived token asserting that the password of
// adminID was verified and a second factor is still required.
func (s *TokenService) IssuePending(adminID int) (*IssuedToken, error) {
	return s.issue(TokenClaims{AdminID: adminID, Kind: TokenKindPending}, s.pendingTTL)
}

// IssueSession signs a fully authenticated session token for admin.
func (s *TokenService) IssueSession(admin *models.AdminUser) (*IssuedToken, error) {
	return s.issue(TokenClaims{AdminID: admin.ID, Username: admin.Username, Kind: TokenKindSession}, s.sessionTTL)
}

func (s *TokenService) issue(claims TokenClaims, ttl time.Duration) (*IssuedToken, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.Itoa(claims.AdminID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, ExpiresAt: exp}, nil
}

// Verify checks the signature, expiry and kind of token. It returns
// utils.ErrInvalidSignature, utils.ErrTokenExpired or utils.ErrWrongKind.
// No server-side state is consulted.
func (s *TokenService) Verify(token, expectedKind string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.ErrTokenExpired
		}
		return nil, utils.ErrInvalidSignature
	}

	if claims.Kind != expectedKind {
		return nil, utils.ErrWrongKind
	}
	return claims, nil
}
