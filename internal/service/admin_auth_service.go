package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/budbeer/budbeer_api/internal/metrics"
	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// AdminStore is the credential store used by AdminAuthService.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id int) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	Count(ctx context.Context) (int, error)
	SetTOTPSecret(ctx context.Context, id int, secret string) error
	EnableTOTP(ctx context.Context, id int) error
	DisableTOTP(ctx context.Context, id int) error
}

// LoginResult is the outcome of a login step. Exactly one of SessionToken or
// PendingToken is set.
type LoginResult struct {
	SessionToken         string
	PendingToken         string
	RequiresSecondFactor bool
	Username             string
	ExpiresAt            int64
}

// AdminAuthService runs the two-step admin login and TOTP enrollment.
type AdminAuthService struct {
	adminRepo AdminStore
	tokens    *TokenService
	totp      *TOTPService
	hashCost  int
}

// NewAdminAuthService creates an AdminAuthService.
func NewAdminAuthService(adminRepo AdminStore, tokens *TokenService, totp *TOTPService) *AdminAuthService {
	return &AdminAuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
		totp:      totp,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Login verifies username and password. Without TOTP it returns a session
// token; with TOTP it returns only a pending token.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().Str("username", username).Msg("Login with unknown username")
			metrics.RecordLogin("invalid_credentials")
			return nil, utils.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: load admin: %w", utils.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("Password verification failed")
		metrics.RecordLogin("invalid_credentials")
		return nil, utils.ErrInvalidCredentials
	}

	if user.TOTPEnabled {
		pending, err := s.tokens.IssuePending(user.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: issue pending token: %w", utils.ErrInternal, err)
		}
		log.Info().Int("admin_id", user.ID).Msg("Password accepted, second factor required")
		metrics.RecordLogin("second_factor_required")
		return &LoginResult{
			PendingToken:         pending.Token,
			RequiresSecondFactor: true,
			ExpiresAt:            pending.ExpiresAt.Unix(),
		}, nil
	}

	log.Info().Int("admin_id", user.ID).Msg("Login successful")
	metrics.RecordLogin("success")
	return s.sessionResult(user)
}

// VerifySecondFactor completes a login started by Login for an admin with TOTP
// enabled. The pending token is not consumed and stays usable until it expires.
func (s *AdminAuthService) VerifySecondFactor(ctx context.Context, pendingToken, code string) (*LoginResult, error) {
	claims, err := s.tokens.Verify(pendingToken, TokenKindPending)
	if err != nil {
		metrics.RecordLogin("invalid_pending_token")
		return nil, utils.ErrInvalidOrExpiredToken
	}

	user, err := s.adminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("%w: load admin: %w", utils.ErrInternal, err)
	}
	if !user.HasTOTPSecret() {
		return nil, utils.ErrNotConfigured
	}

	if !s.totp.Validate(code, *user.TOTPSecret) {
		log.Warn().Int("admin_id", user.ID).Msg("Invalid TOTP code")
		metrics.RecordLogin("invalid_code")
		return nil, utils.ErrInvalidCode
	}

	log.Info().Int("admin_id", user.ID).Msg("Two-factor login successful")
	metrics.RecordLogin("success")
	return s.sessionResult(user)
}

// BeginTOTPEnrollment stores a fresh secret for the admin with TOTP still
// disabled and returns it with its provisioning URI. Calling it again before
// confirmation replaces the pending secret.
func (s *AdminAuthService) BeginTOTPEnrollment(ctx context.Context, adminID int) (*TOTPEnrollment, error) {
	user, err := s.getAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	// Re-enrolling would reset totp_enabled and bypass the password check in DisableTOTP.
	if user.TOTPEnabled {
		return nil, utils.ErrTOTPAlreadyEnabled
	}

	enrollment, err := s.totp.Generate(user.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: generate totp secret: %w", utils.ErrInternal, err)
	}
	if err := s.adminRepo.SetTOTPSecret(ctx, user.ID, enrollment.Secret); err != nil {
		return nil, fmt.Errorf("%w: store totp secret: %w", utils.ErrInternal, err)
	}

	log.Info().Int("admin_id", user.ID).Msg("TOTP enrollment started")
	return enrollment, nil
}

// ConfirmTOTPEnrollment enables TOTP once code matches the stored secret.
// A wrong code leaves TOTP disabled and the enrollment can be retried.
func (s *AdminAuthService) ConfirmTOTPEnrollment(ctx context.Context, adminID int, code string) error {
	user, err := s.getAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !user.HasTOTPSecret() {
		return utils.ErrNotConfigured
	}
	if !s.totp.Validate(code, *user.TOTPSecret) {
		return utils.ErrInvalidCode
	}
	if err := s.adminRepo.EnableTOTP(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: enable totp: %w", utils.ErrInternal, err)
	}

	log.Info().Int("admin_id", user.ID).Msg("TOTP enabled")
	return nil
}

// DisableTOTP clears the TOTP secret after re-checking the admin's password.
func (s *AdminAuthService) DisableTOTP(ctx context.Context, adminID int, password string) error {
	user, err := s.getAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Int("admin_id", user.ID).Msg("Password verification failed on TOTP disable")
		return utils.ErrInvalidCredentials
	}
	if err := s.adminRepo.DisableTOTP(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: disable totp: %w", utils.ErrInternal, err)
	}

	log.Info().Int("admin_id", user.ID).Msg("TOTP disabled")
	return nil
}

// GetAdmin returns the admin with the given id.
func (s *AdminAuthService) GetAdmin(ctx context.Context, adminID int) (*models.AdminUser, error) {
	return s.getAdmin(ctx, adminID)
}

// CreateAdmin provisions a new admin account.
func (s *AdminAuthService) CreateAdmin(ctx context.Context, username, password string) (*models.AdminUser, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &models.AdminUser{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}
	if err := s.adminRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureSeedAdmin creates the default admin account when no admin exists yet.
func (s *AdminAuthService) EnsureSeedAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.adminRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		return false, err
	}
	log.Warn().Str("username", username).Msg("Seed admin account created, change its password")
	return true, nil
}

func (s *AdminAuthService) getAdmin(ctx context.Context, adminID int) (*models.AdminUser, error) {
	user, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("%w: load admin: %w", utils.ErrInternal, err)
	}
	return user, nil
}

func (s *AdminAuthService) sessionResult(user *models.AdminUser) (*LoginResult, error) {
	session, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, fmt.Errorf("%w: issue session token: %w", utils.ErrInternal, err)
	}
	return &LoginResult{
		SessionToken: session.Token,
		Username:     user.Username,
		ExpiresAt:    session.ExpiresAt.Unix(),
	}, nil
}
