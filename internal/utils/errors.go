package utils

import "errors"

// Common application errors used across services. Handlers map them to
// HTTP status codes; anything else surfaces as an internal error.
var (
	ErrInvalidCredentials    = errors.New("INVALID_CREDENTIALS")
	ErrInvalidOrExpiredToken = errors.New("INVALID_OR_EXPIRED_TOKEN")
	ErrNotConfigured         = errors.New("TWO_FACTOR_NOT_CONFIGURED")
	ErrInvalidCode           = errors.New("INVALID_CODE")
	ErrForbidden             = errors.New("FORBIDDEN")
	ErrRateLimited           = errors.New("RATE_LIMITED")
	ErrInternal              = errors.New("INTERNAL_ERROR")
	ErrTOTPAlreadyEnabled    = errors.New("TWO_FACTOR_ALREADY_ENABLED")

	ErrInvalidSignature = errors.New("INVALID_SIGNATURE")
	ErrTokenExpired     = errors.New("TOKEN_EXPIRED")
	ErrWrongKind        = errors.New("WRONG_TOKEN_KIND")

	ErrNotFound     = errors.New("NOT_FOUND")
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

// BannedError rejects a request that matched a ban entry. It carries the
// reason stored with the ban and matches ErrForbidden under errors.Is.
type BannedError struct {
	Reason string
}

func (e *BannedError) Error() string {
	return "FORBIDDEN: " + e.Reason
}

// Is lets errors.Is(err, ErrForbidden) match.
func (e *BannedError) Is(target error) bool {
	return target == ErrForbidden
}
