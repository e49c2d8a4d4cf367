package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/budbeer/budbeer_api/internal/utils"
)

// respondError maps service errors to HTTP responses. Unknown errors are
// logged and answered with a generic 500 carrying fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var banned *utils.BannedError
	switch {
	case errors.Is(err, utils.ErrInvalidInput):
		utils.Error(c, 400, "INVALID_REQUEST", inputMessage(err))
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "NOT_FOUND", "Resource not found")
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, utils.ErrInvalidOrExpiredToken):
		utils.Error(c, 401, "INVALID_OR_EXPIRED_TOKEN", "Invalid or expired token")
	case errors.Is(err, utils.ErrInvalidCode):
		utils.Error(c, 401, "INVALID_CODE", "Invalid verification code")
	case errors.Is(err, utils.ErrNotConfigured):
		utils.Error(c, 400, "TWO_FACTOR_NOT_CONFIGURED", "Two-factor authentication is not set up")
	case errors.Is(err, utils.ErrTOTPAlreadyEnabled):
		utils.Error(c, 409, "TWO_FACTOR_ALREADY_ENABLED", "Two-factor authentication is already enabled")
	case errors.As(err, &banned):
		utils.ErrorWithDetails(c, 403, "FORBIDDEN", "Access denied", gin.H{"reason": banned.Reason})
	case errors.Is(err, utils.ErrRateLimited):
		utils.Error(c, 429, "RATE_LIMITED", "Too many submissions, try again later")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		utils.Error(c, 500, "INTERNAL_ERROR", fallback)
	}
}

func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), utils.ErrInvalidInput.Error()+": ")
	if msg == "" || msg == utils.ErrInvalidInput.Error() {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
