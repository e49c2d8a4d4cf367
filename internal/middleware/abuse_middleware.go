package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/utils"
)

// ContextDeviceID holds the device id resolved for guarded requests.
const ContextDeviceID = "device_id"

// SubmissionGuard decides whether a public write may proceed.
type SubmissionGuard interface {
	Check(ctx context.Context, ip, deviceID string) error
}

// AbuseMiddleware runs the ban check and submission rate limit in front of
// public write endpoints.
type AbuseMiddleware struct {
	guard SubmissionGuard
}

// NewAbuseMiddleware constructs a new AbuseMiddleware.
func NewAbuseMiddleware(guard SubmissionGuard) *AbuseMiddleware {
	return &AbuseMiddleware{guard: guard}
}

// Handle returns the gin middleware.
func (m *AbuseMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		deviceID := utils.DeviceID(c)
		c.Set(ContextDeviceID, deviceID)

		err := m.guard.Check(c.Request.Context(), ip, deviceID)
		if err == nil {
			c.Next()
			return
		}

		var banned *utils.BannedError
		switch {
		case errors.As(err, &banned):
			utils.ErrorWithDetails(c, 403, "FORBIDDEN", "Access denied", gin.H{"reason": banned.Reason})
		case errors.Is(err, utils.ErrRateLimited):
			utils.Error(c, 429, "RATE_LIMITED", "Too many submissions, try again later")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		}
		c.Abort()
	}
}
