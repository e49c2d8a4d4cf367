package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/middleware"
	"github.com/budbeer/budbeer_api/internal/service"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// AuthHandler serves admin login and two-factor management.
type AuthHandler struct {
	authService *service.AdminAuthService
	limiter     *middleware.LoginAttemptLimiter
}

func NewAuthHandler(authService *service.AdminAuthService, limiter *middleware.LoginAttemptLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Username and password required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.recordFailure(c, err)
		respondError(c, err, "Login failed")
		return
	}

	if result.RequiresSecondFactor {
		utils.Success(c, 200, "Two-factor code required", gin.H{
			"requiresSecondFactor": true,
			"pendingToken":      result.PendingToken,
			"expiresAt":         result.ExpiresAt,
		})
		return
	}

	h.limiter.Reset(c.ClientIP())
	utils.Success(c, 200, "Login successful", gin.H{
		"token":     result.SessionToken,
		"username":  result.Username,
		"expiresAt": result.ExpiresAt,
	})
}

// LoginSecondFactor handles POST /api/admin/login/2fa
func (h *AuthHandler) LoginSecondFactor(c *gin.Context) {
	var req struct {
		PendingToken string `json:"pendingToken" binding:"required"`
		Code         string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Pending token and code required")
		return
	}

	result, err := h.authService.VerifySecondFactor(c.Request.Context(), req.PendingToken, req.Code)
	if err != nil {
		h.recordFailure(c, err)
		respondError(c, err, "Login failed")
		return
	}

	h.limiter.Reset(c.ClientIP())
	utils.Success(c, 200, "Login successful", gin.H{
		"token":     result.SessionToken,
		"username":  result.Username,
		"expiresAt": result.ExpiresAt,
	})
}

// TwoFactorStatus handles GET /api/admin/2fa/status
func (h *AuthHandler) TwoFactorStatus(c *gin.Context) {
	admin, err := h.authService.GetAdmin(c.Request.Context(), c.GetInt(middleware.ContextAdminID))
	if err != nil {
		respondError(c, err, "Failed to fetch two-factor status")
		return
	}

	utils.Success(c, 200, "Two-factor status", gin.H{
		"enabled": admin.TOTPEnabled,
	})
}

// SetupTwoFactor handles POST /api/admin/2fa/setup
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	enrollment, err := h.authService.BeginTOTPEnrollment(c.Request.Context(), c.GetInt(middleware.ContextAdminID))
	if err != nil {
		respondError(c, err, "Failed to start two-factor setup")
		return
	}

	utils.Success(c, 200, "Scan the code and confirm with a generated code", enrollment)
}

// EnableTwoFactor handles POST /api/admin/2fa/enable
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Code required")
		return
	}

	if err := h.authService.ConfirmTOTPEnrollment(c.Request.Context(), c.GetInt(middleware.ContextAdminID), req.Code); err != nil {
		respondError(c, err, "Failed to enable two-factor authentication")
		return
	}

	utils.Success(c, 200, "Two-factor authentication enabled", gin.H{"enabled": true})
}

// DisableTwoFactor handles POST /api/admin/2fa/disable
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Password required")
		return
	}

	if err := h.authService.DisableTOTP(c.Request.Context(), c.GetInt(middleware.ContextAdminID), req.Password); err != nil {
		respondError(c, err, "Failed to disable two-factor authentication")
		return
	}

	utils.Success(c, 200, "Two-factor authentication disabled", gin.H{"enabled": false})
}

// Me handles GET /api/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	admin, err := h.authService.GetAdmin(c.Request.Context(), c.GetInt(middleware.ContextAdminID))
	if err != nil {
		respondError(c, err, "Failed to fetch admin")
		return
	}

	utils.Success(c, 200, "Admin retrieved", admin)
}

func (h *AuthHandler) recordFailure(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrInvalidCredentials) || errors.Is(err, utils.ErrInvalidCode) {
		h.limiter.RecordFailure(c.ClientIP())
	}
}
