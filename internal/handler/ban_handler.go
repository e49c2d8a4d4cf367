package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/service"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// BanHandler manages banned IPs and devices.
type BanHandler struct {
	banService *service.BanService
}

// NewBanHandler constructs a BanHandler.
func NewBanHandler(banService *service.BanService) *BanHandler {
	return &BanHandler{banService: banService}
}

// ListBans handles GET /api/admin/banned-ips
func (h *BanHandler) ListBans(c *gin.Context) {
	bans, err := h.banService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch banned IPs")
		return
	}

	utils.Success(c, 200, "Bans retrieved", bans)
}

// CreateBan handles POST /api/admin/banned-ips
func (h *BanHandler) CreateBan(c *gin.Context) {
	var req service.CreateBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ban, err := h.banService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create ban")
		return
	}

	utils.Success(c, 201, "Ban created successfully", ban)
}

// DeleteBan handles DELETE /api/admin/banned-ips/:id
func (h *BanHandler) DeleteBan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.banService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to remove ban")
		return
	}

	utils.Success(c, 200, "Ban removed successfully", gin.H{"id": id})
}
