package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/service"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// AdminBarHandler handles bar moderation endpoints.
type AdminBarHandler struct {
	barService *service.BarService
}

// NewAdminBarHandler constructs an AdminBarHandler.
func NewAdminBarHandler(barService *service.BarService) *AdminBarHandler {
	return &AdminBarHandler{barService: barService}
}

// ListBars handles GET /api/admin/bars
func (h *AdminBarHandler) ListBars(c *gin.Context) {
	bars, err := h.barService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err, "Failed to fetch bars")
		return
	}

	utils.Success(c, 200, "Bars retrieved", bars)
}

// ApproveBar handles PATCH /api/admin/bars/:id/approve
func (h *AdminBarHandler) ApproveBar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.barService.Approve(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to approve bar")
		return
	}

	utils.Success(c, 200, "Bar approved successfully", gin.H{"id": id})
}

// RejectBar handles PATCH /api/admin/bars/:id/reject
func (h *AdminBarHandler) RejectBar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.barService.Reject(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to reject bar")
		return
	}

	utils.Success(c, 200, "Bar rejected successfully", gin.H{"id": id})
}

// UpdateBar handles PUT /api/admin/bars/:id
func (h *AdminBarHandler) UpdateBar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.BarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing required fields: name, latitude, longitude, regularPrice")
		return
	}

	bar, err := h.barService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update bar")
		return
	}

	utils.Success(c, 200, "Bar updated successfully", bar)
}

// DeleteBar handles DELETE /api/admin/bars/:id
func (h *AdminBarHandler) DeleteBar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.barService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete bar")
		return
	}

	utils.Success(c, 200, "Bar deleted successfully", gin.H{"id": id})
}

// Stats handles GET /api/admin/stats
func (h *AdminBarHandler) Stats(c *gin.Context) {
	stats, err := h.barService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch stats")
		return
	}

	utils.Success(c, 200, "Stats retrieved", stats)
}
