package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/middleware"
	"github.com/budbeer/budbeer_api/internal/service"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// BarHandler serves the public bar endpoints.
type BarHandler struct {
	barService *service.BarService
}

// NewBarHandler constructs a BarHandler.
func NewBarHandler(barService *service.BarService) *BarHandler {
	return &BarHandler{barService: barService}
}

// ListBars handles GET /api/bars
func (h *BarHandler) ListBars(c *gin.Context) {
	bars, err := h.barService.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch bars")
		return
	}

	utils.Success(c, 200, "Bars retrieved", bars)
}

// SubmitBar handles POST /api/bars
func (h *BarHandler) SubmitBar(c *gin.Context) {
	var req service.BarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing required fields: name, latitude, longitude, regularPrice")
		return
	}

	deviceID := c.GetString(middleware.ContextDeviceID)
	if deviceID == "" {
		deviceID = req.DeviceID
	}

	bar, err := h.barService.Submit(c.Request.Context(), &req, c.ClientIP(), deviceID)
	if err != nil {
		respondError(c, err, "Failed to create bar")
		return
	}

	utils.Success(c, 201, "Bar submitted successfully. It will be visible after admin approval.", gin.H{
		"id": bar.ID,
	})
}
