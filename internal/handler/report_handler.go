package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/middleware"
	"github.com/budbeer/budbeer_api/internal/service"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// ReportHandler serves bar reports for the public and for admins.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SubmitReport handles POST /api/bars/:id/report
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	barID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason   string `json:"reason"`
		DeviceID string `json:"deviceId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	deviceID := c.GetString(middleware.ContextDeviceID)
	if deviceID == "" {
		deviceID = req.DeviceID
	}

	report, err := h.reportService.Submit(c.Request.Context(), barID, req.Reason, c.ClientIP(), deviceID)
	if err != nil {
		respondError(c, err, "Failed to submit report")
		return
	}

	utils.Success(c, 201, "Report submitted successfully", gin.H{"id": report.ID})
}

// ListReports handles GET /api/admin/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.reportService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err, "Failed to fetch reports")
		return
	}

	utils.Success(c, 200, "Reports retrieved", reports)
}

// UpdateReportStatus handles PATCH /api/admin/reports/:id
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Status required")
		return
	}

	if err := h.reportService.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err, "Failed to update report")
		return
	}

	utils.Success(c, 200, "Report updated successfully", gin.H{"id": id, "status": req.Status})
}

// DeleteReport handles DELETE /api/admin/reports/:id
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete report")
		return
	}

	utils.Success(c, 200, "Report deleted successfully", gin.H{"id": id})
}
