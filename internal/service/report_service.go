package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/repository"
	"github.com/budbeer/budbeer_api/internal/sse"
	"github.com/budbeer/budbeer_api/internal/utils"
)

const maxReportReasonLength = 500

// ReportService handles user reports about bars.
type ReportService struct {
	reportRepo *repository.ReportRepository
	barRepo    *repository.BarRepository
	notifier   sse.ModerationNotifier
}

// NewReportService creates a ReportService.
func NewReportService(reportRepo *repository.ReportRepository, barRepo *repository.BarRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, barRepo: barRepo, notifier: sse.NopNotifier{}}
}

// SetNotifier announces new reports to connected admins.
func (s *ReportService) SetNotifier(n sse.ModerationNotifier) {
	s.notifier = n
}

// ValidateReason trims reason and checks it is present and at most 500 characters.
func ValidateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: reason is required", utils.ErrInvalidInput)
	}
	if utf8.RuneCountInString(reason) > maxReportReasonLength {
		return "", fmt.Errorf("%w: reason is too long (max %d characters)", utils.ErrInvalidInput, maxReportReasonLength)
	}
	return reason, nil
}

// Submit files a report against barID.
func (s *ReportService) Submit(ctx context.Context, barID int, reason, ip, deviceID string) (*models.Report, error) {
	reason, err := ValidateReason(reason)
	if err != nil {
		return nil, err
	}

	exists, err := s.barRepo.Exists(ctx, barID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, utils.ErrNotFound
	}

	report := &models.Report{
		BarID:        barID,
		Reason:       reason,
		ReportedByIP: optional(ip),
		DeviceID:     optional(deviceID),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	log.Info().Int("report_id", report.ID).Int("bar_id", barID).Msg("Bar reported")
	s.notifier.NotifyReportSubmitted(report)
	return report, nil
}

// List returns reports, optionally filtered by status.
func (s *ReportService) List(ctx context.Context, status string) ([]models.Report, error) {
	if status != "" && !models.IsValidReportStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, status)
	}
	return s.reportRepo.List(ctx, status)
}

// SetStatus moves a report through pending, reviewed and resolved.
func (s *ReportService) SetStatus(ctx context.Context, id int, status string) error {
	if !models.IsValidReportStatus(status) {
		return fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, status)
	}
	return notFound(s.reportRepo.SetStatus(ctx, id, status))
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id int) error {
	return notFound(s.reportRepo.Delete(ctx, id))
}
