package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/budbeer/budbeer_api/internal/cache"
	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/repository"
	"github.com/budbeer/budbeer_api/internal/sse"
	"github.com/budbeer/budbeer_api/internal/utils"
)

const maxBarNameLength = 200

// BarRequest is the payload for submitting or editing a bar.
type BarRequest struct {
	Name           string   `json:"name" binding:"required"`
	Latitude       *float64 `json:"latitude" binding:"required"`
	Longitude      *float64 `json:"longitude" binding:"required"`
	RegularPrice   *float64 `json:"regularPrice" binding:"required"`
	HappyHourPrice *float64 `json:"happyHourPrice"`
	HappyHourStart *string  `json:"happyHourStart"`
	HappyHourEnd   *string  `json:"happyHourEnd"`
	DeviceID       string   `json:"deviceId"`
}

// Validate checks ranges that JSON binding cannot express.
func (r *BarRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	case utf8.RuneCountInString(r.Name) > maxBarNameLength:
		return fmt.Errorf("%w: name is too long (max %d characters)", utils.ErrInvalidInput, maxBarNameLength)
	case r.Latitude == nil || r.Longitude == nil || r.RegularPrice == nil:
		return fmt.Errorf("%w: latitude, longitude and regularPrice are required", utils.ErrInvalidInput)
	case *r.Latitude < -90 || *r.Latitude > 90:
		return fmt.Errorf("%w: latitude must be between -90 and 90", utils.ErrInvalidInput)
	case *r.Longitude < -180 || *r.Longitude > 180:
		return fmt.Errorf("%w: longitude must be between -180 and 180", utils.ErrInvalidInput)
	case *r.RegularPrice < 0:
		return fmt.Errorf("%w: regularPrice must not be negative", utils.ErrInvalidInput)
	case r.HappyHourPrice != nil && *r.HappyHourPrice < 0:
		return fmt.Errorf("%w: happyHourPrice must not be negative", utils.ErrInvalidInput)
	}
	return nil
}

func (r *BarRequest) apply(bar *models.Bar) {
	bar.Name = r.Name
	bar.Latitude = *r.Latitude
	bar.Longitude = *r.Longitude
	bar.RegularPrice = *r.RegularPrice
	bar.HappyHourPrice = r.HappyHourPrice
	bar.HappyHourStart = r.HappyHourStart
	bar.HappyHourEnd = r.HappyHourEnd
}

// BarService handles bar submission and moderation.
type BarService struct {
	barRepo  *repository.BarRepository
	cache    *cache.BarCache
	notifier sse.ModerationNotifier
}

// NewBarService creates a BarService. barCache may be nil.
func NewBarService(barRepo *repository.BarRepository, barCache *cache.BarCache) *BarService {
	return &BarService{barRepo: barRepo, cache: barCache, notifier: sse.NopNotifier{}}
}

// SetNotifier announces new submissions to connected admins.
func (s *BarService) SetNotifier(n sse.ModerationNotifier) {
	s.notifier = n
}

// ListApproved returns the public bar list, served from cache when possible.
func (s *BarService) ListApproved(ctx context.Context) ([]models.Bar, error) {
	if s.cache != nil {
		bars, err := s.cache.GetApproved(ctx)
		if err == nil {
			return bars, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Msg("Bar cache read failed, falling back to database")
		}
	}

	bars, err := s.barRepo.ListByStatus(ctx, models.BarStatusApproved)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetApproved(ctx, bars); err != nil {
			log.Warn().Err(err).Msg("Bar cache write failed")
		}
	}
	return bars, nil
}

// List returns bars filtered by status; empty status lists all of them.
func (s *BarService) List(ctx context.Context, status string) ([]models.Bar, error) {
	if status != "" && !models.IsValidBarStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, status)
	}
	return s.barRepo.ListByStatus(ctx, status)
}

// Submit stores a new pending bar on behalf of ip and deviceID.
func (s *BarService) Submit(ctx context.Context, req *BarRequest, ip, deviceID string) (*models.Bar, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bar := &models.Bar{}
	req.apply(bar)
	bar.SubmittedByIP = optional(ip)
	bar.DeviceID = optional(deviceID)

	if err := s.barRepo.Create(ctx, bar); err != nil {
		return nil, err
	}
	log.Info().Int("bar_id", bar.ID).Str("ip", ip).Msg("Bar submitted")
	s.notifier.NotifyBarSubmitted(bar)
	return bar, nil
}

// Update edits a bar's details.
func (s *BarService) Update(ctx context.Context, id int, req *BarRequest) (*models.Bar, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bar, err := s.barRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	req.apply(bar)
	if err := s.barRepo.Update(ctx, bar); err != nil {
		return nil, notFound(err)
	}
	s.invalidate(ctx)
	return bar, nil
}

// Approve publishes a bar.
func (s *BarService) Approve(ctx context.Context, id int) error {
	return s.setStatus(ctx, id, models.BarStatusApproved)
}

// Reject hides a bar from the public list.
func (s *BarService) Reject(ctx context.Context, id int) error {
	return s.setStatus(ctx, id, models.BarStatusRejected)
}

// Delete removes a bar and its reports.
func (s *BarService) Delete(ctx context.Context, id int) error {
	if err := s.barRepo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.invalidate(ctx)
	return nil
}

// Stats returns dashboard counters.
func (s *BarService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return s.barRepo.Stats(ctx)
}

func (s *BarService) setStatus(ctx context.Context, id int, status string) error {
	if err := s.barRepo.SetStatus(ctx, id, status); err != nil {
		return notFound(err)
	}
	log.Info().Int("bar_id", id).Str("status", status).Msg("Bar status changed")
	s.invalidate(ctx)
	return nil
}

func (s *BarService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Bar cache invalidation failed")
	}
}

// notFound maps repository misses to utils.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrNoRowsAffected) {
		return utils.ErrNotFound
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
