package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/utils"
)

const defaultBanReason = "No reason provided"

// BanStore persists ban entries.
type BanStore interface {
	BanMatcher
	List(ctx context.Context) ([]models.Ban, error)
	Create(ctx context.Context, ban *models.Ban) error
	Delete(ctx context.Context, id int) error
}

// CreateBanRequest is the payload for banning an IP, a device, or both.
type CreateBanRequest struct {
	IP       string `json:"ip"`
	DeviceID string `json:"deviceId"`
	Reason   string `json:"reason"`
}

// BanService manages the deny list.
type BanService struct {
	banRepo BanStore
}

// NewBanService creates a BanService.
func NewBanService(banRepo BanStore) *BanService {
	return &BanService{banRepo: banRepo}
}

// List returns all bans, newest first.
func (s *BanService) List(ctx context.Context) ([]models.Ban, error) {
	return s.banRepo.List(ctx)
}

// Create adds a ban. At least one of IP or DeviceID is required.
func (s *BanService) Create(ctx context.Context, req *CreateBanRequest) (*models.Ban, error) {
	ip := strings.TrimSpace(req.IP)
	deviceID := strings.TrimSpace(req.DeviceID)
	if ip == "" && deviceID == "" {
		return nil, fmt.Errorf("%w: IP or deviceId is required", utils.ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultBanReason
	}

	ban := &models.Ban{
		IP:       optional(ip),
		DeviceID: optional(deviceID),
		Reason:   reason,
	}
	if err := s.banRepo.Create(ctx, ban); err != nil {
		return nil, err
	}
	log.Info().Int("ban_id", ban.ID).Str("ip", ip).Str("device_id", deviceID).Msg("Ban created")
	return ban, nil
}

// Delete lifts a ban.
func (s *BanService) Delete(ctx context.Context, id int) error {
	if err := s.banRepo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	log.Info().Int("ban_id", id).Msg("Ban removed")
	return nil
}
