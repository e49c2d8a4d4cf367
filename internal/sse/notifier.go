package sse

import (
	"time"

	"github.com/budbeer/budbeer_api/internal/models"
)

// ModerationNotifier is the interface services use to announce new items
// awaiting moderation.
type ModerationNotifier interface {
	NotifyBarSubmitted(bar *models.Bar)
	NotifyReportSubmitted(report *models.Report)
}

// HubNotifier implements ModerationNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
	now func() time.Time
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub, now: time.Now}
}

func (n *HubNotifier) NotifyBarSubmitted(bar *models.Bar) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&ModerationEvent{
		Event:     EventBarSubmitted,
		BarID:     bar.ID,
		BarName:   bar.Name,
		Timestamp: n.now(),
	})
}

func (n *HubNotifier) NotifyReportSubmitted(report *models.Report) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&ModerationEvent{
		Event:     EventReportSubmitted,
		BarID:     report.BarID,
		ReportID:  report.ID,
		Reason:    report.Reason,
		Timestamp: n.now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n NopNotifier) NotifyBarSubmitted(bar *models.Bar)          {}
func (n NopNotifier) NotifyReportSubmitted(report *models.Report) {}
