package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budbeer/budbeer_api/internal/models"
)

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	c := hub.Register("admin-1")
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast(&ModerationEvent{Event: EventBarSubmitted, BarID: 4, BarName: "Tap"})

	select {
	case data := <-c.Events:
		var ev ModerationEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, EventBarSubmitted, ev.Event)
		assert.Equal(t, 4, ev.BarID)
	default:
		t.Fatal("expected a buffered event")
	}

	hub.Unregister("admin-1")
	assert.Equal(t, 0, hub.ClientCount())
	_, open := <-c.Events
	assert.False(t, open)
}

func TestHub_BroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := hub.Register("slow")

	for i := 0; i < cap(c.Events)+10; i++ {
		hub.Broadcast(&ModerationEvent{Event: EventBarSubmitted, BarID: i})
	}
	assert.Len(t, c.Events, cap(c.Events))
}

func TestHubNotifier(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub)
	n.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	// No listeners: nothing to do.
	n.NotifyBarSubmitted(&models.Bar{ID: 1})

	c := hub.Register("admin-1")
	n.NotifyReportSubmitted(&models.Report{ID: 9, BarID: 2, Reason: "closed"})

	var ev ModerationEvent
	require.NoError(t, json.Unmarshal(<-c.Events, &ev))
	assert.Equal(t, EventReportSubmitted, ev.Event)
	assert.Equal(t, 9, ev.ReportID)
	assert.Equal(t, 2, ev.BarID)
	assert.Equal(t, "closed", ev.Reason)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), ev.Timestamp)
}
