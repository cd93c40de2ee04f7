package websocket

import (
	"github.com/rs/zerolog/log"

	"github.com/guest-registry/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastSyncCompleted sends a calendar sync completed event.
func (b *EventBroadcaster) BroadcastSyncCompleted(result models.SyncResult) {
	payload := CalendarSyncPayload{
		CalendarID:   result.CalendarID,
		CalendarName: result.CalendarName,
		Status:       "success",
		Synced:       result.Synced,
		Updated:      result.Updated,
		ErrorCount:   len(result.Errors),
	}
	if !result.OK {
		payload.Status = "error"
	}

	b.broadcast(NewMessage(TypeCalendarSyncCompleted, payload))
}

// BroadcastSyncError sends a calendar sync error event.
func (b *EventBroadcaster) BroadcastSyncError(calendarID, calendarName, message string) {
	payload := CalendarSyncErrorPayload{
		CalendarID:   calendarID,
		CalendarName: calendarName,
		Message:      message,
	}

	b.broadcast(NewMessage(TypeCalendarSyncError, payload))
}

// BroadcastTasksDerived sends a housekeeping.tasks_derived event.
func (b *EventBroadcaster) BroadcastTasksDerived(calendarID string, count int) {
	payload := TasksDerivedPayload{
		CalendarID: calendarID,
		Count:      count,
	}

	b.broadcast(NewMessage(TypeTasksDerived, payload))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}

	b.broadcast(NewMessage(TypeNotification, payload))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Error().Err(err).Msg("encoding websocket message")
		return
	}

	b.hub.Broadcast(data)
}
