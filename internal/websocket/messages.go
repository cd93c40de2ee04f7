package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeCalendarSyncCompleted MessageType = "calendar.sync_completed"
	TypeCalendarSyncError     MessageType = "calendar.sync_error"
	TypeTasksDerived          MessageType = "housekeeping.tasks_derived"
	TypeNotification          MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// CalendarSyncPayload is the payload for calendar.sync_completed events.
type CalendarSyncPayload struct {
	CalendarID   string `json:"calendar_id"`
	CalendarName string `json:"calendar_name"`
	Status       string `json:"status"`
	Synced       int    `json:"synced"`
	Updated      int    `json:"updated"`
	ErrorCount   int    `json:"error_count"`
}

// CalendarSyncErrorPayload is the payload for calendar.sync_error events.
type CalendarSyncErrorPayload struct {
	CalendarID   string `json:"calendar_id"`
	CalendarName string `json:"calendar_name"`
	Message      string `json:"message"`
}

// TasksDerivedPayload is the payload for housekeeping.tasks_derived events.
type TasksDerivedPayload struct {
	CalendarID string `json:"calendar_id"`
	Count      int    `json:"count"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}
