package models

import (
	"time"
)

// SyncResult contains the outcome of reconciling one calendar against its
// upstream feed.
type SyncResult struct {
	CalendarID   string    `json:"calendar_id"`
	CalendarName string    `json:"calendar_name"`
	OK           bool      `json:"ok"`
	Synced       int       `json:"synced"`
	Updated      int       `json:"updated"`
	Errors       []string  `json:"errors,omitempty"`
	Message      string    `json:"message,omitempty"`
	SyncedAt     time.Time `json:"synced_at"`
}

// AmenitySyncResult aggregates the sync results for all calendars of one
// amenity.
type AmenitySyncResult struct {
	AmenityID   string   `json:"amenity_id"`
	AmenityName string   `json:"amenity_name"`
	OK          bool     `json:"ok"`
	Calendars   int      `json:"calendars"`
	Synced      int      `json:"synced"`
	Updated     int      `json:"updated"`
	Errors      []string `json:"errors,omitempty"`
}

// AdminSyncResult aggregates the sync results for all amenities owned by one
// admin.
type AdminSyncResult struct {
	AdminID   string   `json:"admin_id"`
	OK        bool     `json:"ok"`
	Amenities int      `json:"amenities"`
	Synced    int      `json:"synced"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors,omitempty"`
}

// DeriveResult contains the outcome of deriving housekeeping tasks for one
// calendar.
type DeriveResult struct {
	CalendarID string   `json:"calendar_id"`
	OK         bool     `json:"ok"`
	Count      int      `json:"count"`
	Errors     []string `json:"errors,omitempty"`
	Message    string   `json:"message,omitempty"`
}
