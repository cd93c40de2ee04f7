package models

import (
	"time"
)

// Calendar represents a subscription to one upstream iCal feed attached to
// one amenity.
type Calendar struct {
	ID            string     `json:"id"`
	AmenityID     string     `json:"amenity_id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Type          string     `json:"type"`
	SyncEnabled   bool       `json:"sync_enabled"`
	SyncFrequency string     `json:"sync_frequency"`
	LastSync      *time.Time `json:"last_sync,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Calendar type constants
const (
	CalendarTypeAirbnb  = "airbnb"
	CalendarTypeBooking = "booking"
	CalendarTypeVRBO    = "vrbo"
	CalendarTypeCustom  = "custom"
)

// Sync frequency constants
const (
	SyncFrequencyHourly = "hourly"
	SyncFrequencyDaily  = "daily"
	SyncFrequencyWeekly = "weekly"
)

// ValidCalendarType reports whether t is a recognized calendar type.
func ValidCalendarType(t string) bool {
	switch t {
	case CalendarTypeAirbnb, CalendarTypeBooking, CalendarTypeVRBO, CalendarTypeCustom:
		return true
	}
	return false
}

// ValidSyncFrequency reports whether f is a recognized sync frequency.
func ValidSyncFrequency(f string) bool {
	switch f {
	case SyncFrequencyHourly, SyncFrequencyDaily, SyncFrequencyWeekly:
		return true
	}
	return false
}
