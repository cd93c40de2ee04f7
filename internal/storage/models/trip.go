package models

import (
	"time"
)

// Trip is the canonical stored reservation. Trips sourced from an upstream
// calendar carry the external_* fields; manually created trips leave them nil.
type Trip struct {
	ID                    string     `json:"id"`
	AmenityID             string     `json:"amenity_id"`
	CalendarID            *string    `json:"calendar_id,omitempty"`
	AdminID               string     `json:"admin_id"`
	Title                 string     `json:"title"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               time.Time  `json:"end_date"`
	MaxGuests             int        `json:"max_guests"`
	ExternalReservationID *string    `json:"external_reservation_id,omitempty"`
	ExternalConfirmCode   *string    `json:"external_confirm_code,omitempty"`
	ExternalGuestName     *string    `json:"external_guest_name,omitempty"`
	ExternalGuestEmail    *string    `json:"external_guest_email,omitempty"`
	ExternalGuestCount    *int       `json:"external_guest_count,omitempty"`
	ExternalSyncedAt      *time.Time `json:"external_synced_at,omitempty"`
	IsExternallySynced    bool       `json:"is_externally_synced"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// IsExternallySourced reports whether the trip originated from an upstream
// calendar event.
func (t *Trip) IsExternallySourced() bool {
	return t.ExternalReservationID != nil
}

// Nights returns the number of nights between check-in and check-out.
// A same-day placeholder yields zero.
func (t *Trip) Nights() int {
	return int(t.EndDate.Sub(t.StartDate).Hours() / 24)
}
