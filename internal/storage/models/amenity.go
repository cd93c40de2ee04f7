package models

import (
	"time"
)

// Amenity represents a rentable property unit managed by one admin.
type Amenity struct {
	ID                   string    `json:"id"`
	AdminID              string    `json:"admin_id"`
	Name                 string    `json:"name"`
	MaxGuests            int       `json:"max_guests"`
	IsActive             bool      `json:"is_active"`
	DefaultHousekeeperID *string   `json:"default_housekeeper_id,omitempty"` // legacy column, superseded by AmenityHousekeeper.IsDefault
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AmenityHousekeeper assigns a housekeeper to an amenity. At most one
// assignment per amenity is the default.
type AmenityHousekeeper struct {
	AmenityID     string    `json:"amenity_id"`
	HousekeeperID string    `json:"housekeeper_id"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}
