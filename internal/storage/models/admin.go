// Package models contains the domain models for the application.
package models

import (
	"time"
)

// Admin represents an operator account. Housekeepers share the same table
// with a different role.
type Admin struct {
	ID                    string     `json:"id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	Role                  string     `json:"role"`
	DefaultHousekeeperPay float64    `json:"default_housekeeper_pay"`
	DeletedAt             *time.Time `json:"deleted_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Role constants
const (
	RoleAdmin       = "admin"
	RoleHousekeeper = "housekeeper"
)

// IsDeleted reports whether the account has been soft-deleted.
func (a *Admin) IsDeleted() bool {
	return a.DeletedAt != nil
}
