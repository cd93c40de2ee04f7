package models

import (
	"time"
)

// HousekeepingTask represents a cleaning job derived from a trip's checkout.
// Each trip has at most one task.
type HousekeepingTask struct {
	ID            string     `json:"id"`
	TripID        string     `json:"trip_id"`
	HousekeeperID string     `json:"housekeeper_id"`
	Date          time.Time  `json:"date"`
	Status        string     `json:"status"`
	PayAmount     float64    `json:"pay_amount"`
	Paid          bool       `json:"paid"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	Notes         string     `json:"notes"`
	Photos        []string   `json:"photos"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Task status constants
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// ValidTaskStatus reports whether s is a recognized task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}
