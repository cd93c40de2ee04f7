package ical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReservation(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    bool
	}{
		{"airbnb reservation", "Reserved - HMATZMHW8H", true},
		{"named guest", "John Smith - Airbnb (2 guests)", true},
		{"empty summary", "", true},
		{"airbnb block", "Airbnb (Not available)", false},
		{"plain blocked", "Blocked", false},
		{"mixed case", "UNAVAILABLE", false},
		{"maintenance window", "Pool maintenance", false},
		{"cleaning slot", "Cleaning day", false},
		{"booking.com closed", "CLOSED - Not available", false},
		{"vrbo no availability", "No availability", false},
		{"marker inside word boundary", "This unit is unavailable until spring", false},
		{"guest name containing no marker", "Mr. Blocker", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReservation(tt.summary))
		})
	}
}
