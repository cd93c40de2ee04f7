package ical

import (
	"strings"
)

// blockMarkers are the summary substrings upstream providers use for
// blocked or unavailable periods. Matching is lowercase ASCII substring;
// localized variants are not recognized.
var blockMarkers = []string{
	"not available",
	"unavailable",
	"blocked",
	"maintenance",
	"cleaning",
	"no availability",
}

// IsReservation reports whether an event summary denotes a real reservation
// rather than a blocked slot. An empty summary counts as a reservation.
func IsReservation(summary string) bool {
	s := strings.ToLower(summary)
	for _, marker := range blockMarkers {
		if strings.Contains(s, marker) {
			return false
		}
	}
	return true
}
