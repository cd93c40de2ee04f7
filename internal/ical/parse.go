package ical

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event is one parsed VEVENT, reduced to the fields the reconciler needs.
// Start and End are timezone-naive calendar dates (UTC midnight).
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// ParseEvents parses an iCal payload into events. A malformed calendar is a
// hard error; malformed individual events are skipped and reported in the
// returned issue list in document order.
func ParseEvents(body []byte) ([]Event, []string, error) {
	if len(body) == 0 {
		return nil, nil, errors.New("empty calendar body")
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var events []Event
	var issues []string

	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Event %s: %v", eventLabel(ve), err))
			continue
		}
		events = append(events, ev)
	}

	return events, issues, nil
}

func parseVEvent(ve *ics.VEvent) (Event, error) {
	var ev Event

	uid := ve.GetProperty(ics.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return ev, errors.New("missing UID")
	}
	ev.UID = uid.Value

	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
		ev.Summary = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}

	start, err := eventTime(ve.GetStartAt, ve.GetAllDayStartAt)
	if err != nil {
		return ev, fmt.Errorf("bad DTSTART: %w", err)
	}
	end, err := eventTime(ve.GetEndAt, ve.GetAllDayEndAt)
	if err != nil {
		return ev, fmt.Errorf("bad DTEND: %w", err)
	}

	ev.Start = toDate(start)
	ev.End = toDate(end)

	if ev.End.Before(ev.Start) {
		return ev, fmt.Errorf("end %s before start %s",
			ev.End.Format("2006-01-02"), ev.Start.Format("2006-01-02"))
	}

	return ev, nil
}

// eventTime resolves a date-time property, falling back to the all-day
// accessor for VALUE=DATE properties.
func eventTime(getAt, getAllDayAt func() (time.Time, error)) (time.Time, error) {
	if t, err := getAt(); err == nil {
		return t, nil
	}
	return getAllDayAt()
}

// toDate reduces a date-time to its calendar date.
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func eventLabel(ve *ics.VEvent) string {
	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil && p.Value != "" {
		return p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		return p.Value
	}
	return "(unnamed)"
}
