package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icsPayload(events ...string) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Airbnb Inc//Hosting Calendar 0.8.8//EN",
		"CALSCALE:GREGORIAN",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func icsEvent(uid, summary, start, end string) string {
	return strings.Join([]string{
		"BEGIN:VEVENT",
		"DTSTAMP:20260101T000000Z",
		"DTSTART;VALUE=DATE:" + start,
		"DTEND;VALUE=DATE:" + end,
		"UID:" + uid,
		"SUMMARY:" + summary,
		"END:VEVENT",
	}, "\r\n")
}

func TestParseEvents(t *testing.T) {
	body := icsPayload(
		icsEvent("abc123@airbnb.com", "John Smith - Airbnb (2 guests)", "20260510", "20260515"),
		icsEvent("def456@airbnb.com", "Airbnb (Not available)", "20260601", "20260605"),
	)

	events, issues, err := ParseEvents(body)
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, events, 2)

	assert.Equal(t, "abc123@airbnb.com", events[0].UID)
	assert.Equal(t, "John Smith - Airbnb (2 guests)", events[0].Summary)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), events[0].End)
}

func TestParseEvents_DateTimeValues(t *testing.T) {
	event := strings.Join([]string{
		"BEGIN:VEVENT",
		"DTSTAMP:20260101T000000Z",
		"DTSTART:20260510T150000Z",
		"DTEND:20260515T110000Z",
		"UID:ghi789@example.com",
		"SUMMARY:Reserved",
		"END:VEVENT",
	}, "\r\n")

	events, issues, err := ParseEvents(icsPayload(event))
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, events, 1)

	// Times collapse to calendar dates.
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), events[0].End)
}

func TestParseEvents_EndBeforeStart(t *testing.T) {
	body := icsPayload(
		icsEvent("bad@example.com", "Backwards stay", "20260515", "20260510"),
		icsEvent("good@example.com", "Reserved", "20260601", "20260605"),
	)

	events, issues, err := ParseEvents(body)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "Backwards stay")
	require.Len(t, events, 1)
	assert.Equal(t, "good@example.com", events[0].UID)
}

func TestParseEvents_MissingUID(t *testing.T) {
	event := strings.Join([]string{
		"BEGIN:VEVENT",
		"DTSTAMP:20260101T000000Z",
		"DTSTART;VALUE=DATE:20260510",
		"DTEND;VALUE=DATE:20260515",
		"SUMMARY:No identity",
		"END:VEVENT",
	}, "\r\n")

	events, issues, err := ParseEvents(icsPayload(event))
	require.NoError(t, err)
	assert.Empty(t, events)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "missing UID")
}

func TestParseEvents_MalformedCalendar(t *testing.T) {
	_, _, err := ParseEvents([]byte("this is not an icalendar payload"))
	assert.Error(t, err)

	_, _, err = ParseEvents(nil)
	assert.Error(t, err)
}
