package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guest-registry/backend/internal/storage/models"
)

func TestFrequencyToCronSpec(t *testing.T) {
	assert.Equal(t, "@hourly", frequencyToCronSpec(models.SyncFrequencyHourly))
	assert.Equal(t, "@daily", frequencyToCronSpec(models.SyncFrequencyDaily))
	assert.Equal(t, "@weekly", frequencyToCronSpec(models.SyncFrequencyWeekly))
	assert.Equal(t, "@daily", frequencyToCronSpec(""))
}

func TestScheduler_ScheduleAndUnschedule(t *testing.T) {
	f := newSyncFixture(t)
	scheduler := NewScheduler(f.service, f.calendarRepo, nil, zerolog.Nop())

	cal := f.addCalendar(t, "https://example.com/feed.ics")
	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	// The cron loop computes next run times asynchronously after Start.
	require.Eventually(t, func() bool {
		return scheduler.GetNextRun(cal.ID) != nil
	}, time.Second, 10*time.Millisecond)

	// Disabling sync removes the schedule.
	cal.SyncEnabled = false
	scheduler.ScheduleCalendar(*cal)
	assert.Nil(t, scheduler.GetNextRun(cal.ID))

	// Re-enabling restores it.
	cal.SyncEnabled = true
	scheduler.ScheduleCalendar(*cal)
	require.Eventually(t, func() bool {
		return scheduler.GetNextRun(cal.ID) != nil
	}, time.Second, 10*time.Millisecond)

	scheduler.UnscheduleCalendar(cal.ID)
	assert.Nil(t, scheduler.GetNextRun(cal.ID))
}

func TestScheduler_RefreshDropsRemovedCalendars(t *testing.T) {
	f := newSyncFixture(t)
	scheduler := NewScheduler(f.service, f.calendarRepo, nil, zerolog.Nop())

	cal := f.addCalendar(t, "https://example.com/feed.ics")
	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return scheduler.GetNextRun(cal.ID) != nil
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, f.calendarRepo.Delete(context.Background(), cal.ID))
	scheduler.refreshSchedules(context.Background())

	assert.Nil(t, scheduler.GetNextRun(cal.ID))
}
