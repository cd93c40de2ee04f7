package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
	"github.com/guest-registry/backend/internal/websocket"
)

// Scheduler manages periodic calendar sync jobs, one cron entry per
// sync-enabled calendar.
type Scheduler struct {
	cron         *cron.Cron
	syncService  *SyncService
	calendarRepo *storage.CalendarRepository
	broadcaster  *websocket.EventBroadcaster
	logger       zerolog.Logger

	jobs   map[string]cron.EntryID
	jobsMu sync.RWMutex
}

// NewScheduler creates a new calendar sync scheduler.
func NewScheduler(
	syncService *SyncService,
	calendarRepo *storage.CalendarRepository,
	hub *websocket.Hub,
	logger zerolog.Logger,
) *Scheduler {
	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:         cron.New(),
		syncService:  syncService,
		calendarRepo: calendarRepo,
		broadcaster:  broadcaster,
		logger:       logger,
		jobs:         make(map[string]cron.EntryID),
	}
}

// Start begins the scheduler and loads all sync-enabled calendars.
func (s *Scheduler) Start(ctx context.Context) error {
	calendars, err := s.calendarRepo.ListSyncEnabled(ctx)
	if err != nil {
		return err
	}

	for _, cal := range calendars {
		s.ScheduleCalendar(cal)
	}

	// Catch calendars added or modified outside the scheduler.
	s.cron.AddFunc("@every 10m", func() {
		s.refreshSchedules(context.Background())
	})

	s.cron.Start()
	s.logger.Info().Int("calendars", len(calendars)).Msg("calendar scheduler started")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("calendar scheduler stopped")
}

// ScheduleCalendar adds or updates a calendar's sync schedule.
func (s *Scheduler) ScheduleCalendar(cal models.Calendar) {
	if !cal.SyncEnabled {
		s.UnscheduleCalendar(cal.ID)
		return
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if existingID, exists := s.jobs[cal.ID]; exists {
		s.cron.Remove(existingID)
		delete(s.jobs, cal.ID)
	}

	spec := frequencyToCronSpec(cal.SyncFrequency)
	calID, calName := cal.ID, cal.Name

	entryID, err := s.cron.AddFunc(spec, func() {
		s.syncCalendar(calID, calName)
	})
	if err != nil {
		s.logger.Error().Str("calendar_id", cal.ID).Err(err).Msg("scheduling calendar failed")
		return
	}

	s.jobs[cal.ID] = entryID
	s.logger.Info().
		Str("calendar_id", cal.ID).
		Str("calendar", cal.Name).
		Str("frequency", cal.SyncFrequency).
		Msg("calendar scheduled")
}

// UnscheduleCalendar removes a calendar from the sync schedule.
func (s *Scheduler) UnscheduleCalendar(calendarID string) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if entryID, exists := s.jobs[calendarID]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, calendarID)
		s.logger.Info().Str("calendar_id", calendarID).Msg("calendar unscheduled")
	}
}

// TriggerSync runs an immediate sync for a calendar in the background.
func (s *Scheduler) TriggerSync(calendarID string) {
	go func() {
		cal, err := s.calendarRepo.GetByID(context.Background(), calendarID)
		if err != nil || cal == nil {
			s.logger.Warn().Str("calendar_id", calendarID).Msg("calendar not found for sync")
			return
		}
		s.syncCalendar(cal.ID, cal.Name)
	}()
}

func (s *Scheduler) syncCalendar(calendarID, calendarName string) {
	result, err := s.syncService.SyncCalendar(context.Background(), calendarID)
	if err != nil {
		s.logger.Error().Str("calendar_id", calendarID).Err(err).Msg("calendar sync failed")
		if s.broadcaster != nil {
			s.broadcaster.BroadcastSyncError(calendarID, calendarName, err.Error())
		}
		return
	}

	if s.broadcaster != nil {
		if result.OK {
			s.broadcaster.BroadcastSyncCompleted(*result)
		} else {
			s.broadcaster.BroadcastSyncError(calendarID, calendarName, result.Message)
		}
	}
}

// refreshSchedules reloads calendar schedules from the database.
func (s *Scheduler) refreshSchedules(ctx context.Context) {
	calendars, err := s.calendarRepo.ListSyncEnabled(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("refreshing calendar schedules failed")
		return
	}

	currentIDs := make(map[string]bool)
	for _, cal := range calendars {
		currentIDs[cal.ID] = true
		s.ScheduleCalendar(cal)
	}

	// Drop jobs for calendars that no longer exist or were disabled.
	s.jobsMu.Lock()
	for calID := range s.jobs {
		if !currentIDs[calID] {
			s.cron.Remove(s.jobs[calID])
			delete(s.jobs, calID)
		}
	}
	s.jobsMu.Unlock()
}

// GetNextRun returns the next scheduled run time for a calendar.
func (s *Scheduler) GetNextRun(calendarID string) *time.Time {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	if entryID, exists := s.jobs[calendarID]; exists {
		entry := s.cron.Entry(entryID)
		if !entry.Next.IsZero() {
			return &entry.Next
		}
	}
	return nil
}

// frequencyToCronSpec maps a calendar sync frequency to a cron spec.
func frequencyToCronSpec(frequency string) string {
	switch frequency {
	case models.SyncFrequencyHourly:
		return "@hourly"
	case models.SyncFrequencyWeekly:
		return "@weekly"
	default:
		return "@daily"
	}
}
