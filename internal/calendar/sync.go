// Package calendar reconciles upstream iCal feeds against stored trips and
// schedules periodic syncs.
package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guest-registry/backend/internal/ical"
	"github.com/guest-registry/backend/internal/metrics"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
)

// SyncService reconciles calendars against their upstream feeds. One
// invocation runs one transaction; concurrent syncs of the same calendar are
// not supported and must be serialized by the caller.
type SyncService struct {
	db           *storage.DB
	calendarRepo *storage.CalendarRepository
	amenityRepo  *storage.AmenityRepository
	tripRepo     *storage.TripRepository
	fetcher      *ical.Fetcher
	logger       zerolog.Logger
	now          func() time.Time
}

// NewSyncService creates a new calendar sync service.
func NewSyncService(
	db *storage.DB,
	calendarRepo *storage.CalendarRepository,
	amenityRepo *storage.AmenityRepository,
	tripRepo *storage.TripRepository,
	fetcher *ical.Fetcher,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		db:           db,
		calendarRepo: calendarRepo,
		amenityRepo:  amenityRepo,
		tripRepo:     tripRepo,
		fetcher:      fetcher,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SyncCalendar reconciles one calendar. Fetch, parse and persistence
// failures are reported in the result, not raised; the returned error is
// non-nil only when the calendar itself cannot be resolved.
func (s *SyncService) SyncCalendar(ctx context.Context, calendarID string) (*models.SyncResult, error) {
	cal, err := s.calendarRepo.GetByID(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("getting calendar: %w", err)
	}
	if cal == nil {
		return nil, fmt.Errorf("calendar not found: %s", calendarID)
	}

	amenity, err := s.amenityRepo.GetByID(ctx, cal.AmenityID)
	if err != nil {
		return nil, fmt.Errorf("getting amenity: %w", err)
	}
	if amenity == nil {
		return nil, fmt.Errorf("amenity not found: %s", cal.AmenityID)
	}

	result := &models.SyncResult{
		CalendarID:   cal.ID,
		CalendarName: cal.Name,
		SyncedAt:     s.now(),
	}

	body, err := s.fetcher.Fetch(ctx, cal.URL)
	if err != nil {
		result.Message = fmt.Sprintf("fetch failed: %v", err)
		metrics.IncFetchFailure()
		metrics.IncSyncRun("fetch_error")
		s.logger.Warn().Str("calendar_id", cal.ID).Err(err).Msg("calendar fetch failed")
		return result, nil
	}

	events, issues, err := ical.ParseEvents(body)
	if err != nil {
		result.Message = fmt.Sprintf("fetch failed: %v", err)
		metrics.IncSyncRun("parse_error")
		s.logger.Warn().Str("calendar_id", cal.ID).Err(err).Msg("calendar parse failed")
		return result, nil
	}
	result.Errors = append(result.Errors, issues...)

	syncedAt := s.now()

	err = s.db.Transaction(func(tx *sql.Tx) error {
		for _, ev := range events {
			if !ical.IsReservation(ev.Summary) {
				continue
			}
			if err := s.reconcileEvent(ctx, tx, cal, amenity, ev, syncedAt, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Event %s: %v", ev.Summary, err))
			}
		}

		// Inside the transaction so a rollback discards the stamp.
		return s.calendarRepo.TouchLastSync(ctx, tx, cal.ID, syncedAt)
	})

	if err != nil {
		result.OK = false
		result.Synced = 0
		result.Updated = 0
		result.Message = fmt.Sprintf("Error syncing calendar: %v", err)
		metrics.IncSyncRun("db_error")
		s.logger.Error().Str("calendar_id", cal.ID).Err(err).Msg("calendar sync transaction failed")
		return result, nil
	}

	result.OK = true
	result.Message = fmt.Sprintf("Synced %d new, updated %d reservations", result.Synced, result.Updated)
	metrics.IncSyncRun("success")
	metrics.AddTripsSynced(result.Synced)
	metrics.AddTripsUpdated(result.Updated)

	s.logger.Info().
		Str("calendar_id", cal.ID).
		Str("calendar", cal.Name).
		Int("synced", result.Synced).
		Int("updated", result.Updated).
		Int("errors", len(result.Errors)).
		Msg("calendar sync completed")

	return result, nil
}

// reconcileEvent upserts one upstream event as a trip, keyed by
// (calendar_id, external_reservation_id).
func (s *SyncService) reconcileEvent(
	ctx context.Context,
	tx *sql.Tx,
	cal *models.Calendar,
	amenity *models.Amenity,
	ev ical.Event,
	syncedAt time.Time,
	result *models.SyncResult,
) error {
	guest := ical.ExtractGuestInfo(ev.Summary, ev.Description)

	title := ev.Summary
	if title == "" {
		title = fmt.Sprintf("Reservation %s-%s",
			ev.Start.Format("2006-01-02"), ev.End.Format("2006-01-02"))
	}

	existing, err := s.tripRepo.GetByExternalID(ctx, tx, cal.ID, ev.UID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Title = title
		existing.StartDate = ev.Start
		existing.EndDate = ev.End
		applyGuestInfo(existing, guest, amenity.MaxGuests)
		existing.ExternalSyncedAt = &syncedAt
		existing.IsExternallySynced = true

		if err := s.tripRepo.Update(ctx, tx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	uid := ev.UID
	trip := &models.Trip{
		AmenityID:             amenity.ID,
		CalendarID:            &cal.ID,
		AdminID:               amenity.AdminID,
		Title:                 title,
		StartDate:             ev.Start,
		EndDate:               ev.End,
		ExternalReservationID: &uid,
		ExternalSyncedAt:      &syncedAt,
		IsExternallySynced:    true,
	}
	applyGuestInfo(trip, guest, amenity.MaxGuests)

	if err := s.tripRepo.Create(ctx, tx, trip); err != nil {
		return err
	}
	result.Synced++
	return nil
}

// applyGuestInfo copies extracted guest details onto a trip. The trip's
// guest capacity is the parsed guest count when present, the amenity's
// otherwise; the parsed value is stored verbatim.
func applyGuestInfo(trip *models.Trip, guest ical.GuestInfo, amenityMaxGuests int) {
	if guest.Name != "" {
		name := guest.Name
		trip.ExternalGuestName = &name
	}
	if guest.Email != "" {
		email := guest.Email
		trip.ExternalGuestEmail = &email
	}
	if guest.ConfirmationCode != "" {
		code := guest.ConfirmationCode
		trip.ExternalConfirmCode = &code
	}

	maxGuests := amenityMaxGuests
	if guest.GuestCount > 0 {
		count := guest.GuestCount
		trip.ExternalGuestCount = &count
		maxGuests = count
	}
	if maxGuests < 1 {
		maxGuests = 1
	}
	trip.MaxGuests = maxGuests
}
