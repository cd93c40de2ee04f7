package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/guest-registry/backend/internal/api/middleware"
	"github.com/guest-registry/backend/internal/calendar"
	"github.com/guest-registry/backend/internal/housekeeping"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
	"github.com/guest-registry/backend/internal/websocket"
)

// CalendarRequest is the body for creating or updating a calendar
// subscription.
type CalendarRequest struct {
	AmenityID     string `json:"amenity_id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Type          string `json:"type"`
	SyncEnabled   bool   `json:"sync_enabled"`
	SyncFrequency string `json:"sync_frequency"`
}

// CalendarResponse augments a calendar with its next scheduled run.
type CalendarResponse struct {
	models.Calendar
	NextSync *time.Time `json:"next_sync,omitempty"`
}

// ListCalendars returns the calendars of the amenity given in the query.
func ListCalendars(calendarRepo *storage.CalendarRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amenityID := r.URL.Query().Get("amenity_id")
		if amenityID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "amenity_id is required")
			return
		}

		calendars, err := calendarRepo.ListByAmenity(r.Context(), amenityID, false)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query calendars")
			return
		}

		resp := make([]CalendarResponse, 0, len(calendars))
		for _, cal := range calendars {
			resp = append(resp, CalendarResponse{Calendar: cal, NextSync: scheduler.GetNextRun(cal.ID)})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// CreateCalendar adds a new calendar subscription and schedules it when sync
// is enabled.
func CreateCalendar(
	calendarRepo *storage.CalendarRepository,
	amenityRepo *storage.AmenityRepository,
	scheduler *calendar.Scheduler,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CalendarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.AmenityID == "" || req.Name == "" || req.URL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "amenity_id, name and url are required")
			return
		}
		if req.Type != "" && !models.ValidCalendarType(req.Type) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown calendar type")
			return
		}
		if req.SyncFrequency != "" && !models.ValidSyncFrequency(req.SyncFrequency) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown sync frequency")
			return
		}

		amenity, err := amenityRepo.GetByID(r.Context(), req.AmenityID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query amenity")
			return
		}
		if amenity == nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "amenity_id must reference an amenity")
			return
		}

		cal := &models.Calendar{
			AmenityID:     req.AmenityID,
			Name:          req.Name,
			URL:           req.URL,
			Type:          req.Type,
			SyncEnabled:   req.SyncEnabled,
			SyncFrequency: req.SyncFrequency,
		}

		if err := calendarRepo.Create(r.Context(), cal); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create calendar")
			return
		}

		if cal.SyncEnabled {
			scheduler.ScheduleCalendar(*cal)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(cal)
	}
}

// GetCalendar returns a single calendar by ID.
func GetCalendar(calendarRepo *storage.CalendarRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cal, err := calendarRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query calendar")
			return
		}
		if cal == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Calendar not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CalendarResponse{Calendar: *cal, NextSync: scheduler.GetNextRun(cal.ID)})
	}
}

// UpdateCalendar updates a calendar subscription and reschedules it to match
// the new settings.
func UpdateCalendar(calendarRepo *storage.CalendarRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CalendarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		cal, err := calendarRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query calendar")
			return
		}
		if cal == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Calendar not found")
			return
		}

		if req.Type != "" && !models.ValidCalendarType(req.Type) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown calendar type")
			return
		}
		if req.SyncFrequency != "" && !models.ValidSyncFrequency(req.SyncFrequency) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown sync frequency")
			return
		}

		cal.Name = req.Name
		cal.URL = req.URL
		if req.Type != "" {
			cal.Type = req.Type
		}
		if req.SyncFrequency != "" {
			cal.SyncFrequency = req.SyncFrequency
		}
		cal.SyncEnabled = req.SyncEnabled

		if err := calendarRepo.Update(r.Context(), cal); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update calendar")
			return
		}

		if cal.SyncEnabled {
			scheduler.ScheduleCalendar(*cal)
		} else {
			scheduler.UnscheduleCalendar(cal.ID)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cal)
	}
}

// DeleteCalendar removes a calendar subscription and its schedule.
func DeleteCalendar(calendarRepo *storage.CalendarRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := calendarRepo.Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete calendar")
			return
		}

		scheduler.UnscheduleCalendar(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// SyncCalendar triggers an immediate sync of one calendar. The sync runs in
// the background and the outcome is broadcast to websocket clients.
func SyncCalendar(
	calendarRepo *storage.CalendarRepository,
	syncService *calendar.SyncService,
	broadcaster *websocket.EventBroadcaster,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cal, err := calendarRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query calendar")
			return
		}
		if cal == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Calendar not found")
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			result, err := syncService.SyncCalendar(ctx, cal.ID)
			if err != nil {
				logger.Error().Err(err).Str("calendar_id", cal.ID).Msg("Manual sync failed")
				broadcaster.BroadcastSyncError(cal.ID, cal.Name, err.Error())
				return
			}

			if result.OK {
				broadcaster.BroadcastSyncCompleted(*result)
			} else {
				broadcaster.BroadcastSyncError(cal.ID, cal.Name, result.Message)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status":      "sync_started",
			"calendar_id": cal.ID,
		})
	}
}

// DeriveHousekeeping creates housekeeping tasks for a calendar's synced trips
// that do not have one yet.
func DeriveHousekeeping(
	derivator *housekeeping.Derivator,
	broadcaster *websocket.EventBroadcaster,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		result, err := derivator.DeriveForCalendar(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		if result.OK && result.Count > 0 {
			broadcaster.BroadcastTasksDerived(id, result.Count)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
