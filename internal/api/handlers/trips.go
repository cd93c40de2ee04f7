package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guest-registry/backend/internal/api/middleware"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
)

// ListTrips returns trips scoped by amenity_id or calendar_id.
func ListTrips(tripRepo *storage.TripRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			trips []models.Trip
			err   error
		)

		switch {
		case r.URL.Query().Get("calendar_id") != "":
			trips, err = tripRepo.ListByCalendar(r.Context(), r.URL.Query().Get("calendar_id"))
		case r.URL.Query().Get("amenity_id") != "":
			trips, err = tripRepo.ListByAmenity(r.Context(), r.URL.Query().Get("amenity_id"))
		default:
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "amenity_id or calendar_id is required")
			return
		}

		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query trips")
			return
		}

		if trips == nil {
			trips = []models.Trip{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trips)
	}
}

// GetTrip returns a single trip by ID.
func GetTrip(tripRepo *storage.TripRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trip, err := tripRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query trip")
			return
		}
		if trip == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Trip not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trip)
	}
}
