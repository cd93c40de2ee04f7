package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guest-registry/backend/internal/api/middleware"
	"github.com/guest-registry/backend/internal/calendar"
	"github.com/guest-registry/backend/internal/websocket"
)

// SyncAmenity synchronously syncs every sync-enabled calendar of one amenity
// and returns the aggregate result.
func SyncAmenity(syncService *calendar.SyncService, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := syncService.SyncAmenity(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		if result.OK {
			broadcaster.BroadcastNotification("info", "Sync completed",
				fmt.Sprintf("%s: %d new, %d updated", result.AmenityName, result.Synced, result.Updated))
		} else {
			broadcaster.BroadcastNotification("error", "Sync finished with errors",
				fmt.Sprintf("%s: %d errors", result.AmenityName, len(result.Errors)))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// SyncAdmin synchronously syncs every calendar under every active amenity of
// one admin and returns the aggregate result.
func SyncAdmin(syncService *calendar.SyncService, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := syncService.SyncAdmin(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		if result.OK {
			broadcaster.BroadcastNotification("info", "Sync completed",
				fmt.Sprintf("%d amenities: %d new, %d updated", result.Amenities, result.Synced, result.Updated))
		} else {
			broadcaster.BroadcastNotification("error", "Sync finished with errors",
				fmt.Sprintf("%d errors across %d amenities", len(result.Errors), result.Amenities))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
