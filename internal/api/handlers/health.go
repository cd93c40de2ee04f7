// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	AmenitiesCount    int `json:"amenities_count"`
	CalendarsCount    int `json:"calendars_count"`
	TripsCount        int `json:"trips_count"`
	PendingTasksCount int `json:"pending_tasks_count"`
	ConnectedClients  int `json:"connected_clients"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var response StatusResponse
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM amenities").Scan(&response.AmenitiesCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendars").Scan(&response.CalendarsCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips").Scan(&response.TripsCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM housekeeping_tasks WHERE status = 'pending'").Scan(&response.PendingTasksCount)

		if hub != nil {
			response.ConnectedClients = hub.ClientCount()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
