// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/guest-registry/backend/internal/api/handlers"
	"github.com/guest-registry/backend/internal/api/middleware"
	"github.com/guest-registry/backend/internal/calendar"
	"github.com/guest-registry/backend/internal/housekeeping"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/websocket"
)

// Services bundles the dependencies the router hands to handlers.
type Services struct {
	DB          *storage.DB
	Hub         *websocket.Hub
	Broadcaster *websocket.EventBroadcaster
	SyncService *calendar.SyncService
	Scheduler   *calendar.Scheduler
	Derivator   *housekeeping.Derivator
	Logger      zerolog.Logger
	StaticDir   string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(svc Services) *mux.Router {
	adminRepo := storage.NewAdminRepository(svc.DB)
	amenityRepo := storage.NewAmenityRepository(svc.DB)
	calendarRepo := storage.NewCalendarRepository(svc.DB)
	tripRepo := storage.NewTripRepository(svc.DB)
	taskRepo := storage.NewHousekeepingRepository(svc.DB)

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(svc.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(svc.DB, svc.Hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(svc.Hub)).Methods("GET")

	// Admin and housekeeper account endpoints
	api.HandleFunc("/admins", handlers.ListAdmins(adminRepo)).Methods("GET")
	api.HandleFunc("/admins", handlers.CreateAdmin(adminRepo)).Methods("POST")
	api.HandleFunc("/admins/{id}", handlers.GetAdmin(adminRepo)).Methods("GET")
	api.HandleFunc("/admins/{id}", handlers.DeleteAdmin(adminRepo)).Methods("DELETE")
	api.HandleFunc("/admins/{id}/sync", handlers.SyncAdmin(svc.SyncService, svc.Broadcaster)).Methods("POST")

	// Amenity endpoints
	api.HandleFunc("/amenities", handlers.ListAmenities(amenityRepo)).Methods("GET")
	api.HandleFunc("/amenities", handlers.CreateAmenity(amenityRepo, adminRepo)).Methods("POST")
	api.HandleFunc("/amenities/{id}", handlers.GetAmenity(amenityRepo)).Methods("GET")
	api.HandleFunc("/amenities/{id}", handlers.UpdateAmenity(amenityRepo)).Methods("PUT")
	api.HandleFunc("/amenities/{id}", handlers.DeleteAmenity(amenityRepo)).Methods("DELETE")
	api.HandleFunc("/amenities/{id}/sync", handlers.SyncAmenity(svc.SyncService, svc.Broadcaster)).Methods("POST")
	api.HandleFunc("/amenities/{id}/housekeepers", handlers.ListAmenityHousekeepers(amenityRepo)).Methods("GET")
	api.HandleFunc("/amenities/{id}/housekeepers", handlers.AssignHousekeeper(amenityRepo, adminRepo)).Methods("POST")
	api.HandleFunc("/amenities/{id}/housekeepers/{housekeeperId}", handlers.RemoveHousekeeper(amenityRepo)).Methods("DELETE")
	api.HandleFunc("/amenities/{id}/housekeepers/{housekeeperId}/default", handlers.SetDefaultHousekeeper(amenityRepo)).Methods("PUT")

	// Calendar endpoints
	api.HandleFunc("/calendars", handlers.ListCalendars(calendarRepo, svc.Scheduler)).Methods("GET")
	api.HandleFunc("/calendars", handlers.CreateCalendar(calendarRepo, amenityRepo, svc.Scheduler)).Methods("POST")
	api.HandleFunc("/calendars/{id}", handlers.GetCalendar(calendarRepo, svc.Scheduler)).Methods("GET")
	api.HandleFunc("/calendars/{id}", handlers.UpdateCalendar(calendarRepo, svc.Scheduler)).Methods("PUT")
	api.HandleFunc("/calendars/{id}", handlers.DeleteCalendar(calendarRepo, svc.Scheduler)).Methods("DELETE")
	api.HandleFunc("/calendars/{id}/sync", handlers.SyncCalendar(calendarRepo, svc.SyncService, svc.Broadcaster, svc.Logger)).Methods("POST")
	api.HandleFunc("/calendars/{id}/housekeeping/derive", handlers.DeriveHousekeeping(svc.Derivator, svc.Broadcaster)).Methods("POST")

	// Trip endpoints
	api.HandleFunc("/trips", handlers.ListTrips(tripRepo)).Methods("GET")
	api.HandleFunc("/trips/{id}", handlers.GetTrip(tripRepo)).Methods("GET")

	// Housekeeping task endpoints
	api.HandleFunc("/housekeeping-tasks", handlers.ListHousekeepingTasks(taskRepo)).Methods("GET")
	api.HandleFunc("/housekeeping-tasks/{id}", handlers.GetHousekeepingTask(taskRepo)).Methods("GET")
	api.HandleFunc("/housekeeping-tasks/{id}/status", handlers.UpdateTaskStatus(taskRepo)).Methods("PATCH")
	api.HandleFunc("/housekeeping-tasks/{id}/paid", handlers.MarkTaskPaid(taskRepo)).Methods("POST")
	api.HandleFunc("/housekeeping-tasks/{id}/notes", handlers.UpdateTaskNotes(taskRepo)).Methods("PUT")

	// Serve static frontend files
	if svc.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(svc.StaticDir)))
	}

	return r
}
