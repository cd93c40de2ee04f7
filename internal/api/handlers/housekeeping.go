package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guest-registry/backend/internal/api/middleware"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
)

// ListHousekeepingTasks returns tasks scoped by calendar_id or
// housekeeper_id.
func ListHousekeepingTasks(taskRepo *storage.HousekeepingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			tasks []models.HousekeepingTask
			err   error
		)

		switch {
		case r.URL.Query().Get("calendar_id") != "":
			tasks, err = taskRepo.ListByCalendar(r.Context(), r.URL.Query().Get("calendar_id"))
		case r.URL.Query().Get("housekeeper_id") != "":
			tasks, err = taskRepo.ListByHousekeeper(r.Context(), r.URL.Query().Get("housekeeper_id"))
		default:
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "calendar_id or housekeeper_id is required")
			return
		}

		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query housekeeping tasks")
			return
		}

		if tasks == nil {
			tasks = []models.HousekeepingTask{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tasks)
	}
}

// GetHousekeepingTask returns a single task by ID.
func GetHousekeepingTask(taskRepo *storage.HousekeepingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := taskRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query housekeeping task")
			return
		}
		if task == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Housekeeping task not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(task)
	}
}

// UpdateTaskStatus changes the status of a housekeeping task.
func UpdateTaskStatus(taskRepo *storage.HousekeepingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if !models.ValidTaskStatus(req.Status) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown task status")
			return
		}

		id := mux.Vars(r)["id"]
		if err := taskRepo.UpdateStatus(r.Context(), id, req.Status); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		task, err := taskRepo.GetByID(r.Context(), id)
		if err != nil || task == nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query housekeeping task")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(task)
	}
}

// MarkTaskPaid records that a housekeeping task has been paid out.
func MarkTaskPaid(taskRepo *storage.HousekeepingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := taskRepo.MarkPaid(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		task, err := taskRepo.GetByID(r.Context(), id)
		if err != nil || task == nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query housekeeping task")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(task)
	}
}

// UpdateTaskNotes stores completion notes and photo URLs on a task.
func UpdateTaskNotes(taskRepo *storage.HousekeepingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Notes     string   `json:"notes"`
			PhotoURLs []string `json:"photo_urls"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		id := mux.Vars(r)["id"]
		if err := taskRepo.UpdateNotes(r.Context(), id, req.Notes, req.PhotoURLs); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		task, err := taskRepo.GetByID(r.Context(), id)
		if err != nil || task == nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query housekeeping task")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(task)
	}
}
