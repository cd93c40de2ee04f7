package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guest-registry/backend/internal/api/middleware"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
)

// CreateAdminRequest is the body for creating an admin or housekeeper
// account.
type CreateAdminRequest struct {
	Username              string  `json:"username"`
	Email                 string  `json:"email"`
	Role                  string  `json:"role"`
	DefaultHousekeeperPay float64 `json:"default_housekeeper_pay"`
}

// ListAdmins returns all non-deleted accounts, optionally filtered by role.
func ListAdmins(adminRepo *storage.AdminRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admins, err := adminRepo.List(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query accounts")
			return
		}

		if admins == nil {
			admins = []models.Admin{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(admins)
	}
}

// CreateAdmin creates a new account.
func CreateAdmin(adminRepo *storage.AdminRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAdminRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Username == "" || req.Email == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Username and email are required")
			return
		}
		if req.Role != "" && req.Role != models.RoleAdmin && req.Role != models.RoleHousekeeper {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Role must be admin or housekeeper")
			return
		}

		admin := &models.Admin{
			Username:              req.Username,
			Email:                 req.Email,
			Role:                  req.Role,
			DefaultHousekeeperPay: req.DefaultHousekeeperPay,
		}

		if err := adminRepo.Create(r.Context(), admin); err != nil {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Failed to create account")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(admin)
	}
}

// GetAdmin returns a single account by ID.
func GetAdmin(adminRepo *storage.AdminRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, err := adminRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query account")
			return
		}
		if admin == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Account not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(admin)
	}
}

// DeleteAdmin soft-deletes an account.
func DeleteAdmin(adminRepo *storage.AdminRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := adminRepo.SoftDelete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Account not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
