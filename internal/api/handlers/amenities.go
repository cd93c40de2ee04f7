package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guest-registry/backend/internal/api/middleware"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
)

// AmenityRequest is the body for creating or updating an amenity.
type AmenityRequest struct {
	AdminID   string `json:"admin_id"`
	Name      string `json:"name"`
	MaxGuests int    `json:"max_guests"`
	IsActive  bool   `json:"is_active"`
}

// ListAmenities returns the amenities owned by the admin given in the query.
func ListAmenities(amenityRepo *storage.AmenityRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := r.URL.Query().Get("admin_id")
		if adminID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "admin_id is required")
			return
		}

		amenities, err := amenityRepo.ListByAdmin(r.Context(), adminID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query amenities")
			return
		}

		if amenities == nil {
			amenities = []models.Amenity{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(amenities)
	}
}

// CreateAmenity adds a new amenity.
func CreateAmenity(amenityRepo *storage.AmenityRepository, adminRepo *storage.AdminRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AmenityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.AdminID == "" || req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "admin_id and name are required")
			return
		}

		admin, err := adminRepo.GetByID(r.Context(), req.AdminID)
		if err != nil || admin == nil || admin.IsDeleted() || admin.Role != models.RoleAdmin {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "admin_id must reference an admin account")
			return
		}

		amenity := &models.Amenity{
			AdminID:   req.AdminID,
			Name:      req.Name,
			MaxGuests: req.MaxGuests,
			IsActive:  req.IsActive,
		}

		if err := amenityRepo.Create(r.Context(), amenity); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create amenity")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(amenity)
	}
}

// GetAmenity returns a single amenity by ID.
func GetAmenity(amenityRepo *storage.AmenityRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amenity, err := amenityRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query amenity")
			return
		}
		if amenity == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Amenity not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(amenity)
	}
}

// UpdateAmenity updates an existing amenity.
func UpdateAmenity(amenityRepo *storage.AmenityRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AmenityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		amenity, err := amenityRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query amenity")
			return
		}
		if amenity == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Amenity not found")
			return
		}

		amenity.Name = req.Name
		amenity.MaxGuests = req.MaxGuests
		amenity.IsActive = req.IsActive

		if err := amenityRepo.Update(r.Context(), amenity); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update amenity")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(amenity)
	}
}

// DeleteAmenity removes an amenity. Amenities with trips are refused.
func DeleteAmenity(amenityRepo *storage.AmenityRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := amenityRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListAmenityHousekeepers returns the housekeeper assignments of an amenity.
func ListAmenityHousekeepers(amenityRepo *storage.AmenityRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignments, err := amenityRepo.ListHousekeepers(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query housekeepers")
			return
		}

		if assignments == nil {
			assignments = []models.AmenityHousekeeper{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(assignments)
	}
}

// AssignHousekeeper adds a housekeeper to an amenity, optionally marking it
// as the default.
func AssignHousekeeper(amenityRepo *storage.AmenityRepository, adminRepo *storage.AdminRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amenityID := mux.Vars(r)["id"]

		var req struct {
			HousekeeperID string `json:"housekeeper_id"`
			IsDefault     bool   `json:"is_default"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		housekeeper, err := adminRepo.GetByID(r.Context(), req.HousekeeperID)
		if err != nil || housekeeper == nil || housekeeper.IsDeleted() {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "housekeeper_id must reference an account")
			return
		}

		if err := amenityRepo.AssignHousekeeper(r.Context(), amenityID, req.HousekeeperID); err != nil {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Housekeeper already assigned")
			return
		}

		if req.IsDefault {
			if err := amenityRepo.SetDefaultHousekeeper(r.Context(), amenityID, req.HousekeeperID); err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to set default housekeeper")
				return
			}
		}

		w.WriteHeader(http.StatusCreated)
	}
}

// RemoveHousekeeper removes a housekeeper assignment from an amenity.
func RemoveHousekeeper(amenityRepo *storage.AmenityRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if err := amenityRepo.RemoveHousekeeper(r.Context(), vars["id"], vars["housekeeperId"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SetDefaultHousekeeper marks an assigned housekeeper as the amenity's
// default.
func SetDefaultHousekeeper(amenityRepo *storage.AmenityRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if err := amenityRepo.SetDefaultHousekeeper(r.Context(), vars["id"], vars["housekeeperId"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
