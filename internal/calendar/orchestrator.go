package calendar

import (
	"context"
	"fmt"

	"github.com/guest-registry/backend/internal/storage/models"
)

// SyncAmenity reconciles every sync-enabled calendar of one amenity.
// Per-calendar failures are collected, never fatal; the aggregate is OK only
// when every calendar synced cleanly.
func (s *SyncService) SyncAmenity(ctx context.Context, amenityID string) (*models.AmenitySyncResult, error) {
	amenity, err := s.amenityRepo.GetByID(ctx, amenityID)
	if err != nil {
		return nil, fmt.Errorf("getting amenity: %w", err)
	}
	if amenity == nil {
		return nil, fmt.Errorf("amenity not found: %s", amenityID)
	}

	result := &models.AmenitySyncResult{
		AmenityID:   amenity.ID,
		AmenityName: amenity.Name,
		OK:          true,
	}

	if !amenity.IsActive {
		return result, nil
	}

	calendars, err := s.calendarRepo.ListByAmenity(ctx, amenityID, true)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}

	for _, cal := range calendars {
		result.Calendars++

		calResult, err := s.SyncCalendar(ctx, cal.ID)
		if err != nil {
			result.OK = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", cal.Name, err))
			continue
		}

		result.Synced += calResult.Synced
		result.Updated += calResult.Updated
		for _, e := range calResult.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", cal.Name, e))
		}
		if !calResult.OK {
			result.OK = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", cal.Name, calResult.Message))
		}
	}

	return result, nil
}

// SyncAdmin reconciles the calendars of every active amenity owned by one
// admin. Per-amenity failures are collected, never fatal.
func (s *SyncService) SyncAdmin(ctx context.Context, adminID string) (*models.AdminSyncResult, error) {
	amenities, err := s.amenityRepo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("listing amenities: %w", err)
	}

	result := &models.AdminSyncResult{
		AdminID: adminID,
		OK:      true,
	}

	for _, amenity := range amenities {
		if !amenity.IsActive {
			continue
		}
		result.Amenities++

		amenityResult, err := s.SyncAmenity(ctx, amenity.ID)
		if err != nil {
			result.OK = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", amenity.Name, err))
			continue
		}

		result.Synced += amenityResult.Synced
		result.Updated += amenityResult.Updated
		for _, e := range amenityResult.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", amenity.Name, e))
		}
		if !amenityResult.OK {
			result.OK = false
		}
	}

	return result, nil
}
