// Package housekeeping derives cleaning tasks from reconciled trips.
package housekeeping

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/guest-registry/backend/internal/metrics"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
)

// Derivator creates missing housekeeping tasks for a calendar's trips,
// assigned to the amenity's default housekeeper. It is triggered by the
// admin, never by the calendar sync, so an unresolved housekeeper cannot
// block syncs.
type Derivator struct {
	db           *storage.DB
	calendarRepo *storage.CalendarRepository
	amenityRepo  *storage.AmenityRepository
	adminRepo    *storage.AdminRepository
	tripRepo     *storage.TripRepository
	taskRepo     *storage.HousekeepingRepository
	logger       zerolog.Logger
	defaultPay   float64
}

// NewDerivator creates a new housekeeping derivator. defaultPay is the
// fallback task pay when the owning admin has none configured.
func NewDerivator(
	db *storage.DB,
	calendarRepo *storage.CalendarRepository,
	amenityRepo *storage.AmenityRepository,
	adminRepo *storage.AdminRepository,
	tripRepo *storage.TripRepository,
	taskRepo *storage.HousekeepingRepository,
	logger zerolog.Logger,
	defaultPay float64,
) *Derivator {
	if defaultPay <= 0 {
		defaultPay = 20
	}
	return &Derivator{
		db:           db,
		calendarRepo: calendarRepo,
		amenityRepo:  amenityRepo,
		adminRepo:    adminRepo,
		tripRepo:     tripRepo,
		taskRepo:     taskRepo,
		logger:       logger,
		defaultPay:   defaultPay,
	}
}

// DeriveForCalendar creates a pending task, dated at checkout, for every
// trip on the calendar that has none. Failures are reported in the result;
// the returned error is non-nil only when the calendar cannot be resolved.
func (d *Derivator) DeriveForCalendar(ctx context.Context, calendarID string) (*models.DeriveResult, error) {
	cal, err := d.calendarRepo.GetByID(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("getting calendar: %w", err)
	}
	if cal == nil {
		return nil, fmt.Errorf("calendar not found: %s", calendarID)
	}

	result := &models.DeriveResult{CalendarID: cal.ID}

	housekeeperID, err := d.amenityRepo.DefaultHousekeeperID(ctx, cal.AmenityID)
	if err != nil {
		result.Message = fmt.Sprintf("Database error: %v", err)
		return result, nil
	}
	if housekeeperID == "" {
		result.Message = "No default housekeeper"
		return result, nil
	}

	pay, err := d.resolvePay(ctx, cal.AmenityID)
	if err != nil {
		result.Message = fmt.Sprintf("Database error: %v", err)
		return result, nil
	}

	trips, err := d.tripRepo.ListWithoutTask(ctx, cal.ID)
	if err != nil {
		result.Message = fmt.Sprintf("Database error: %v", err)
		return result, nil
	}

	err = d.db.Transaction(func(tx *sql.Tx) error {
		for _, trip := range trips {
			task := &models.HousekeepingTask{
				TripID:        trip.ID,
				HousekeeperID: housekeeperID,
				Date:          trip.EndDate,
				Status:        models.TaskStatusPending,
				PayAmount:     pay,
			}
			if err := d.taskRepo.Create(ctx, tx, task); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Trip %s: %v", trip.Title, err))
				continue
			}
			result.Count++
		}
		return nil
	})

	if err != nil {
		result.OK = false
		result.Count = 0
		result.Message = fmt.Sprintf("Database error: %v", err)
		return result, nil
	}

	result.OK = true
	result.Message = fmt.Sprintf("Created %d housekeeping tasks", result.Count)
	metrics.AddTasksDerived(result.Count)

	d.logger.Info().
		Str("calendar_id", cal.ID).
		Int("count", result.Count).
		Int("errors", len(result.Errors)).
		Msg("housekeeping tasks derived")

	return result, nil
}

// resolvePay returns the owning admin's configured housekeeper pay, or the
// service default.
func (d *Derivator) resolvePay(ctx context.Context, amenityID string) (float64, error) {
	amenity, err := d.amenityRepo.GetByID(ctx, amenityID)
	if err != nil {
		return 0, err
	}
	if amenity == nil {
		return d.defaultPay, nil
	}

	admin, err := d.adminRepo.GetByID(ctx, amenity.AdminID)
	if err != nil {
		return 0, err
	}
	if admin == nil || admin.DefaultHousekeeperPay <= 0 {
		return d.defaultPay, nil
	}

	return admin.DefaultHousekeeperPay, nil
}
