package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/guest-registry/backend/internal/storage/models"
)

// TripRepository provides data access for trips. The methods the reconciler
// runs inside its transaction take an explicit Queryable.
type TripRepository struct {
	BaseRepository
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const tripColumns = `
	id, amenity_id, calendar_id, admin_id, title, start_date, end_date, max_guests,
	external_reservation_id, external_confirm_code, external_guest_name,
	external_guest_email, external_guest_count, external_synced_at,
	is_externally_synced, created_at, updated_at
`

// Create inserts a new trip on the given Queryable.
func (r *TripRepository) Create(ctx context.Context, q Queryable, trip *models.Trip) error {
	trip.ID = GenerateID()
	trip.CreatedAt = r.Now()
	trip.UpdatedAt = r.Now()
	if trip.MaxGuests < 1 {
		trip.MaxGuests = 1
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		trip.ID, trip.AmenityID, trip.CalendarID, trip.AdminID, trip.Title,
		trip.StartDate, trip.EndDate, trip.MaxGuests,
		trip.ExternalReservationID, trip.ExternalConfirmCode, trip.ExternalGuestName,
		trip.ExternalGuestEmail, trip.ExternalGuestCount, trip.ExternalSyncedAt,
		trip.IsExternallySynced, trip.CreatedAt, trip.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}

	return nil
}

// Update updates an existing trip on the given Queryable.
func (r *TripRepository) Update(ctx context.Context, q Queryable, trip *models.Trip) error {
	trip.UpdatedAt = r.Now()

	result, err := q.ExecContext(ctx, `
		UPDATE trips SET
			title = ?, start_date = ?, end_date = ?, max_guests = ?,
			external_confirm_code = ?, external_guest_name = ?, external_guest_email = ?,
			external_guest_count = ?, external_synced_at = ?, is_externally_synced = ?,
			updated_at = ?
		WHERE id = ?
	`,
		trip.Title, trip.StartDate, trip.EndDate, trip.MaxGuests,
		trip.ExternalConfirmCode, trip.ExternalGuestName, trip.ExternalGuestEmail,
		trip.ExternalGuestCount, trip.ExternalSyncedAt, trip.IsExternallySynced,
		trip.UpdatedAt, trip.ID,
	)

	if err != nil {
		return fmt.Errorf("updating trip: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("trip not found: %s", trip.ID)
	}

	return nil
}

// GetByID retrieves a trip by its ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	return r.getOne(ctx, r.DB(), "SELECT "+tripColumns+" FROM trips WHERE id = ?", id)
}

// GetByExternalID retrieves the trip sourced from an upstream event, scoped
// to the sourcing calendar.
func (r *TripRepository) GetByExternalID(ctx context.Context, q Queryable, calendarID, externalID string) (*models.Trip, error) {
	return r.getOne(ctx, q, `
		SELECT `+tripColumns+` FROM trips
		WHERE calendar_id = ? AND external_reservation_id = ?
	`, calendarID, externalID)
}

func (r *TripRepository) getOne(ctx context.Context, q Queryable, query string, args ...any) (*models.Trip, error) {
	trip := &models.Trip{}

	err := q.QueryRowContext(ctx, query, args...).Scan(
		&trip.ID, &trip.AmenityID, &trip.CalendarID, &trip.AdminID, &trip.Title,
		&trip.StartDate, &trip.EndDate, &trip.MaxGuests,
		&trip.ExternalReservationID, &trip.ExternalConfirmCode, &trip.ExternalGuestName,
		&trip.ExternalGuestEmail, &trip.ExternalGuestCount, &trip.ExternalSyncedAt,
		&trip.IsExternallySynced, &trip.CreatedAt, &trip.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying trip: %w", err)
	}

	return trip, nil
}

// ListByCalendar retrieves all trips sourced by a calendar.
func (r *TripRepository) ListByCalendar(ctx context.Context, calendarID string) ([]models.Trip, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+tripColumns+` FROM trips WHERE calendar_id = ?
		ORDER BY start_date
	`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

// ListByAmenity retrieves all trips of an amenity.
func (r *TripRepository) ListByAmenity(ctx context.Context, amenityID string) ([]models.Trip, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+tripColumns+` FROM trips WHERE amenity_id = ?
		ORDER BY start_date
	`, amenityID)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

// ListWithoutTask retrieves trips on a calendar that have no housekeeping
// task yet.
func (r *TripRepository) ListWithoutTask(ctx context.Context, calendarID string) ([]models.Trip, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+tripColumns+` FROM trips t
		WHERE t.calendar_id = ?
		  AND NOT EXISTS (SELECT 1 FROM housekeeping_tasks h WHERE h.trip_id = t.id)
		ORDER BY t.start_date
	`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("querying trips without task: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

func scanTrips(rows *sql.Rows) ([]models.Trip, error) {
	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		if err := rows.Scan(
			&trip.ID, &trip.AmenityID, &trip.CalendarID, &trip.AdminID, &trip.Title,
			&trip.StartDate, &trip.EndDate, &trip.MaxGuests,
			&trip.ExternalReservationID, &trip.ExternalConfirmCode, &trip.ExternalGuestName,
			&trip.ExternalGuestEmail, &trip.ExternalGuestCount, &trip.ExternalSyncedAt,
			&trip.IsExternallySynced, &trip.CreatedAt, &trip.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}
