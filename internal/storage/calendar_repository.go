package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guest-registry/backend/internal/storage/models"
)

// CalendarRepository provides data access for calendar subscriptions.
type CalendarRepository struct {
	BaseRepository
}

// NewCalendarRepository creates a new calendar repository.
func NewCalendarRepository(db *DB) *CalendarRepository {
	return &CalendarRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new calendar subscription.
func (r *CalendarRepository) Create(ctx context.Context, cal *models.Calendar) error {
	cal.ID = GenerateID()
	cal.CreatedAt = r.Now()
	cal.UpdatedAt = r.Now()
	if cal.Type == "" {
		cal.Type = models.CalendarTypeCustom
	}
	if cal.SyncFrequency == "" {
		cal.SyncFrequency = models.SyncFrequencyDaily
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO calendars (
			id, amenity_id, name, url, type, sync_enabled, sync_frequency, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cal.ID, cal.AmenityID, cal.Name, cal.URL, cal.Type,
		cal.SyncEnabled, cal.SyncFrequency, cal.CreatedAt, cal.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting calendar: %w", err)
	}

	return nil
}

// GetByID retrieves a calendar by its ID.
func (r *CalendarRepository) GetByID(ctx context.Context, id string) (*models.Calendar, error) {
	cal := &models.Calendar{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, amenity_id, name, url, type, sync_enabled, sync_frequency, last_sync, created_at, updated_at
		FROM calendars WHERE id = ?
	`, id).Scan(
		&cal.ID, &cal.AmenityID, &cal.Name, &cal.URL, &cal.Type,
		&cal.SyncEnabled, &cal.SyncFrequency, &cal.LastSync, &cal.CreatedAt, &cal.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying calendar: %w", err)
	}

	return cal, nil
}

// ListByAmenity retrieves the calendars of an amenity. When syncEnabledOnly
// is set, disabled calendars are filtered out.
func (r *CalendarRepository) ListByAmenity(ctx context.Context, amenityID string, syncEnabledOnly bool) ([]models.Calendar, error) {
	query := `
		SELECT id, amenity_id, name, url, type, sync_enabled, sync_frequency, last_sync, created_at, updated_at
		FROM calendars WHERE amenity_id = ?
	`
	if syncEnabledOnly {
		query += " AND sync_enabled = 1"
	}
	query += " ORDER BY name"

	rows, err := r.DB().QueryContext(ctx, query, amenityID)
	if err != nil {
		return nil, fmt.Errorf("querying calendars: %w", err)
	}
	defer rows.Close()

	return scanCalendars(rows)
}

// ListSyncEnabled retrieves all sync-enabled calendars belonging to active
// amenities, ordered so that never-synced calendars come first.
func (r *CalendarRepository) ListSyncEnabled(ctx context.Context) ([]models.Calendar, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT c.id, c.amenity_id, c.name, c.url, c.type, c.sync_enabled, c.sync_frequency,
		       c.last_sync, c.created_at, c.updated_at
		FROM calendars c
		JOIN amenities a ON a.id = c.amenity_id
		WHERE c.sync_enabled = 1 AND a.is_active = 1
		ORDER BY c.last_sync ASC NULLS FIRST
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sync-enabled calendars: %w", err)
	}
	defer rows.Close()

	return scanCalendars(rows)
}

func scanCalendars(rows *sql.Rows) ([]models.Calendar, error) {
	var calendars []models.Calendar
	for rows.Next() {
		var cal models.Calendar
		if err := rows.Scan(
			&cal.ID, &cal.AmenityID, &cal.Name, &cal.URL, &cal.Type,
			&cal.SyncEnabled, &cal.SyncFrequency, &cal.LastSync, &cal.CreatedAt, &cal.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning calendar: %w", err)
		}
		calendars = append(calendars, cal)
	}

	return calendars, rows.Err()
}

// Update updates an existing calendar.
func (r *CalendarRepository) Update(ctx context.Context, cal *models.Calendar) error {
	cal.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE calendars SET
			name = ?, url = ?, type = ?, sync_enabled = ?, sync_frequency = ?, updated_at = ?
		WHERE id = ?
	`,
		cal.Name, cal.URL, cal.Type, cal.SyncEnabled, cal.SyncFrequency, cal.UpdatedAt, cal.ID,
	)

	if err != nil {
		return fmt.Errorf("updating calendar: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("calendar not found: %s", cal.ID)
	}

	return nil
}

// TouchLastSync records a successful sync. It runs on the given Queryable so
// the reconciler can include it in its transaction; a rolled back transaction
// discards the stamp.
func (r *CalendarRepository) TouchLastSync(ctx context.Context, q Queryable, id string, syncedAt time.Time) error {
	_, err := q.ExecContext(ctx, `
		UPDATE calendars SET last_sync = ?, updated_at = ? WHERE id = ?
	`, syncedAt, syncedAt, id)

	if err != nil {
		return fmt.Errorf("updating last sync: %w", err)
	}

	return nil
}

// Delete removes a calendar by ID. Trips sourced from it are detached, not
// deleted.
func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM calendars WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting calendar: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("calendar not found: %s", id)
	}

	return nil
}
