package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/guest-registry/backend/internal/storage/models"
)

// AmenityRepository provides data access for amenities and their housekeeper
// assignments.
type AmenityRepository struct {
	BaseRepository
}

// NewAmenityRepository creates a new amenity repository.
func NewAmenityRepository(db *DB) *AmenityRepository {
	return &AmenityRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new amenity.
func (r *AmenityRepository) Create(ctx context.Context, a *models.Amenity) error {
	a.ID = GenerateID()
	a.CreatedAt = r.Now()
	a.UpdatedAt = r.Now()
	if a.MaxGuests < 1 {
		a.MaxGuests = 1
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO amenities (
			id, admin_id, name, max_guests, is_active, default_housekeeper_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.AdminID, a.Name, a.MaxGuests, a.IsActive,
		a.DefaultHousekeeperID, a.CreatedAt, a.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting amenity: %w", err)
	}

	return nil
}

// GetByID retrieves an amenity by its ID.
func (r *AmenityRepository) GetByID(ctx context.Context, id string) (*models.Amenity, error) {
	a := &models.Amenity{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, admin_id, name, max_guests, is_active, default_housekeeper_id, created_at, updated_at
		FROM amenities WHERE id = ?
	`, id).Scan(
		&a.ID, &a.AdminID, &a.Name, &a.MaxGuests, &a.IsActive,
		&a.DefaultHousekeeperID, &a.CreatedAt, &a.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying amenity: %w", err)
	}

	return a, nil
}

// ListByAdmin retrieves all amenities owned by an admin.
func (r *AmenityRepository) ListByAdmin(ctx context.Context, adminID string) ([]models.Amenity, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, admin_id, name, max_guests, is_active, default_housekeeper_id, created_at, updated_at
		FROM amenities WHERE admin_id = ?
		ORDER BY name
	`, adminID)
	if err != nil {
		return nil, fmt.Errorf("querying amenities: %w", err)
	}
	defer rows.Close()

	var amenities []models.Amenity
	for rows.Next() {
		var a models.Amenity
		if err := rows.Scan(
			&a.ID, &a.AdminID, &a.Name, &a.MaxGuests, &a.IsActive,
			&a.DefaultHousekeeperID, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning amenity: %w", err)
		}
		amenities = append(amenities, a)
	}

	return amenities, rows.Err()
}

// Update updates the mutable fields of an amenity.
func (r *AmenityRepository) Update(ctx context.Context, a *models.Amenity) error {
	a.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE amenities SET
			name = ?, max_guests = ?, is_active = ?, default_housekeeper_id = ?, updated_at = ?
		WHERE id = ?
	`,
		a.Name, a.MaxGuests, a.IsActive, a.DefaultHousekeeperID, a.UpdatedAt, a.ID,
	)

	if err != nil {
		return fmt.Errorf("updating amenity: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("amenity not found: %s", a.ID)
	}

	return nil
}

// Delete removes an amenity. Amenities with trips cannot be deleted.
func (r *AmenityRepository) Delete(ctx context.Context, id string) error {
	var tripCount int
	err := r.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM trips WHERE amenity_id = ?", id,
	).Scan(&tripCount)
	if err != nil {
		return fmt.Errorf("counting trips: %w", err)
	}
	if tripCount > 0 {
		return fmt.Errorf("amenity %s has %d trips and cannot be deleted", id, tripCount)
	}

	result, err := r.DB().ExecContext(ctx, "DELETE FROM amenities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting amenity: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("amenity not found: %s", id)
	}

	return nil
}

// AssignHousekeeper adds a housekeeper to an amenity.
func (r *AmenityRepository) AssignHousekeeper(ctx context.Context, amenityID, housekeeperID string) error {
	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO amenity_housekeepers (amenity_id, housekeeper_id, is_default, created_at)
		VALUES (?, ?, 0, ?)
	`, amenityID, housekeeperID, r.Now())

	if err != nil {
		return fmt.Errorf("assigning housekeeper: %w", err)
	}

	return nil
}

// RemoveHousekeeper removes a housekeeper assignment from an amenity.
func (r *AmenityRepository) RemoveHousekeeper(ctx context.Context, amenityID, housekeeperID string) error {
	result, err := r.DB().ExecContext(ctx, `
		DELETE FROM amenity_housekeepers WHERE amenity_id = ? AND housekeeper_id = ?
	`, amenityID, housekeeperID)

	if err != nil {
		return fmt.Errorf("removing housekeeper: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("housekeeper %s not assigned to amenity %s", housekeeperID, amenityID)
	}

	return nil
}

// SetDefaultHousekeeper marks one assigned housekeeper as the amenity's
// default, clearing any previous default in the same transaction.
func (r *AmenityRepository) SetDefaultHousekeeper(ctx context.Context, amenityID, housekeeperID string) error {
	return r.Transaction(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE amenity_housekeepers SET is_default = 0 WHERE amenity_id = ?
		`, amenityID)
		if err != nil {
			return fmt.Errorf("clearing default housekeeper: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE amenity_housekeepers SET is_default = 1
			WHERE amenity_id = ? AND housekeeper_id = ?
		`, amenityID, housekeeperID)
		if err != nil {
			return fmt.Errorf("setting default housekeeper: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return fmt.Errorf("housekeeper %s not assigned to amenity %s", housekeeperID, amenityID)
		}

		return nil
	})
}

// ListHousekeepers retrieves the housekeeper assignments for an amenity.
func (r *AmenityRepository) ListHousekeepers(ctx context.Context, amenityID string) ([]models.AmenityHousekeeper, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT amenity_id, housekeeper_id, is_default, created_at
		FROM amenity_housekeepers WHERE amenity_id = ?
		ORDER BY is_default DESC, housekeeper_id
	`, amenityID)
	if err != nil {
		return nil, fmt.Errorf("querying housekeepers: %w", err)
	}
	defer rows.Close()

	var assignments []models.AmenityHousekeeper
	for rows.Next() {
		var ah models.AmenityHousekeeper
		if err := rows.Scan(&ah.AmenityID, &ah.HousekeeperID, &ah.IsDefault, &ah.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning housekeeper: %w", err)
		}
		assignments = append(assignments, ah)
	}

	return assignments, rows.Err()
}

// DefaultHousekeeperID resolves the default housekeeper for an amenity:
// the assignment marked is_default first, the legacy amenity column second.
// Returns empty string when neither is set.
func (r *AmenityRepository) DefaultHousekeeperID(ctx context.Context, amenityID string) (string, error) {
	var housekeeperID string
	err := r.DB().QueryRowContext(ctx, `
		SELECT housekeeper_id FROM amenity_housekeepers
		WHERE amenity_id = ? AND is_default = 1
	`, amenityID).Scan(&housekeeperID)

	if err == nil {
		return housekeeperID, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("querying default housekeeper: %w", err)
	}

	var legacy sql.NullString
	err = r.DB().QueryRowContext(ctx, `
		SELECT default_housekeeper_id FROM amenities WHERE id = ?
	`, amenityID).Scan(&legacy)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying legacy default housekeeper: %w", err)
	}

	if legacy.Valid {
		return legacy.String, nil
	}
	return "", nil
}
