package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/guest-registry/backend/internal/storage/models"
)

// AdminRepository provides data access for admin and housekeeper accounts.
type AdminRepository struct {
	BaseRepository
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(db *DB) *AdminRepository {
	return &AdminRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new account.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = GenerateID()
	admin.CreatedAt = r.Now()
	admin.UpdatedAt = r.Now()
	if admin.Role == "" {
		admin.Role = models.RoleAdmin
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO admins (
			id, username, email, role, default_housekeeper_pay, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		admin.ID, admin.Username, admin.Email, admin.Role,
		admin.DefaultHousekeeperPay, admin.CreatedAt, admin.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting admin: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID. Soft-deleted accounts are included
// so that historic trips and tasks keep resolving their owners.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	admin := &models.Admin{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, username, email, role, default_housekeeper_pay, deleted_at, created_at, updated_at
		FROM admins WHERE id = ?
	`, id).Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.Role,
		&admin.DefaultHousekeeperPay, &admin.DeletedAt, &admin.CreatedAt, &admin.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin: %w", err)
	}

	return admin, nil
}

// GetByUsername retrieves a non-deleted account by username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	admin := &models.Admin{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, username, email, role, default_housekeeper_pay, deleted_at, created_at, updated_at
		FROM admins WHERE username = ? AND deleted_at IS NULL
	`, username).Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.Role,
		&admin.DefaultHousekeeperPay, &admin.DeletedAt, &admin.CreatedAt, &admin.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin by username: %w", err)
	}

	return admin, nil
}

// List retrieves all non-deleted accounts, optionally filtered by role.
func (r *AdminRepository) List(ctx context.Context, role string) ([]models.Admin, error) {
	query := `
		SELECT id, username, email, role, default_housekeeper_pay, deleted_at, created_at, updated_at
		FROM admins WHERE deleted_at IS NULL
	`
	args := []any{}
	if role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}
	query += " ORDER BY username"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying admins: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var admin models.Admin
		if err := rows.Scan(
			&admin.ID, &admin.Username, &admin.Email, &admin.Role,
			&admin.DefaultHousekeeperPay, &admin.DeletedAt, &admin.CreatedAt, &admin.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning admin: %w", err)
		}
		admins = append(admins, admin)
	}

	return admins, rows.Err()
}

// Update updates the mutable fields of an account.
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	admin.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE admins SET
			username = ?, email = ?, default_housekeeper_pay = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`,
		admin.Username, admin.Email, admin.DefaultHousekeeperPay, admin.UpdatedAt, admin.ID,
	)

	if err != nil {
		return fmt.Errorf("updating admin: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("admin not found: %s", admin.ID)
	}

	return nil
}

// SoftDelete marks an account as deleted. The row is retained so historic
// references stay intact.
func (r *AdminRepository) SoftDelete(ctx context.Context, id string) error {
	now := r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE admins SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, now, now, id)

	if err != nil {
		return fmt.Errorf("deleting admin: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("admin not found: %s", id)
	}

	return nil
}
