package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/guest-registry/backend/internal/storage/models"
)

// HousekeepingRepository provides data access for housekeeping tasks.
type HousekeepingRepository struct {
	BaseRepository
}

// NewHousekeepingRepository creates a new housekeeping repository.
func NewHousekeepingRepository(db *DB) *HousekeepingRepository {
	return &HousekeepingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const taskColumns = `
	id, trip_id, housekeeper_id, date, status, pay_amount, paid, paid_date,
	notes, photos, created_at, updated_at
`

// Create inserts a new housekeeping task on the given Queryable.
func (r *HousekeepingRepository) Create(ctx context.Context, q Queryable, task *models.HousekeepingTask) error {
	task.ID = GenerateID()
	task.CreatedAt = r.Now()
	task.UpdatedAt = r.Now()
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}

	photos, err := marshalPhotos(task.Photos)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO housekeeping_tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID, task.TripID, task.HousekeeperID, task.Date, task.Status,
		task.PayAmount, task.Paid, task.PaidDate, task.Notes, photos,
		task.CreatedAt, task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting housekeeping task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *HousekeepingRepository) GetByID(ctx context.Context, id string) (*models.HousekeepingTask, error) {
	return r.getOne(ctx, "SELECT "+taskColumns+" FROM housekeeping_tasks WHERE id = ?", id)
}

// GetByTripID retrieves the task belonging to a trip.
func (r *HousekeepingRepository) GetByTripID(ctx context.Context, tripID string) (*models.HousekeepingTask, error) {
	return r.getOne(ctx, "SELECT "+taskColumns+" FROM housekeeping_tasks WHERE trip_id = ?", tripID)
}

func (r *HousekeepingRepository) getOne(ctx context.Context, query string, args ...any) (*models.HousekeepingTask, error) {
	task := &models.HousekeepingTask{}
	var photos string

	err := r.DB().QueryRowContext(ctx, query, args...).Scan(
		&task.ID, &task.TripID, &task.HousekeeperID, &task.Date, &task.Status,
		&task.PayAmount, &task.Paid, &task.PaidDate, &task.Notes, &photos,
		&task.CreatedAt, &task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying housekeeping task: %w", err)
	}

	if err := json.Unmarshal([]byte(photos), &task.Photos); err != nil {
		return nil, fmt.Errorf("decoding task photos: %w", err)
	}

	return task, nil
}

// ListByCalendar retrieves the tasks for all trips sourced by a calendar.
func (r *HousekeepingRepository) ListByCalendar(ctx context.Context, calendarID string) ([]models.HousekeepingTask, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+taskColumns+` FROM housekeeping_tasks
		WHERE trip_id IN (SELECT id FROM trips WHERE calendar_id = ?)
		ORDER BY date
	`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("querying housekeeping tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListByHousekeeper retrieves the tasks assigned to a housekeeper.
func (r *HousekeepingRepository) ListByHousekeeper(ctx context.Context, housekeeperID string) ([]models.HousekeepingTask, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+taskColumns+` FROM housekeeping_tasks
		WHERE housekeeper_id = ?
		ORDER BY date
	`, housekeeperID)
	if err != nil {
		return nil, fmt.Errorf("querying housekeeping tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]models.HousekeepingTask, error) {
	var tasks []models.HousekeepingTask
	for rows.Next() {
		var task models.HousekeepingTask
		var photos string
		if err := rows.Scan(
			&task.ID, &task.TripID, &task.HousekeeperID, &task.Date, &task.Status,
			&task.PayAmount, &task.Paid, &task.PaidDate, &task.Notes, &photos,
			&task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning housekeeping task: %w", err)
		}
		if err := json.Unmarshal([]byte(photos), &task.Photos); err != nil {
			return nil, fmt.Errorf("decoding task photos: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateStatus advances the status of a task.
func (r *HousekeepingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidTaskStatus(status) {
		return fmt.Errorf("invalid task status: %s", status)
	}

	result, err := r.DB().ExecContext(ctx, `
		UPDATE housekeeping_tasks SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("housekeeping task not found: %s", id)
	}

	return nil
}

// MarkPaid records a payout to the housekeeper.
func (r *HousekeepingRepository) MarkPaid(ctx context.Context, id string) error {
	now := r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE housekeeping_tasks SET paid = 1, paid_date = ?, updated_at = ? WHERE id = ?
	`, now, now, id)

	if err != nil {
		return fmt.Errorf("marking task paid: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("housekeeping task not found: %s", id)
	}

	return nil
}

// UpdateNotes replaces the notes and photo list of a task.
func (r *HousekeepingRepository) UpdateNotes(ctx context.Context, id, notes string, photoURLs []string) error {
	photos, err := marshalPhotos(photoURLs)
	if err != nil {
		return err
	}

	result, err := r.DB().ExecContext(ctx, `
		UPDATE housekeeping_tasks SET notes = ?, photos = ?, updated_at = ? WHERE id = ?
	`, notes, photos, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating task notes: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("housekeeping task not found: %s", id)
	}

	return nil
}

func marshalPhotos(photos []string) (string, error) {
	if photos == nil {
		photos = []string{}
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return "", fmt.Errorf("encoding task photos: %w", err)
	}
	return string(data), nil
}
