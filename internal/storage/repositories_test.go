package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guest-registry/backend/internal/storage/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(db))
	return db
}

func seedAdmin(t *testing.T, db *DB) *models.Admin {
	t.Helper()
	admin := &models.Admin{Username: "owner", Email: "owner@example.com"}
	require.NoError(t, NewAdminRepository(db).Create(context.Background(), admin))
	return admin
}

func seedAmenity(t *testing.T, db *DB, adminID string) *models.Amenity {
	t.Helper()
	amenity := &models.Amenity{AdminID: adminID, Name: "Lakeside Cabin", MaxGuests: 4, IsActive: true}
	require.NoError(t, NewAmenityRepository(db).Create(context.Background(), amenity))
	return amenity
}

func seedCalendar(t *testing.T, db *DB, amenityID string) *models.Calendar {
	t.Helper()
	cal := &models.Calendar{
		AmenityID:     amenityID,
		Name:          "Airbnb",
		URL:           "https://example.com/feed.ics",
		Type:          models.CalendarTypeAirbnb,
		SyncEnabled:   true,
		SyncFrequency: models.SyncFrequencyDaily,
	}
	require.NoError(t, NewCalendarRepository(db).Create(context.Background(), cal))
	return cal
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))
}

func TestAdminRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	admin := seedAdmin(t, db)
	require.NoError(t, repo.SoftDelete(ctx, admin.ID))

	// Soft-deleted accounts still resolve by ID for historic records.
	got, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted())

	// But they no longer occupy the username.
	byName, err := repo.GetByUsername(ctx, "owner")
	require.NoError(t, err)
	assert.Nil(t, byName)

	replacement := &models.Admin{Username: "owner", Email: "owner@example.com"}
	require.NoError(t, repo.Create(ctx, replacement))
}

func TestAdminRepository_UniqueUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	seedAdmin(t, db)
	dup := &models.Admin{Username: "owner", Email: "other@example.com"}
	assert.Error(t, repo.Create(ctx, dup))
}

func TestAmenityRepository_DeleteGuardedByTrips(t *testing.T) {
	db := newTestDB(t)
	repo := NewAmenityRepository(db)
	ctx := context.Background()

	admin := seedAdmin(t, db)
	amenity := seedAmenity(t, db, admin.ID)

	trip := &models.Trip{
		AmenityID: amenity.ID,
		AdminID:   admin.ID,
		Title:     "Family stay",
		StartDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
		MaxGuests: 2,
	}
	require.NoError(t, NewTripRepository(db).Create(ctx, db, trip))

	err := repo.Delete(ctx, amenity.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")

	empty := seedAmenity(t, db, admin.ID)
	assert.NoError(t, repo.Delete(ctx, empty.ID))
}

func TestAmenityRepository_DefaultHousekeeper(t *testing.T) {
	db := newTestDB(t)
	repo := NewAmenityRepository(db)
	adminRepo := NewAdminRepository(db)
	ctx := context.Background()

	admin := seedAdmin(t, db)
	amenity := seedAmenity(t, db, admin.ID)

	hk1 := &models.Admin{Username: "cleaner1", Email: "c1@example.com", Role: models.RoleHousekeeper}
	hk2 := &models.Admin{Username: "cleaner2", Email: "c2@example.com", Role: models.RoleHousekeeper}
	require.NoError(t, adminRepo.Create(ctx, hk1))
	require.NoError(t, adminRepo.Create(ctx, hk2))

	// Nothing assigned yet.
	id, err := repo.DefaultHousekeeperID(ctx, amenity.ID)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.AssignHousekeeper(ctx, amenity.ID, hk1.ID))
	require.NoError(t, repo.AssignHousekeeper(ctx, amenity.ID, hk2.ID))

	// Assignment alone does not make a default.
	id, err = repo.DefaultHousekeeperID(ctx, amenity.ID)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.SetDefaultHousekeeper(ctx, amenity.ID, hk1.ID))
	id, err = repo.DefaultHousekeeperID(ctx, amenity.ID)
	require.NoError(t, err)
	assert.Equal(t, hk1.ID, id)

	// Switching the default clears the previous one.
	require.NoError(t, repo.SetDefaultHousekeeper(ctx, amenity.ID, hk2.ID))
	id, err = repo.DefaultHousekeeperID(ctx, amenity.ID)
	require.NoError(t, err)
	assert.Equal(t, hk2.ID, id)

	assignments, err := repo.ListHousekeepers(ctx, amenity.ID)
	require.NoError(t, err)
	defaults := 0
	for _, a := range assignments {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	// Setting an unassigned housekeeper fails.
	assert.Error(t, repo.SetDefaultHousekeeper(ctx, amenity.ID, "missing"))
}

func TestTripRepository_ExternalIDUniquePerCalendar(t *testing.T) {
	db := newTestDB(t)
	repo := NewTripRepository(db)
	ctx := context.Background()

	admin := seedAdmin(t, db)
	amenity := seedAmenity(t, db, admin.ID)
	cal := seedCalendar(t, db, amenity.ID)
	otherCal := seedCalendar(t, db, amenity.ID)

	uid := "res-1@airbnb.com"
	trip := &models.Trip{
		AmenityID:             amenity.ID,
		CalendarID:            &cal.ID,
		AdminID:               admin.ID,
		Title:                 "Reserved",
		StartDate:             time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
		MaxGuests:             2,
		ExternalReservationID: &uid,
		IsExternallySynced:    true,
	}
	require.NoError(t, repo.Create(ctx, db, trip))

	// Same UID on the same calendar is rejected by the unique index.
	dup := *trip
	dup.ID = ""
	assert.Error(t, repo.Create(ctx, db, &dup))

	// Same UID on a different calendar is a distinct reservation.
	other := *trip
	other.ID = ""
	other.CalendarID = &otherCal.ID
	assert.NoError(t, repo.Create(ctx, db, &other))

	got, err := repo.GetByExternalID(ctx, db.DB, cal.ID, uid)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, trip.ID, got.ID)

	missing, err := repo.GetByExternalID(ctx, db.DB, cal.ID, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTripRepository_ListWithoutTask(t *testing.T) {
	db := newTestDB(t)
	tripRepo := NewTripRepository(db)
	taskRepo := NewHousekeepingRepository(db)
	ctx := context.Background()

	admin := seedAdmin(t, db)
	amenity := seedAmenity(t, db, admin.ID)
	cal := seedCalendar(t, db, amenity.ID)
	hk := &models.Admin{Username: "cleaner", Email: "c@example.com", Role: models.RoleHousekeeper}
	require.NoError(t, NewAdminRepository(db).Create(ctx, hk))

	mkTrip := func(uid string) *models.Trip {
		trip := &models.Trip{
			AmenityID:             amenity.ID,
			CalendarID:            &cal.ID,
			AdminID:               admin.ID,
			Title:                 "Reserved",
			StartDate:             time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			EndDate:               time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
			MaxGuests:             2,
			ExternalReservationID: &uid,
			IsExternallySynced:    true,
		}
		require.NoError(t, tripRepo.Create(ctx, db, trip))
		return trip
	}

	covered := mkTrip("res-1@airbnb.com")
	pending := mkTrip("res-2@airbnb.com")

	task := &models.HousekeepingTask{
		TripID:        covered.ID,
		HousekeeperID: hk.ID,
		Date:          covered.EndDate,
		Status:        models.TaskStatusPending,
		PayAmount:     20,
	}
	require.NoError(t, taskRepo.Create(ctx, db, task))

	trips, err := tripRepo.ListWithoutTask(ctx, cal.ID)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, pending.ID, trips[0].ID)
}

func TestHousekeepingRepository_StatusAndPayment(t *testing.T) {
	db := newTestDB(t)
	tripRepo := NewTripRepository(db)
	taskRepo := NewHousekeepingRepository(db)
	ctx := context.Background()

	admin := seedAdmin(t, db)
	amenity := seedAmenity(t, db, admin.ID)
	cal := seedCalendar(t, db, amenity.ID)
	hk := &models.Admin{Username: "cleaner", Email: "c@example.com", Role: models.RoleHousekeeper}
	require.NoError(t, NewAdminRepository(db).Create(ctx, hk))

	uid := "res-1@airbnb.com"
	trip := &models.Trip{
		AmenityID:             amenity.ID,
		CalendarID:            &cal.ID,
		AdminID:               admin.ID,
		Title:                 "Reserved",
		StartDate:             time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
		MaxGuests:             2,
		ExternalReservationID: &uid,
	}
	require.NoError(t, tripRepo.Create(ctx, db, trip))

	task := &models.HousekeepingTask{
		TripID:        trip.ID,
		HousekeeperID: hk.ID,
		Date:          trip.EndDate,
		Status:        models.TaskStatusPending,
		PayAmount:     25,
	}
	require.NoError(t, taskRepo.Create(ctx, db, task))

	require.NoError(t, taskRepo.UpdateStatus(ctx, task.ID, models.TaskStatusCompleted))
	assert.Error(t, taskRepo.UpdateStatus(ctx, task.ID, "bogus"))

	require.NoError(t, taskRepo.MarkPaid(ctx, task.ID))
	require.NoError(t, taskRepo.UpdateNotes(ctx, task.ID, "left keys in lockbox", []string{"https://example.com/p1.jpg"}))

	got, err := taskRepo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.True(t, got.Paid)
	assert.NotNil(t, got.PaidDate)
	assert.Equal(t, "left keys in lockbox", got.Notes)
	assert.Equal(t, []string{"https://example.com/p1.jpg"}, got.Photos)

	// One task per trip.
	second := &models.HousekeepingTask{
		TripID:        trip.ID,
		HousekeeperID: hk.ID,
		Date:          trip.EndDate,
		Status:        models.TaskStatusPending,
		PayAmount:     25,
	}
	assert.Error(t, taskRepo.Create(ctx, db, second))
}
