package housekeeping

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/storage/models"
)

type deriveFixture struct {
	db           *storage.DB
	adminRepo    *storage.AdminRepository
	amenityRepo  *storage.AmenityRepository
	calendarRepo *storage.CalendarRepository
	tripRepo     *storage.TripRepository
	taskRepo     *storage.HousekeepingRepository
	derivator    *Derivator

	admin       *models.Admin
	housekeeper *models.Admin
	amenity     *models.Amenity
	calendar    *models.Calendar
}

func newDeriveFixture(t *testing.T) *deriveFixture {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(db))

	f := &deriveFixture{
		db:           db,
		adminRepo:    storage.NewAdminRepository(db),
		amenityRepo:  storage.NewAmenityRepository(db),
		calendarRepo: storage.NewCalendarRepository(db),
		tripRepo:     storage.NewTripRepository(db),
		taskRepo:     storage.NewHousekeepingRepository(db),
	}

	f.derivator = NewDerivator(
		db, f.calendarRepo, f.amenityRepo, f.adminRepo, f.tripRepo, f.taskRepo,
		zerolog.Nop(), 20,
	)

	ctx := context.Background()

	f.admin = &models.Admin{Username: "owner", Email: "owner@example.com"}
	require.NoError(t, f.adminRepo.Create(ctx, f.admin))

	f.housekeeper = &models.Admin{
		Username: "cleaner",
		Email:    "cleaner@example.com",
		Role:     models.RoleHousekeeper,
	}
	require.NoError(t, f.adminRepo.Create(ctx, f.housekeeper))

	f.amenity = &models.Amenity{
		AdminID:   f.admin.ID,
		Name:      "Lakeside Cabin",
		MaxGuests: 4,
		IsActive:  true,
	}
	require.NoError(t, f.amenityRepo.Create(ctx, f.amenity))

	f.calendar = &models.Calendar{
		AmenityID:     f.amenity.ID,
		Name:          "Airbnb",
		URL:           "https://example.com/feed.ics",
		Type:          models.CalendarTypeAirbnb,
		SyncEnabled:   true,
		SyncFrequency: models.SyncFrequencyDaily,
	}
	require.NoError(t, f.calendarRepo.Create(ctx, f.calendar))

	return f
}

func (f *deriveFixture) assignDefaultHousekeeper(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.amenityRepo.AssignHousekeeper(ctx, f.amenity.ID, f.housekeeper.ID))
	require.NoError(t, f.amenityRepo.SetDefaultHousekeeper(ctx, f.amenity.ID, f.housekeeper.ID))
}

func (f *deriveFixture) addSyncedTrip(t *testing.T, uid string, end time.Time) *models.Trip {
	t.Helper()
	trip := &models.Trip{
		AmenityID:             f.amenity.ID,
		CalendarID:            &f.calendar.ID,
		AdminID:               f.admin.ID,
		Title:                 "Reserved",
		StartDate:             end.AddDate(0, 0, -3),
		EndDate:               end,
		MaxGuests:             2,
		ExternalReservationID: &uid,
		IsExternallySynced:    true,
	}
	require.NoError(t, f.tripRepo.Create(context.Background(), f.db, trip))
	return trip
}

func TestDeriveForCalendar_CreatesPendingTasks(t *testing.T) {
	f := newDeriveFixture(t)
	f.assignDefaultHousekeeper(t)

	checkout := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	trip := f.addSyncedTrip(t, "res-1@airbnb.com", checkout)
	f.addSyncedTrip(t, "res-2@airbnb.com", checkout.AddDate(0, 0, 10))

	result, err := f.derivator.DeriveForCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 2, result.Count)
	assert.Empty(t, result.Errors)

	task, err := f.taskRepo.GetByTripID(context.Background(), trip.ID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, f.housekeeper.ID, task.HousekeeperID)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, checkout, task.Date)
	assert.Equal(t, 20.0, task.PayAmount)
	assert.False(t, task.Paid)
}

func TestDeriveForCalendar_SkipsTripsWithTasks(t *testing.T) {
	f := newDeriveFixture(t)
	f.assignDefaultHousekeeper(t)

	checkout := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	f.addSyncedTrip(t, "res-1@airbnb.com", checkout)

	first, err := f.derivator.DeriveForCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	// A second run finds nothing left to do.
	second, err := f.derivator.DeriveForCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	assert.True(t, second.OK)
	assert.Equal(t, 0, second.Count)

	tasks, err := f.taskRepo.ListByCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestDeriveForCalendar_NoDefaultHousekeeper(t *testing.T) {
	f := newDeriveFixture(t)

	checkout := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	f.addSyncedTrip(t, "res-1@airbnb.com", checkout)

	result, err := f.derivator.DeriveForCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "No default housekeeper", result.Message)
	assert.Equal(t, 0, result.Count)

	tasks, err := f.taskRepo.ListByCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeriveForCalendar_AssignedButNotDefault(t *testing.T) {
	f := newDeriveFixture(t)
	require.NoError(t, f.amenityRepo.AssignHousekeeper(context.Background(), f.amenity.ID, f.housekeeper.ID))

	f.addSyncedTrip(t, "res-1@airbnb.com", time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC))

	result, err := f.derivator.DeriveForCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "No default housekeeper", result.Message)
}

func TestDeriveForCalendar_UsesAdminConfiguredPay(t *testing.T) {
	f := newDeriveFixture(t)
	f.assignDefaultHousekeeper(t)

	f.admin.DefaultHousekeeperPay = 45
	require.NoError(t, f.adminRepo.Update(context.Background(), f.admin))

	trip := f.addSyncedTrip(t, "res-1@airbnb.com", time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC))

	result, err := f.derivator.DeriveForCalendar(context.Background(), f.calendar.ID)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)

	task, err := f.taskRepo.GetByTripID(context.Background(), trip.ID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, 45.0, task.PayAmount)
}

func TestDeriveForCalendar_NotFound(t *testing.T) {
	f := newDeriveFixture(t)
	_, err := f.derivator.DeriveForCalendar(context.Background(), "missing")
	assert.Error(t, err)
}
