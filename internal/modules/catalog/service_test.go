package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"roomsewa/internal/domain"
	"roomsewa/internal/pkg/validator"
	"roomsewa/internal/repository"
)

func newCatalogService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: "file::memory:"}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Room{}, &domain.Service{}, &domain.Slot{}, &domain.History{},
	))

	return NewService(
		repository.NewRoomRepository(db),
		repository.NewServiceRepository(db),
		repository.NewHistoryRepository(db),
	), db
}

func TestCreateRoomStartsPending(t *testing.T) {
	svc, _ := newCatalogService(t)

	room, err := svc.CreateRoom(context.Background(), 2, CreateRoomRequest{
		Title:         "Bright single room",
		Description:   "Close to Patan Durbar Square",
		Price:         9500,
		City:          "Lalitpur",
		Address:       "Ward 4",
		RoomType:      "single",
		Amenities:     []string{"wifi", "water"},
		AvailableFrom: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoomPending, room.Status)
	assert.Equal(t, "wifi,water", room.Amenities)
}

func TestListRoomsDefaultsToApproved(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	approved := domain.Room{LandlordID: 2, Title: "ok", Description: "d", Price: 1,
		City: "Kathmandu", Address: "a", RoomType: domain.RoomSingle,
		AvailableFrom: time.Now(), Status: domain.RoomApproved}
	pending := domain.Room{LandlordID: 2, Title: "waiting", Description: "d", Price: 1,
		City: "Kathmandu", Address: "a", RoomType: domain.RoomSingle,
		AvailableFrom: time.Now(), Status: domain.RoomPending}
	require.NoError(t, db.Create(&approved).Error)
	require.NoError(t, db.Create(&pending).Error)

	rooms, total, err := svc.ListRooms(ctx, repository.RoomFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rooms, 1)
	assert.Equal(t, "ok", rooms[0].Title)
}

func TestModerateRoomApprove(t *testing.T) {
	svc, db := newCatalogService(t)

	room := domain.Room{LandlordID: 2, Title: "waiting", Description: "d", Price: 1,
		City: "Kathmandu", Address: "a", RoomType: domain.RoomSingle,
		AvailableFrom: time.Now(), Status: domain.RoomPending}
	require.NoError(t, db.Create(&room).Error)

	out, err := svc.ModerateRoom(context.Background(), room.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomApproved, out.Status)

	_, err = svc.ModerateRoom(context.Background(), room.ID, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerateSlotsExpandsWindow(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, 2, CreateServiceRequest{Name: "Viewings", BasePrice: 200})
	require.NoError(t, err)

	// 2 days x (9:00-12:00 in 60-minute steps) = 6 slots.
	n, err := svc.GenerateSlots(ctx, 2, "landlord", created.ID, GenerateSlotsRequest{
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-02",
		OpenHour:    9,
		CloseHour:   12,
		SlotMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	var slots []domain.Slot
	require.NoError(t, db.Where("service_id = ?", created.ID).Order("start_time").Find(&slots).Error)
	require.Len(t, slots, 6)
	assert.Equal(t, domain.SlotAvailable, slots[0].Status)
	assert.Equal(t, 200.0, slots[0].Price) // falls back to base price
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), slots[0].StartTime.UTC())
	assert.Equal(t, time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC), slots[5].StartTime.UTC())
}

func TestGenerateSlotsRejectsBadWindow(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, 2, CreateServiceRequest{Name: "Viewings"})
	require.NoError(t, err)

	// A zero step would never advance the slot cursor.
	_, err = svc.GenerateSlots(ctx, 2, "landlord", created.ID, GenerateSlotsRequest{
		StartDate: "2026-09-01", EndDate: "2026-09-01",
		OpenHour: 9, CloseHour: 12, SlotMinutes: 0,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GenerateSlots(ctx, 2, "landlord", created.ID, GenerateSlotsRequest{
		StartDate: "2026-09-02", EndDate: "2026-09-01",
		OpenHour: 9, CloseHour: 12, SlotMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GenerateSlots(ctx, 2, "landlord", created.ID, GenerateSlotsRequest{
		StartDate: "2026-09-01", EndDate: "2026-09-01",
		OpenHour: 12, CloseHour: 9, SlotMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRoomReportsFieldFailures(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.CreateRoom(context.Background(), 2, CreateRoomRequest{
		Title:    "No description or city",
		RoomType: "single",
	})
	var fields validator.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "Description")
	assert.Contains(t, fields, "City")
}

func TestGenerateSlotsForeignServiceForbidden(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, 2, CreateServiceRequest{Name: "Viewings"})
	require.NoError(t, err)

	_, err = svc.GenerateSlots(ctx, 99, "tenant", created.ID, GenerateSlotsRequest{
		StartDate: "2026-09-01", EndDate: "2026-09-01",
		OpenHour: 9, CloseHour: 10, SlotMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetRoomRecordsViewHistory(t *testing.T) {
	svc, db := newCatalogService(t)

	room := domain.Room{LandlordID: 2, Title: "r", Description: "d", Price: 1,
		City: "Kathmandu", Address: "a", RoomType: domain.RoomSingle,
		AvailableFrom: time.Now(), Status: domain.RoomApproved}
	require.NoError(t, db.Create(&room).Error)

	_, err := svc.GetRoom(context.Background(), 10, room.ID)
	require.NoError(t, err)

	var hist []domain.History
	require.NoError(t, db.Find(&hist).Error)
	require.Len(t, hist, 1)
	assert.Equal(t, domain.ActionViewed, hist[0].Action)

	// The landlord viewing their own room leaves no trace.
	_, err = svc.GetRoom(context.Background(), 2, room.ID)
	require.NoError(t, err)
	require.NoError(t, db.Find(&hist).Error)
	assert.Len(t, hist, 1)
}
