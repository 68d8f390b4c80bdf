package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roomsewa/internal/domain"
	"roomsewa/internal/repository"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) List(ctx context.Context, f repository.UserFilters) ([]domain.User, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) List(ctx context.Context, f repository.RoomFilters) ([]domain.Room, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Room), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoomStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingStats struct {
	mock.Mock
}

func (m *MockBookingStats) Stats(ctx context.Context, from, to time.Time) (*repository.BookingStats, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(*repository.BookingStats), args.Error(1)
}

func (m *MockBookingStats) StatusBreakdown(ctx context.Context, from, to time.Time) ([]repository.StatusCount, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockBookingStats) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStats) CurrentOccupancy(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func newStatsFixture() (*MockUserStore, *MockRoomStore, *MockBookingStats, *Service) {
	users := new(MockUserStore)
	rooms := new(MockRoomStore)
	bookings := new(MockBookingStats)

	users.On("Count", mock.Anything).Return(int64(42), nil)
	rooms.On("Count", mock.Anything).Return(int64(7), nil)
	bookings.On("Stats", mock.Anything, mock.Anything, mock.Anything).
		Return(&repository.BookingStats{TotalBookings: 12, TotalRevenue: 90000}, nil)
	bookings.On("StatusBreakdown", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.StatusCount{{Status: "Confirmed", Count: 9}}, nil)
	bookings.On("Recent", mock.Anything, 10).Return([]domain.Booking{}, nil)
	bookings.On("CurrentOccupancy", mock.Anything, mock.Anything).Return(int64(3), nil)

	return users, rooms, bookings, NewService(users, rooms, bookings, 5*time.Minute)
}

func TestDashboardBuildsSnapshot(t *testing.T) {
	_, _, _, svc := newStatsFixture()

	stats, err := svc.Dashboard(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalUsers)
	assert.Equal(t, int64(7), stats.TotalRooms)
	assert.Equal(t, int64(12), stats.Bookings.TotalBookings)
	assert.Equal(t, int64(3), stats.CurrentOccupancy)
}

func TestDashboardServesFromCache(t *testing.T) {
	users, _, bookings, svc := newStatsFixture()
	ctx := context.Background()

	first, err := svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	second, err := svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	users.AssertNumberOfCalls(t, "Count", 1)
	bookings.AssertNumberOfCalls(t, "Stats", 1)
}

func TestDashboardInvalidateForcesRebuild(t *testing.T) {
	users, _, _, svc := newStatsFixture()
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	svc.Invalidate()

	_, err = svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "Count", 2)
}

func TestDashboardRangedQueryBypassesCache(t *testing.T) {
	users, _, _, svc := newStatsFixture()
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	_, err = svc.Dashboard(ctx, from, to)
	require.NoError(t, err)

	// The ranged read hits the stores and must not poison the cache.
	users.AssertNumberOfCalls(t, "Count", 2)
	_, err = svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "Count", 2)
}

func TestDashboardCacheExpires(t *testing.T) {
	users := new(MockUserStore)
	rooms := new(MockRoomStore)
	bookings := new(MockBookingStats)
	users.On("Count", mock.Anything).Return(int64(1), nil)
	rooms.On("Count", mock.Anything).Return(int64(1), nil)
	bookings.On("Stats", mock.Anything, mock.Anything, mock.Anything).
		Return(&repository.BookingStats{}, nil)
	bookings.On("StatusBreakdown", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.StatusCount{}, nil)
	bookings.On("Recent", mock.Anything, 10).Return([]domain.Booking{}, nil)
	bookings.On("CurrentOccupancy", mock.Anything, mock.Anything).Return(int64(0), nil)

	svc := NewService(users, rooms, bookings, time.Nanosecond)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.Dashboard(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "Count", 2)
}
