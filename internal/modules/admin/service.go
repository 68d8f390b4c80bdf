package admin

import (
	"context"
	"sync"
	"time"

	"roomsewa/internal/domain"
	"roomsewa/internal/repository"
)

type DashboardStats struct {
	TotalUsers       int64                    `json:"total_users"`
	TotalRooms       int64                    `json:"total_rooms"`
	Bookings         *repository.BookingStats `json:"bookings"`
	StatusBreakdown  []repository.StatusCount `json:"status_breakdown"`
	RecentBookings   []domain.Booking         `json:"recent_bookings"`
	CurrentOccupancy int64                    `json:"current_occupancy"`
	GeneratedAt      time.Time                `json:"generated_at"`
}

// statsCache keeps the last dashboard snapshot; the aggregate queries are too
// heavy to run on every poll. Writes that change the numbers call Invalidate.
type statsCache struct {
	mu        sync.Mutex
	data      *DashboardStats
	fetchedAt time.Time
	ttl       time.Duration
}

func (c *statsCache) get(now time.Time) *DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil || now.Sub(c.fetchedAt) > c.ttl {
		return nil
	}
	return c.data
}

func (c *statsCache) set(data *DashboardStats, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.fetchedAt = now
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

type Service struct {
	users    UserStore
	rooms    RoomStore
	bookings BookingStats
	cache    statsCache
}

func NewService(users UserStore, rooms RoomStore, bookings BookingStats, cacheTTL time.Duration) *Service {
	s := &Service{users: users, rooms: rooms, bookings: bookings}
	s.cache.ttl = cacheTTL
	return s
}

// Dashboard returns the cached snapshot when fresh, otherwise rebuilds it.
// The date range is ignored for cached reads; range queries bypass the cache.
func (s *Service) Dashboard(ctx context.Context, from, to time.Time) (*DashboardStats, error) {
	ranged := !from.IsZero() || !to.IsZero()
	now := time.Now().UTC()

	if !ranged {
		if cached := s.cache.get(now); cached != nil {
			return cached, nil
		}
	}

	stats, err := s.buildDashboard(ctx, from, to, now)
	if err != nil {
		return nil, err
	}
	if !ranged {
		s.cache.set(stats, now)
	}
	return stats, nil
}

// Invalidate drops the cached snapshot. Called after bookings or moderation
// decisions change the underlying numbers.
func (s *Service) Invalidate() {
	s.cache.invalidate()
}

func (s *Service) buildDashboard(ctx context.Context, from, to, now time.Time) (*DashboardStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalRooms, err := s.rooms.Count(ctx)
	if err != nil {
		return nil, err
	}
	bookingStats, err := s.bookings.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.bookings.StatusBreakdown(ctx, from, to)
	if err != nil {
		return nil, err
	}
	recent, err := s.bookings.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}
	occupancy, err := s.bookings.CurrentOccupancy(ctx, now)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalUsers:       totalUsers,
		TotalRooms:       totalRooms,
		Bookings:         bookingStats,
		StatusBreakdown:  breakdown,
		RecentBookings:   recent,
		CurrentOccupancy: occupancy,
		GeneratedAt:      now,
	}, nil
}

// BookingStats returns the booking aggregates alone, uncached; the dashboard
// endpoint is the cached composite view.
func (s *Service) BookingStats(ctx context.Context, from, to time.Time) (*repository.BookingStats, []repository.StatusCount, error) {
	stats, err := s.bookings.Stats(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	breakdown, err := s.bookings.StatusBreakdown(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	return stats, breakdown, nil
}

func (s *Service) ListUsers(ctx context.Context, f repository.UserFilters) ([]domain.User, int64, error) {
	return s.users.List(ctx, f)
}

func (s *Service) ListRooms(ctx context.Context, f repository.RoomFilters) ([]domain.Room, int64, error) {
	return s.rooms.List(ctx, f)
}
