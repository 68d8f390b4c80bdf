package admin

import (
	"context"
	"time"

	"roomsewa/internal/domain"
	"roomsewa/internal/repository"
)

type UserStore interface {
	List(ctx context.Context, f repository.UserFilters) ([]domain.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

type RoomStore interface {
	List(ctx context.Context, f repository.RoomFilters) ([]domain.Room, int64, error)
	Count(ctx context.Context) (int64, error)
}

type BookingStats interface {
	Stats(ctx context.Context, from, to time.Time) (*repository.BookingStats, error)
	StatusBreakdown(ctx context.Context, from, to time.Time) ([]repository.StatusCount, error)
	Recent(ctx context.Context, limit int) ([]domain.Booking, error)
	CurrentOccupancy(ctx context.Context, now time.Time) (int64, error)
}
