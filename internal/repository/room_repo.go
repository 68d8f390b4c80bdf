package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"roomsewa/internal/domain"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Preload("Landlord").First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

type RoomFilters struct {
	City     string
	RoomType string
	Status   string
	MinPrice float64
	MaxPrice float64
	Featured *bool
	Search   string
	Page     int
	PerPage  int
}

func (r *RoomRepository) List(ctx context.Context, f RoomFilters) ([]domain.Room, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Room{})
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}
	if f.RoomType != "" {
		q = q.Where("room_type = ?", f.RoomType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", like, like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.PerPage <= 0 || f.PerPage > 100 {
		f.PerPage = 10
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	var rooms []domain.Room
	err := q.Order("created_at DESC").
		Limit(f.PerPage).
		Offset((f.Page - 1) * f.PerPage).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, roomID int64, status domain.RoomStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", roomID).
		Update("status", status).Error
}

// RecordBooking bumps the denormalized booking counter and revenue.
func (r *RoomRepository) RecordBooking(ctx context.Context, roomID int64, revenue float64) error {
	return r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]any{
			"booking_count": gorm.Expr("booking_count + 1"),
			"total_revenue": gorm.Expr("total_revenue + ?", revenue),
		}).Error
}

func (r *RoomRepository) UpdateScore(ctx context.Context, roomID int64, average float64, count int64) error {
	return r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]any{
			"rating_average": average,
			"rating_count":   count,
		}).Error
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).Count(&n).Error
	return n, err
}
