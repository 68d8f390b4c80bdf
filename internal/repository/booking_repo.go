package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roomsewa/internal/domain"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// HasActiveBookingForDate reports whether the room already carries a
// non-cancelled, non-failed booking on the given date. The partial unique
// index idx_no_double_booking is the backstop for the race between this
// check and the insert.
func (r *BookingRepository) HasActiveBookingForDate(ctx context.Context, roomID int64, date time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("room_id = ? AND viewing_date = ?", roomID, date).
		Where("status NOT IN ?", []string{string(domain.BookingCancelled)}).
		Where("payment_status NOT IN ?", []string{string(domain.PaymentFailed)}).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Preload("Room").Preload("User").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Preload("Room").Preload("User").
		Where("booking_reference = ?", reference).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

type BookingFilters struct {
	Status    string
	ServiceID int64
	UserID    int64
	Page      int
	PerPage   int
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilters) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ServiceID > 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
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

	var bookings []domain.Booking
	err := q.Preload("Room").Preload("User").
		Order("created_at DESC").
		Limit(f.PerPage).
		Offset((f.Page - 1) * f.PerPage).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateOutcome moves a booking to its payment/booking outcome in one write.
func (r *BookingRepository) UpdateOutcome(ctx context.Context, bookingID int64, status domain.BookingStatus, payment domain.PaymentStatus, paymentID string) error {
	updates := map[string]any{
		"status":         status,
		"payment_status": payment,
		"updated_at":     time.Now().UTC(),
	}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Updates(updates).Error
}

func (r *BookingRepository) CancelWithReason(ctx context.Context, bookingID int64, reason string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"status":              domain.BookingCancelled,
			"payment_status":      domain.PaymentCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        &now,
		}).Error
}

type BookingStats struct {
	TotalBookings       int64   `json:"total_bookings"`
	TotalRevenue        float64 `json:"total_revenue"`
	ConfirmedBookings   int64   `json:"confirmed_bookings"`
	CancelledBookings   int64   `json:"cancelled_bookings"`
	AverageBookingValue float64 `json:"average_booking_value"`
}

func (r *BookingRepository) Stats(ctx context.Context, from, to time.Time) (*BookingStats, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("created_at BETWEEN ? AND ?", from, to)
	}

	var out BookingStats
	err := q.Select(`
COUNT(*) AS total_bookings,
COALESCE(SUM(total_price), 0) AS total_revenue,
COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS confirmed_bookings,
COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_bookings,
COALESCE(AVG(total_price), 0) AS average_booking_value`,
		domain.BookingConfirmed, domain.BookingCancelled).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (r *BookingRepository) StatusBreakdown(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("created_at BETWEEN ? AND ?", from, to)
	}

	var rows []StatusCount
	err := q.Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *BookingRepository) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = 10
	}
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).Preload("User").Preload("Room").
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// CurrentOccupancy counts confirmed, paid bookings whose date has arrived.
func (r *BookingRepository) CurrentOccupancy(ctx context.Context, now time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("payment_status = ? AND status = ? AND viewing_date <= ?",
			domain.PaymentCompleted, domain.BookingConfirmed, now).
		Count(&cnt).Error
	return cnt, err
}
