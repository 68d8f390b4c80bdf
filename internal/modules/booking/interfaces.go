package booking

import (
	"context"
	"time"

	"roomsewa/internal/domain"
	"roomsewa/internal/repository"
)

// BookingStore defines the persistence operations the workflow needs.
type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error)
	HasActiveBookingForDate(ctx context.Context, roomID int64, date time.Time) (bool, error)
	UpdateOutcome(ctx context.Context, bookingID int64, status domain.BookingStatus, payment domain.PaymentStatus, paymentID string) error
	CancelWithReason(ctx context.Context, bookingID int64, reason string) error
}

type RoomStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	RecordBooking(ctx context.Context, roomID int64, revenue float64) error
}

// SlotLocker is the reservation core as seen by the booking workflow. The
// workflow never touches slot rows directly.
type SlotLocker interface {
	Acquire(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) (time.Time, error)
	Commit(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error
	Release(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error
}

type SlotPricer interface {
	GetSlots(ctx context.Context, serviceID int64, slotIDs []int64) ([]domain.Slot, error)
}

type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, userID, bookingID, roomID int64) error
	NotifyBookingConfirmed(ctx context.Context, userID, bookingID, roomID int64) error
	NotifyBookingCancelled(ctx context.Context, userID, bookingID, roomID int64, reason string) error
	NotifyPaymentFailed(ctx context.Context, userID, bookingID int64) error
}

type HistoryRecorder interface {
	Record(ctx context.Context, h *domain.History) error
}
