package notification

import (
	"context"
	"fmt"

	"roomsewa/internal/domain"
)

type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type Service struct {
	store NotificationStore
	hub   *Hub
}

func NewService(store NotificationStore, hub *Hub) *Service {
	return &Service{store: store, hub: hub}
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	list, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.store.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.store.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyBookingCreated(ctx context.Context, userID, bookingID, roomID int64) error {
	return s.deliver(ctx, &domain.Notification{
		UserID:    userID,
		Type:      domain.NotifBooking,
		Priority:  domain.PriorityNormal,
		Title:     "New booking request",
		Message:   fmt.Sprintf("Your room received a new booking request (#%d)", bookingID),
		BookingID: &bookingID,
		RoomID:    &roomID,
	})
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, userID, bookingID, roomID int64) error {
	return s.deliver(ctx, &domain.Notification{
		UserID:    userID,
		Type:      domain.NotifBooking,
		Priority:  domain.PriorityHigh,
		Title:     "Booking confirmed",
		Message:   fmt.Sprintf("Your booking #%d is confirmed", bookingID),
		BookingID: &bookingID,
		RoomID:    &roomID,
	})
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, userID, bookingID, roomID int64, reason string) error {
	msg := fmt.Sprintf("Your booking #%d was cancelled", bookingID)
	if reason != "" {
		msg = fmt.Sprintf("Your booking #%d was cancelled: %s", bookingID, reason)
	}
	return s.deliver(ctx, &domain.Notification{
		UserID:    userID,
		Type:      domain.NotifBooking,
		Priority:  domain.PriorityHigh,
		Title:     "Booking cancelled",
		Message:   msg,
		BookingID: &bookingID,
		RoomID:    &roomID,
	})
}

func (s *Service) NotifyPaymentFailed(ctx context.Context, userID, bookingID int64) error {
	return s.deliver(ctx, &domain.Notification{
		UserID:    userID,
		Type:      domain.NotifPayment,
		Priority:  domain.PriorityHigh,
		Title:     "Payment failed",
		Message:   fmt.Sprintf("Payment for booking #%d could not be verified", bookingID),
		BookingID: &bookingID,
	})
}

func (s *Service) deliver(ctx context.Context, n *domain.Notification) error {
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.Push(n.UserID, n)
	}
	return nil
}
