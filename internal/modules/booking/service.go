package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"roomsewa/internal/domain"
	"roomsewa/internal/modules/payment"
	"roomsewa/internal/repository"
)

const (
	dateLayout = "2006-01-02"

	// Viewing appointments can only be scheduled a few days out.
	viewingWindow = 3 * 24 * time.Hour
)

type Service struct {
	bookings  BookingStore
	rooms     RoomStore
	slots     SlotLocker
	slotInfo  SlotPricer
	notifs    NotificationSender
	history   HistoryRecorder
	verifiers map[domain.PaymentMethod]payment.Verifier
}

func NewService(
	bookings BookingStore,
	rooms RoomStore,
	slots SlotLocker,
	slotInfo SlotPricer,
	notifs NotificationSender,
	history HistoryRecorder,
	verifiers map[domain.PaymentMethod]payment.Verifier,
) *Service {
	return &Service{
		bookings:  bookings,
		rooms:     rooms,
		slots:     slots,
		slotInfo:  slotInfo,
		notifs:    notifs,
		history:   history,
		verifiers: verifiers,
	}
}

// LockSlots reserves viewing slots for the user ahead of checkout. The
// returned expiry is the deadline by which payment must complete.
func (s *Service) LockSlots(ctx context.Context, userID int64, req LockSlotsRequest) (*LockSlotsResponse, error) {
	expiresAt, err := s.slots.Acquire(ctx, req.ServiceID, req.SlotIDs, userID)
	if err != nil {
		return nil, err
	}
	return &LockSlotsResponse{
		ServiceID: req.ServiceID,
		SlotIDs:   req.SlotIDs,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*CreateBookingResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.ViewingDate, time.UTC)
	if err != nil {
		return nil, ErrValidation
	}

	bookingType := domain.BookingRental
	if req.BookingType != "" {
		bookingType = domain.BookingType(req.BookingType)
		if bookingType != domain.BookingViewing && bookingType != domain.BookingRental {
			return nil, ErrValidation
		}
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Status != domain.RoomApproved {
		return nil, ErrRoomNotApproved
	}
	if room.LandlordID == userID {
		return nil, ErrOwnRoom
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, ErrDateInPast
	}
	if bookingType == domain.BookingViewing && date.After(today.Add(viewingWindow)) {
		return nil, ErrDateTooFar
	}
	if date.Before(room.AvailableFrom) {
		return nil, ErrDateNotAvailable
	}
	if room.AvailableUntil != nil && date.After(*room.AvailableUntil) {
		return nil, ErrDateNotAvailable
	}

	taken, err := s.bookings.HasActiveBookingForDate(ctx, req.RoomID, date)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDateConflict
	}

	total := room.Price
	var lockExpiry *time.Time
	if req.ServiceID != nil && len(req.SlotIDs) > 0 {
		// Re-acquiring a lock the user already holds is a no-op that
		// returns the existing expiry, so retried checkouts stay safe.
		expiresAt, err := s.slots.Acquire(ctx, *req.ServiceID, req.SlotIDs, userID)
		if err != nil {
			return nil, err
		}
		lockExpiry = &expiresAt

		held, err := s.slotInfo.GetSlots(ctx, *req.ServiceID, req.SlotIDs)
		if err != nil {
			return nil, err
		}
		total = 0
		for _, slot := range held {
			total += slot.Price
		}
	}

	b := &domain.Booking{
		UserID:           userID,
		RoomID:           req.RoomID,
		ViewingDate:      date,
		TotalPrice:       total,
		ServiceID:        req.ServiceID,
		SlotIDs:          joinIDs(req.SlotIDs),
		PaymentStatus:    domain.PaymentPending,
		PaymentMethod:    domain.PaymentMethod(req.Method),
		BookingReference: newBookingReference(),
		BookingType:      bookingType,
		Status:           domain.BookingPending,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if req.ServiceID != nil && len(req.SlotIDs) > 0 {
			_ = s.slots.Release(ctx, *req.ServiceID, req.SlotIDs, userID)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_no_double_booking" {
			return nil, ErrDateConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCreated(ctx, room.LandlordID, b.ID, room.ID)
	}

	return &CreateBookingResponse{
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		TransactionRef:   newTransactionRef(),
		TotalPrice:       b.TotalPrice,
		Status:           string(b.Status),
		LockExpiresAt:    lockExpiry,
	}, nil
}

// VerifyPayment checks the gateway's verdict and resolves the booking. The
// slot commit happens strictly after verification: a lock lost in the
// meantime fails the booking even when the payment itself went through.
func (s *Service) VerifyPayment(ctx context.Context, userID int64, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	b, err := s.bookings.GetByReference(ctx, req.BookingReference)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}

	// Re-verification of a settled booking is a no-op.
	if b.PaymentStatus == domain.PaymentCompleted {
		return s.outcome(b.ID, b.BookingReference, b.Status, b.PaymentStatus, b.PaymentID), nil
	}

	verifier, ok := s.verifiers[b.PaymentMethod]
	if !ok {
		return nil, ErrUnsupportedMethod
	}

	res, err := verifier.Verify(ctx, req.TransactionRef, b.TotalPrice)
	if err != nil {
		// Gateway unreachable: leave the booking pending so the client
		// can retry before the lock expires.
		return nil, err
	}

	slotIDs := parseIDs(b.SlotIDs)
	hasSlots := b.ServiceID != nil && len(slotIDs) > 0

	if !res.Verified {
		if hasSlots {
			_ = s.slots.Release(ctx, *b.ServiceID, slotIDs, userID)
		}
		if err := s.bookings.UpdateOutcome(ctx, b.ID, domain.BookingCancelled, domain.PaymentFailed, res.TransactionID); err != nil {
			return nil, err
		}
		if s.notifs != nil {
			_ = s.notifs.NotifyPaymentFailed(ctx, b.UserID, b.ID)
		}
		return s.outcome(b.ID, b.BookingReference, domain.BookingCancelled, domain.PaymentFailed, res.TransactionID), nil
	}

	if hasSlots {
		if err := s.slots.Commit(ctx, *b.ServiceID, slotIDs, userID); err != nil {
			if errors.Is(err, ErrLockLost) {
				// Money was captured but the hold expired. The booking is
				// cancelled while the payment stays Completed; that record
				// is what the refund flow queries.
				_ = s.bookings.UpdateOutcome(ctx, b.ID, domain.BookingCancelled, domain.PaymentCompleted, res.TransactionID)
				if s.notifs != nil {
					_ = s.notifs.NotifyBookingCancelled(ctx, b.UserID, b.ID, b.RoomID,
						"Your slot reservation expired before checkout completed; the payment will be refunded")
				}
				return nil, ErrLockLost
			}
			return nil, err
		}
	}

	if err := s.bookings.UpdateOutcome(ctx, b.ID, domain.BookingConfirmed, domain.PaymentCompleted, res.TransactionID); err != nil {
		return nil, err
	}

	_ = s.rooms.RecordBooking(ctx, b.RoomID, b.TotalPrice)
	if s.history != nil {
		_ = s.history.Record(ctx, &domain.History{
			UserID:    b.UserID,
			RoomID:    b.RoomID,
			BookingID: &b.ID,
			Action:    domain.ActionBooked,
		})
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingConfirmed(ctx, b.UserID, b.ID, b.RoomID)
	}

	return s.outcome(b.ID, b.BookingReference, domain.BookingConfirmed, domain.PaymentCompleted, res.TransactionID), nil
}

func (s *Service) CancelBooking(ctx context.Context, userID int64, role string, bookingID int64, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID && role != "admin" {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	if b.Status == domain.BookingCheckedIn || b.Status == domain.BookingCheckedOut {
		return nil, ErrNotCancellable
	}

	// A pending slot booking still holds its lock; give the slots back
	// instead of waiting for the sweeper.
	if slotIDs := parseIDs(b.SlotIDs); b.ServiceID != nil && len(slotIDs) > 0 && b.Status == domain.BookingPending {
		_ = s.slots.Release(ctx, *b.ServiceID, slotIDs, b.UserID)
	}

	if err := s.bookings.CancelWithReason(ctx, bookingID, reason); err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCancelled(ctx, b.UserID, b.ID, b.RoomID, reason)
	}

	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, userID int64, role string, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID && role != "admin" {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, f)
}

func (s *Service) outcome(id int64, ref string, status domain.BookingStatus, pay domain.PaymentStatus, paymentID string) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		BookingID:        id,
		BookingReference: ref,
		Status:           string(status),
		PaymentStatus:    string(pay),
		PaymentID:        paymentID,
	}
}

func newBookingReference() string {
	return fmt.Sprintf("RS-%d%04d", time.Now().UnixMilli(), 1000+rand.Intn(9000))
}

func newTransactionRef() string {
	return "ROOMSEWA-" + uuid.NewString()
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func parseIDs(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
