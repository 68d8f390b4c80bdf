package booking

import (
	"errors"

	"roomsewa/internal/modules/slots"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrForbidden         = errors.New("forbidden")
	ErrOwnRoom           = errors.New("landlords cannot book their own rooms")
	ErrRoomNotApproved   = errors.New("room is not approved for booking")
	ErrDateInPast        = errors.New("booking date is in the past")
	ErrDateTooFar        = errors.New("viewing date is outside the allowed window")
	ErrDateNotAvailable  = errors.New("room is not available on this date")
	ErrDateConflict      = errors.New("room already has an active booking for this date")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrNotCancellable    = errors.New("booking can no longer be cancelled")
	ErrUnsupportedMethod = errors.New("unsupported payment method")

	// Reservation-core outcomes surfaced through the workflow.
	ErrSlotUnavailable = slots.ErrSlotUnavailable
	ErrLockLost        = slots.ErrLockLost
)
