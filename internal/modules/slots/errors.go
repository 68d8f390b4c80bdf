package slots

import (
	"errors"

	"roomsewa/internal/repository"
)

var (
	ErrValidation = errors.New("a non-empty set of slot ids is required")

	// SlotUnavailable and LockLost are expected steady-state outcomes, not
	// faults: callers branch on them instead of retrying automatically.
	ErrServiceNotFound = repository.ErrServiceNotFound
	ErrSlotUnavailable = repository.ErrSlotUnavailable
	ErrLockLost        = repository.ErrLockLost
)
