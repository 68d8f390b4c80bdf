package slots

import (
	"context"
	"time"

	"roomsewa/internal/domain"
)

// SlotStore is the persistence contract of the reservation core. Every method
// is one atomic conditional round-trip against the store.
type SlotStore interface {
	Acquire(ctx context.Context, serviceID int64, slotIDs []int64, userID int64, ttl time.Duration) (time.Time, error)
	Commit(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error
	Release(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error
	ReleaseExpired(ctx context.Context) (int64, error)
	GetSlots(ctx context.Context, serviceID int64, slotIDs []int64) ([]domain.Slot, error)
}
