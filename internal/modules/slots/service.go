package slots

import (
	"context"
	"time"
)

// Manager is the slot lock manager: it hands out time-bounded locks on service
// slots during checkout, resolves them into bookings or back to available, and
// reclaims expired locks. The sweeper is cleanup only - Acquire re-validates
// expiry on every call, so the system stays correct even if it never ran.
type Manager struct {
	store SlotStore
	ttl   time.Duration
}

func NewManager(store SlotStore, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// TTL reports the lock lifetime policy.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Acquire locks the slots for userID, all or nothing, and returns the lock
// expiry. Callers surface ErrSlotUnavailable as a "pick different slots"
// prompt; an automatic retry loop on contested slots is deliberately not
// offered here.
func (m *Manager) Acquire(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) (time.Time, error) {
	ids := dedup(slotIDs)
	if len(ids) == 0 {
		return time.Time{}, ErrValidation
	}
	return m.store.Acquire(ctx, serviceID, ids, userID, m.ttl)
}

// Commit turns a held lock into booked slots. Must only be called after the
// caller verified payment completion; returns ErrLockLost when the lock
// expired or was taken over, which the caller must treat as booking failure
// regardless of the payment outcome.
func (m *Manager) Commit(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error {
	ids := dedup(slotIDs)
	if len(ids) == 0 {
		return ErrValidation
	}
	return m.store.Commit(ctx, serviceID, ids, userID)
}

// Release returns held slots to available. Safe to call on any failure or
// cancellation path, including when there is nothing left to release.
func (m *Manager) Release(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error {
	ids := dedup(slotIDs)
	if len(ids) == 0 {
		return nil
	}
	return m.store.Release(ctx, serviceID, ids, userID)
}

// Sweep releases every expired lock and reports how many slots were freed.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.store.ReleaseExpired(ctx)
}

func dedup(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
