package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roomsewa/internal/domain"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrSlotUnavailable = errors.New("one or more requested slots are no longer available")
	ErrLockLost        = errors.New("slot lock expired or is no longer held")
)

// SlotRepository owns every state transition of service slots. All writes go
// through single conditional UPDATEs whose filter encodes the precondition;
// RowsAffected tells the caller whether it won. A read followed by a separate
// write is never used to decide a transition, so the repository stays correct
// across concurrent requests and multiple replicas sharing one database.
type SlotRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db, now: time.Now}
}

// WithClock overrides the time source. Tests use it to move time past lock
// expiries without sleeping.
func (r *SlotRepository) WithClock(now func() time.Time) *SlotRepository {
	r.now = now
	return r
}

// Acquire locks the requested slots for userID until now+ttl, all or nothing.
// A slot counts as takeable when it is available or when its lock has already
// expired, whether or not the sweeper has reclaimed it yet. If the same user
// already holds every requested slot unexpired, Acquire is a no-op returning
// the existing expiry (a client re-entering checkout).
func (r *SlotRepository) Acquire(ctx context.Context, serviceID int64, slotIDs []int64, userID int64, ttl time.Duration) (time.Time, error) {
	now := r.now()
	expiry := now.Add(ttl)

	var svc domain.Service
	if err := r.db.WithContext(ctx).Select("id").First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrServiceNotFound
		}
		return time.Time{}, err
	}

	held, err := r.heldExpiry(ctx, serviceID, slotIDs, userID, now)
	if err != nil {
		return time.Time{}, err
	}
	if !held.IsZero() {
		return held, nil
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Slot{}).
			Where("service_id = ? AND id IN ?", serviceID, slotIDs).
			Where("status = ? OR (status = ? AND lock_expires_at <= ?)",
				domain.SlotAvailable, domain.SlotLocked, now).
			Updates(map[string]any{
				"status":          domain.SlotLocked,
				"holder_id":       userID,
				"lock_expires_at": expiry,
			})
		if res.Error != nil {
			return res.Error
		}
		// Partial matches roll back: a batch with any conflicting slot
		// leaves every slot untouched.
		if res.RowsAffected != int64(len(slotIDs)) {
			return ErrSlotUnavailable
		}
		return tx.Model(&domain.Service{}).
			Where("id = ?", serviceID).
			Update("has_locked_slots", true).Error
	})
	if err != nil {
		return time.Time{}, err
	}
	return expiry, nil
}

// heldExpiry reports the earliest expiry if userID already holds every
// requested slot unexpired, zero time otherwise. This read is only an
// idempotence shortcut; the conditional UPDATE in Acquire remains the
// correctness guard.
func (r *SlotRepository) heldExpiry(ctx context.Context, serviceID int64, slotIDs []int64, userID int64, now time.Time) (time.Time, error) {
	var held []domain.Slot
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND id IN ?", serviceID, slotIDs).
		Where("status = ? AND holder_id = ? AND lock_expires_at > ?", domain.SlotLocked, userID, now).
		Find(&held).Error
	if err != nil {
		return time.Time{}, err
	}
	if len(held) != len(slotIDs) {
		return time.Time{}, nil
	}
	earliest := *held[0].LockExpiresAt
	for _, s := range held[1:] {
		if s.LockExpiresAt.Before(earliest) {
			earliest = *s.LockExpiresAt
		}
	}
	return earliest, nil
}

// Commit finalizes locked slots into booked ones. Only slots still locked by
// userID with an unexpired lock match; anything less rolls back and returns
// ErrLockLost. Payment success never implies booking success - the expiry is
// re-checked here against server time, not client-held elapsed time.
func (r *SlotRepository) Commit(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error {
	now := r.now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Slot{}).
			Where("service_id = ? AND id IN ?", serviceID, slotIDs).
			Where("status = ? AND holder_id = ? AND lock_expires_at > ?", domain.SlotLocked, userID, now).
			Updates(map[string]any{
				"status":          domain.SlotBooked,
				"holder_id":       nil,
				"lock_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(slotIDs)) {
			return ErrLockLost
		}
		return nil
	})
}

// Release returns slots held by userID to available. Releasing a lock that
// already expired, was swept, or was never taken matches zero rows and is a
// no-op; Release never fails for having nothing to release.
func (r *SlotRepository) Release(ctx context.Context, serviceID int64, slotIDs []int64, userID int64) error {
	return r.db.WithContext(ctx).Model(&domain.Slot{}).
		Where("service_id = ? AND id IN ?", serviceID, slotIDs).
		Where("status = ? AND holder_id = ?", domain.SlotLocked, userID).
		Updates(map[string]any{
			"status":          domain.SlotAvailable,
			"holder_id":       nil,
			"lock_expires_at": nil,
		}).Error
}

// ReleaseExpired reclaims every lock past its expiry across all services and
// returns how many slots were released. The filter itself provides the
// atomicity against concurrent Commit/Release calls, so overlapping sweeps
// are safe. Afterwards the denormalized has_locked_slots flag is cleared for
// services with nothing locked anymore.
func (r *SlotRepository) ReleaseExpired(ctx context.Context) (int64, error) {
	now := r.now()
	res := r.db.WithContext(ctx).Model(&domain.Slot{}).
		Where("status = ? AND lock_expires_at <= ?", domain.SlotLocked, now).
		Updates(map[string]any{
			"status":          domain.SlotAvailable,
			"holder_id":       nil,
			"lock_expires_at": nil,
		})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		err := r.db.WithContext(ctx).Exec(`
UPDATE services SET has_locked_slots = ?
WHERE has_locked_slots = ?
  AND NOT EXISTS (
    SELECT 1 FROM service_slots
    WHERE service_slots.service_id = services.id AND service_slots.status = ?
  )`, false, true, domain.SlotLocked).Error
		if err != nil {
			return res.RowsAffected, err
		}
	}
	return res.RowsAffected, nil
}

// GetSlots returns the given slots of a service, ordered by start time.
func (r *SlotRepository) GetSlots(ctx context.Context, serviceID int64, slotIDs []int64) ([]domain.Slot, error) {
	var slots []domain.Slot
	q := r.db.WithContext(ctx).Where("service_id = ?", serviceID)
	if len(slotIDs) > 0 {
		q = q.Where("id IN ?", slotIDs)
	}
	if err := q.Order("start_time").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}
