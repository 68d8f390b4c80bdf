package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"roomsewa/internal/domain"
)

const lockTTL = 5 * time.Minute

// fakeClock lets tests move time past lock expiries without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newSlotTestRepo(t *testing.T) (*SlotRepository, *gorm.DB, *fakeClock) {
	t.Helper()

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        "file::memory:",
		}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	// One shared in-memory database; the pool must not open a second
	// connection that would see an empty schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Service{}, &domain.Slot{}))

	clock := newFakeClock()
	repo := NewSlotRepository(db).WithClock(clock.Now)
	return repo, db, clock
}

func seedService(t *testing.T, db *gorm.DB, slotCount int) (int64, []int64) {
	t.Helper()

	svc := domain.Service{ProviderID: 1, Name: "Viewing appointments", BasePrice: 200}
	require.NoError(t, db.Create(&svc).Error)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ids := make([]int64, 0, slotCount)
	for i := 0; i < slotCount; i++ {
		slot := domain.Slot{
			ServiceID: svc.ID,
			StartTime: start.Add(time.Duration(i) * time.Hour),
			EndTime:   start.Add(time.Duration(i+1) * time.Hour),
			Price:     200,
			Status:    domain.SlotAvailable,
		}
		require.NoError(t, db.Create(&slot).Error)
		ids = append(ids, slot.ID)
	}
	return svc.ID, ids
}

func loadSlot(t *testing.T, db *gorm.DB, id int64) domain.Slot {
	t.Helper()
	var s domain.Slot
	require.NoError(t, db.First(&s, id).Error)
	return s
}

func TestAcquireLocksAllOrNothing(t *testing.T) {
	repo, db, clock := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 3)
	ctx := context.Background()

	expiry, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(lockTTL), expiry)

	for _, id := range ids {
		s := loadSlot(t, db, id)
		assert.Equal(t, domain.SlotLocked, s.Status)
		require.NotNil(t, s.HolderID)
		assert.Equal(t, int64(10), *s.HolderID)
		require.NotNil(t, s.LockExpiresAt)
	}

	var svc domain.Service
	require.NoError(t, db.First(&svc, svcID).Error)
	assert.True(t, svc.HasLockedSlots)
}

func TestAcquireMutualExclusion(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 2)
	ctx := context.Background()

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)

	_, err = repo.Acquire(ctx, svcID, ids, 20, lockTTL)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// The loser's attempt must not have disturbed the winner's lock.
	s := loadSlot(t, db, ids[0])
	require.NotNil(t, s.HolderID)
	assert.Equal(t, int64(10), *s.HolderID)
}

func TestAcquireConcurrentSingleWinner(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 2)
	ctx := context.Background()

	const contenders = 8
	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Acquire(ctx, svcID, ids, int64(100+i), lockTTL)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestAcquireBatchAtomicity(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 3)
	ctx := context.Background()

	// The middle slot is already booked; the whole batch must fail and
	// the other two slots must remain untouched.
	require.NoError(t, db.Model(&domain.Slot{}).
		Where("id = ?", ids[1]).
		Update("status", domain.SlotBooked).Error)

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Equal(t, domain.SlotAvailable, loadSlot(t, db, ids[0]).Status)
	assert.Equal(t, domain.SlotBooked, loadSlot(t, db, ids[1]).Status)
	assert.Equal(t, domain.SlotAvailable, loadSlot(t, db, ids[2]).Status)
}

func TestAcquireUnknownService(t *testing.T) {
	repo, _, _ := newSlotTestRepo(t)

	_, err := repo.Acquire(context.Background(), 999, []int64{1}, 10, lockTTL)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestAcquireIdempotentForHolder(t *testing.T) {
	repo, db, clock := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 2)
	ctx := context.Background()

	first, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)

	// Re-entering checkout must not extend the lock.
	clock.Advance(time.Minute)
	again, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestAcquireTakesOverExpiredLockWithoutSweep(t *testing.T) {
	repo, db, clock := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 1)
	ctx := context.Background()

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)

	// Past expiry, no sweep has run: the row still says locked but must
	// count as available to the next caller.
	clock.Advance(lockTTL + time.Second)
	_, err = repo.Acquire(ctx, svcID, ids, 20, lockTTL)
	require.NoError(t, err)

	s := loadSlot(t, db, ids[0])
	assert.Equal(t, domain.SlotLocked, s.Status)
	require.NotNil(t, s.HolderID)
	assert.Equal(t, int64(20), *s.HolderID)
}

func TestCommitBooksHeldSlots(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 2)
	ctx := context.Background()

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)
	require.NoError(t, repo.Commit(ctx, svcID, ids, 10))

	for _, id := range ids {
		s := loadSlot(t, db, id)
		assert.Equal(t, domain.SlotBooked, s.Status)
		assert.Nil(t, s.HolderID)
		assert.Nil(t, s.LockExpiresAt)
	}
}

func TestCommitAfterExpiryLosesLock(t *testing.T) {
	repo, db, clock := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 2)
	ctx := context.Background()

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)

	clock.Advance(lockTTL + time.Second)
	err = repo.Commit(ctx, svcID, ids, 10)
	assert.ErrorIs(t, err, ErrLockLost)

	// Nothing was booked.
	for _, id := range ids {
		assert.NotEqual(t, domain.SlotBooked, loadSlot(t, db, id).Status)
	}
}

func TestCommitByNonHolderFails(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 1)
	ctx := context.Background()

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Commit(ctx, svcID, ids, 20), ErrLockLost)

	s := loadSlot(t, db, ids[0])
	assert.Equal(t, domain.SlotLocked, s.Status)
	require.NotNil(t, s.HolderID)
	assert.Equal(t, int64(10), *s.HolderID)
}

func TestReleaseIsIdempotent(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 2)
	ctx := context.Background()

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)

	require.NoError(t, repo.Release(ctx, svcID, ids, 10))
	for _, id := range ids {
		s := loadSlot(t, db, id)
		assert.Equal(t, domain.SlotAvailable, s.Status)
		assert.Nil(t, s.HolderID)
	}

	// Releasing again, or releasing something never held, is a no-op.
	require.NoError(t, repo.Release(ctx, svcID, ids, 10))
	require.NoError(t, repo.Release(ctx, svcID, ids, 20))
}

func TestReleaseExpiredSweepsOnlyExpiredLocks(t *testing.T) {
	repo, db, clock := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 5)
	ctx := context.Background()

	// User 10 locks three slots now; user 20 locks two slots four minutes
	// later. After six minutes only the first batch is expired.
	_, err := repo.Acquire(ctx, svcID, ids[:3], 10, lockTTL)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	_, err = repo.Acquire(ctx, svcID, ids[3:], 20, lockTTL)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	released, err := repo.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), released)

	for _, id := range ids[:3] {
		assert.Equal(t, domain.SlotAvailable, loadSlot(t, db, id).Status)
	}
	for _, id := range ids[3:] {
		assert.Equal(t, domain.SlotLocked, loadSlot(t, db, id).Status)
	}

	// Unexpired locks remain, so the flag must stay set.
	var svc domain.Service
	require.NoError(t, db.First(&svc, svcID).Error)
	assert.True(t, svc.HasLockedSlots)

	// Once everything expired, a sweep clears the flag too.
	clock.Advance(lockTTL)
	released, err = repo.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), released)

	require.NoError(t, db.First(&svc, svcID).Error)
	assert.False(t, svc.HasLockedSlots)
}

func TestReleaseExpiredNothingToDo(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	seedService(t, db, 2)

	released, err := repo.ReleaseExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, released)
}

// Two users race for the same slot across a full checkout: A locks, B is
// rejected, A's lock expires, B takes over, A's late commit fails, B's
// commit books the slot.
func TestCheckoutTimelineTwoUsers(t *testing.T) {
	repo, db, clock := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 1)
	ctx := context.Background()

	_, err := repo.Acquire(ctx, svcID, ids, 10, lockTTL)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = repo.Acquire(ctx, svcID, ids, 20, lockTTL)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	clock.Advance(5 * time.Minute) // A's lock expired at +5m
	_, err = repo.Acquire(ctx, svcID, ids, 20, lockTTL)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.ErrorIs(t, repo.Commit(ctx, svcID, ids, 10), ErrLockLost)
	require.NoError(t, repo.Commit(ctx, svcID, ids, 20))

	s := loadSlot(t, db, ids[0])
	assert.Equal(t, domain.SlotBooked, s.Status)
	assert.Nil(t, s.HolderID)
	assert.Nil(t, s.LockExpiresAt)
}

func TestGetSlotsOrderedByStart(t *testing.T) {
	repo, db, _ := newSlotTestRepo(t)
	svcID, ids := seedService(t, db, 3)

	slots, err := repo.GetSlots(context.Background(), svcID, ids)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].StartTime.Before(slots[i].StartTime))
	}
}
