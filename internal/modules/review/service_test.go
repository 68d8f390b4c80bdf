package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"roomsewa/internal/domain"
	"roomsewa/internal/repository"
)

func newReviewService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: "file::memory:"}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Room{}, &domain.Review{}))

	room := domain.Room{
		ID: 1, LandlordID: 2, Title: "Room", Description: "d", Price: 9000,
		City: "Kathmandu", Address: "a", RoomType: domain.RoomSingle,
		AvailableFrom: time.Now(), Status: domain.RoomApproved,
	}
	require.NoError(t, db.Create(&room).Error)

	return NewService(repository.NewReviewRepository(db), repository.NewRoomRepository(db)), db
}

func TestCreateReviewUpdatesRoomScore(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, 10, CreateReviewRequest{RoomID: 1, Rating: 4, Comment: "nice"})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, 11, CreateReviewRequest{RoomID: 1, Rating: 2})
	require.NoError(t, err)

	var room domain.Room
	require.NoError(t, db.First(&room, 1).Error)
	assert.InDelta(t, 3.0, room.RatingAverage, 0.001)
	assert.Equal(t, int64(2), room.RatingCount)
}

func TestCreateReviewUnknownRoom(t *testing.T) {
	svc, _ := newReviewService(t)

	_, err := svc.CreateReview(context.Background(), 10, CreateReviewRequest{RoomID: 99, Rating: 4})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreateReviewDuplicateRejected(t *testing.T) {
	svc, _ := newReviewService(t)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, 10, CreateReviewRequest{RoomID: 1, Rating: 4})
	require.NoError(t, err)

	// The unique index on (user_id, room_id) blocks the second write.
	_, err = svc.CreateReview(ctx, 10, CreateReviewRequest{RoomID: 1, Rating: 5})
	assert.Error(t, err)
}

func TestDeleteReviewRecomputesScore(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	r1, err := svc.CreateReview(ctx, 10, CreateReviewRequest{RoomID: 1, Rating: 5})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, 11, CreateReviewRequest{RoomID: 1, Rating: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(ctx, 10, r1.ID))

	var room domain.Room
	require.NoError(t, db.First(&room, 1).Error)
	assert.InDelta(t, 1.0, room.RatingAverage, 0.001)
	assert.Equal(t, int64(1), room.RatingCount)
}

func TestDeleteReviewOfOtherUser(t *testing.T) {
	svc, _ := newReviewService(t)
	ctx := context.Background()

	r1, err := svc.CreateReview(ctx, 10, CreateReviewRequest{RoomID: 1, Rating: 5})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteReview(ctx, 11, r1.ID), ErrNotFound)
}
