package repository

import (
	"context"

	"gorm.io/gorm"

	"roomsewa/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Delete(&domain.Review{})
	return res.RowsAffected, res.Error
}

func (r *ReviewRepository) GetRoomID(ctx context.Context, reviewID int64) (int64, error) {
	var review domain.Review
	if err := r.db.WithContext(ctx).Select("room_id").First(&review, reviewID).Error; err != nil {
		return 0, err
	}
	return review.RoomID, nil
}

func (r *ReviewRepository) ListByRoom(ctx context.Context, roomID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// RoomScore aggregates the room's rating after a review change.
func (r *ReviewRepository) RoomScore(ctx context.Context, roomID int64) (average float64, count int64, err error) {
	type row struct {
		Average float64
		Count   int64
	}
	var out row
	err = r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("room_id = ?", roomID).
		Scan(&out).Error
	return out.Average, out.Count, err
}
