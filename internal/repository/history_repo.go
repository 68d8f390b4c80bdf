package repository

import (
	"context"

	"gorm.io/gorm"

	"roomsewa/internal/domain"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Record(ctx context.Context, h *domain.History) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.History, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []domain.History
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
