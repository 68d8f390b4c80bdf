package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"roomsewa/internal/domain"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("start_time") }).
		First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&services).Error
	return services, err
}

func (r *ServiceRepository) List(ctx context.Context, page, perPage int) ([]domain.Service, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Service{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if perPage <= 0 || perPage > 100 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}

	var services []domain.Service
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&services).Error
	if err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// AddSlots appends new available slots to a service.
func (r *ServiceRepository) AddSlots(ctx context.Context, serviceID int64, slots []domain.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	for i := range slots {
		slots[i].ServiceID = serviceID
		slots[i].Status = domain.SlotAvailable
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}
