package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/domain"
)

type FixedCostRepository struct {
	db *gorm.DB
}

func NewFixedCostRepository(db *gorm.DB) *FixedCostRepository {
	return &FixedCostRepository{db: db}
}

func (r *FixedCostRepository) Create(ctx context.Context, item *domain.FixedCostItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *FixedCostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FixedCostItem, error) {
	var item domain.FixedCostItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *FixedCostRepository) Update(ctx context.Context, item *domain.FixedCostItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *FixedCostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.FixedCostItem{}, "id = ?", id).Error
}

func (r *FixedCostRepository) List(ctx context.Context) ([]domain.FixedCostItem, error) {
	var items []domain.FixedCostItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}
