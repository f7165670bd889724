package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/domain"
)

type CostItemRepository struct {
	db *gorm.DB
}

func NewCostItemRepository(db *gorm.DB) *CostItemRepository {
	return &CostItemRepository{db: db}
}

func (r *CostItemRepository) Create(ctx context.Context, item *domain.CostItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CostItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostItem, error) {
	var item domain.CostItem
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CostItemRepository) Update(ctx context.Context, item *domain.CostItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *CostItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.CostItem{}, "id = ?", id).Error
}

// List returns catalog items, optionally filtered by category or name
func (r *CostItemRepository) List(ctx context.Context, categoryID *uuid.UUID, search string) ([]domain.CostItem, error) {
	var items []domain.CostItem

	query := r.db.WithContext(ctx).Preload("Category")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchPattern)
	}

	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

// ListAll loads the full catalog without filters, for pricing lookups
func (r *CostItemRepository) ListAll(ctx context.Context) ([]domain.CostItem, error) {
	var items []domain.CostItem
	err := r.db.WithContext(ctx).Find(&items).Error
	return items, err
}

// CountByCategory returns how many items reference a category
func (r *CostItemRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CostItem{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return int(count), err
}
