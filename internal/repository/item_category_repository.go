package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/domain"
)

type ItemCategoryRepository struct {
	db *gorm.DB
}

func NewItemCategoryRepository(db *gorm.DB) *ItemCategoryRepository {
	return &ItemCategoryRepository{db: db}
}

func (r *ItemCategoryRepository) Create(ctx context.Context, category *domain.ItemCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *ItemCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItemCategory, error) {
	var category domain.ItemCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ItemCategoryRepository) Update(ctx context.Context, category *domain.ItemCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *ItemCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ItemCategory{}, "id = ?", id).Error
}

func (r *ItemCategoryRepository) List(ctx context.Context) ([]domain.ItemCategory, error) {
	var categories []domain.ItemCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// NameExists reports whether another category already uses the name
func (r *ItemCategoryRepository) NameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.ItemCategory{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
