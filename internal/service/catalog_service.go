package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/authz"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/mapper"
	"github.com/signgroup/workshop-api/internal/repository"
)

// CatalogService manages the cost item price list and its categories
type CatalogService struct {
	costItemRepo *repository.CostItemRepository
	categoryRepo *repository.ItemCategoryRepository
	logger       *zap.Logger
}

func NewCatalogService(
	costItemRepo *repository.CostItemRepository,
	categoryRepo *repository.ItemCategoryRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		costItemRepo: costItemRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Cost items

func (s *CatalogService) ListItems(ctx context.Context, actor *auth.UserContext, categoryID *uuid.UUID, search string) ([]domain.CostItemDTO, error) {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	items, err := s.costItemRepo.List(ctx, categoryID, search)
	if err != nil {
		return nil, mapper.FormatError("cost items", "list", err)
	}

	dtos := make([]domain.CostItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, mapper.ToCostItemDTO(&items[i]))
	}
	return dtos, nil
}

func (s *CatalogService) GetItem(ctx context.Context, actor *auth.UserContext, id uuid.UUID) (*domain.CostItemDTO, error) {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	item, err := s.costItemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("cost item", "load", err)
	}
	dto := mapper.ToCostItemDTO(item)
	return &dto, nil
}

// CreateItem adds a catalog entry. Changing a price later never
// touches existing jobs' stored quantities, but their quoted totals
// are always derived from the current catalog.
func (s *CatalogService) CreateItem(ctx context.Context, actor *auth.UserContext, req *domain.CreateCostItemRequest) (*domain.CostItemDTO, error) {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionCreate) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("item category", "load", err)
	}

	item := &domain.CostItem{
		Name:        req.Name,
		Unit:        req.Unit,
		CostPerUnit: req.CostPerUnit,
		CategoryID:  req.CategoryID,
	}
	if err := s.costItemRepo.Create(ctx, item); err != nil {
		return nil, mapper.FormatError("cost item", "create", err)
	}

	s.logger.Info("cost item created",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
	)

	created, err := s.costItemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, mapper.FormatError("cost item", "reload", err)
	}
	dto := mapper.ToCostItemDTO(created)
	return &dto, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, actor *auth.UserContext, id uuid.UUID, req *domain.UpdateCostItemRequest) (*domain.CostItemDTO, error) {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionEdit) {
		return nil, ErrPermissionDenied
	}

	item, err := s.costItemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("cost item", "load", err)
	}

	if req.CategoryID != item.CategoryID {
		if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, mapper.FormatError("item category", "load", err)
		}
	}

	item.Name = req.Name
	item.Unit = req.Unit
	item.CostPerUnit = req.CostPerUnit
	item.CategoryID = req.CategoryID

	if err := s.costItemRepo.Update(ctx, item); err != nil {
		return nil, mapper.FormatError("cost item", "update", err)
	}

	updated, err := s.costItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapper.FormatError("cost item", "reload", err)
	}
	dto := mapper.ToCostItemDTO(updated)
	return &dto, nil
}

// DeleteItem removes a catalog entry. Jobs whose quotations still
// reference it keep their line items; those lines simply price at zero
// from then on.
func (s *CatalogService) DeleteItem(ctx context.Context, actor *auth.UserContext, id uuid.UUID) error {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionDelete) {
		return ErrPermissionDenied
	}

	if _, err := s.costItemRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return mapper.FormatError("cost item", "load", err)
	}

	if err := s.costItemRepo.Delete(ctx, id); err != nil {
		return mapper.FormatError("cost item", "delete", err)
	}

	s.logger.Info("cost item deleted", zap.String("item_id", id.String()))
	return nil
}

// Categories

func (s *CatalogService) ListCategories(ctx context.Context, actor *auth.UserContext) ([]domain.ItemCategoryDTO, error) {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("item categories", "list", err)
	}

	dtos := make([]domain.ItemCategoryDTO, 0, len(categories))
	for i := range categories {
		count, err := s.costItemRepo.CountByCategory(ctx, categories[i].ID)
		if err != nil {
			return nil, mapper.FormatError("item categories", "count", err)
		}
		dtos = append(dtos, mapper.ToItemCategoryDTO(&categories[i], count))
	}
	return dtos, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor *auth.UserContext, req *domain.CreateItemCategoryRequest) (*domain.ItemCategoryDTO, error) {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionCreate) {
		return nil, ErrPermissionDenied
	}

	taken, err := s.categoryRepo.NameExists(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, mapper.FormatError("item category", "check", err)
	}
	if taken {
		return nil, ErrConflict
	}

	color := req.Color
	if color == (domain.CategoryColor{}) {
		color = domain.DefaultCategoryColor
	}

	category := &domain.ItemCategory{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: color,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, mapper.FormatError("item category", "create", err)
	}

	s.logger.Info("item category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)

	dto := mapper.ToItemCategoryDTO(category, 0)
	return &dto, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, actor *auth.UserContext, id uuid.UUID, req *domain.UpdateItemCategoryRequest) (*domain.ItemCategoryDTO, error) {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionEdit) {
		return nil, ErrPermissionDenied
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("item category", "load", err)
	}

	taken, err := s.categoryRepo.NameExists(ctx, req.Name, id)
	if err != nil {
		return nil, mapper.FormatError("item category", "check", err)
	}
	if taken {
		return nil, ErrConflict
	}

	category.Name = req.Name
	category.Icon = req.Icon
	if req.Color != (domain.CategoryColor{}) {
		category.Color = req.Color
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, mapper.FormatError("item category", "update", err)
	}

	count, err := s.costItemRepo.CountByCategory(ctx, id)
	if err != nil {
		return nil, mapper.FormatError("item category", "count", err)
	}
	dto := mapper.ToItemCategoryDTO(category, count)
	return &dto, nil
}

// DeleteCategory refuses while any cost item still belongs to the
// category, so the catalog never ends up with orphaned items.
func (s *CatalogService) DeleteCategory(ctx context.Context, actor *auth.UserContext, id uuid.UUID) error {
	if !authz.Can(actor.User, authz.ModuleItems, authz.ActionDelete) {
		return ErrPermissionDenied
	}

	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return mapper.FormatError("item category", "load", err)
	}

	count, err := s.costItemRepo.CountByCategory(ctx, id)
	if err != nil {
		return mapper.FormatError("item category", "count", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return mapper.FormatError("item category", "delete", err)
	}

	s.logger.Info("item category deleted", zap.String("category_id", id.String()))
	return nil
}
