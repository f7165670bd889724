package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/repository"
	"github.com/signgroup/workshop-api/internal/service"
)

func newCatalogService(db *gorm.DB) *service.CatalogService {
	return service.NewCatalogService(
		repository.NewCostItemRepository(db),
		repository.NewItemCategoryRepository(db),
		zap.NewNop(),
	)
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *domain.ItemCategory {
	t.Helper()
	category := &domain.ItemCategory{Name: name, Color: domain.DefaultCategoryColor}
	require.NoError(t, db.Create(category).Error)
	return category
}

func TestCatalogService_CreateCategory_DefaultsColor(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	created, err := svc.CreateCategory(context.Background(), admin, &domain.CreateItemCategoryRequest{
		Name: "Banners",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryColor, created.Color)
	assert.Zero(t, created.ItemCount)
}

func TestCatalogService_CreateCategory_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	seedCategory(t, db, "Banners")

	_, err := svc.CreateCategory(context.Background(), admin, &domain.CreateItemCategoryRequest{
		Name: "Banners",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCatalogService_CreateItem_UnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	_, err := svc.CreateItem(context.Background(), admin, &domain.CreateCostItemRequest{
		Name:        "ACM panel",
		Unit:        domain.UnitSqm,
		CostPerUnit: 350,
		CategoryID:  uuid.New(),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogService_CreateItem_CarriesCategoryName(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	admin := seedActor(t, db, "admin", domain.RoleAdmin)
	category := seedCategory(t, db, "Signage")

	created, err := svc.CreateItem(context.Background(), admin, &domain.CreateCostItemRequest{
		Name:        "ACM panel",
		Unit:        domain.UnitSqm,
		CostPerUnit: 350,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Signage", created.CategoryName)
	assert.Equal(t, float64(350), created.CostPerUnit)
}

func TestCatalogService_DeleteCategory_RefusedWhileInUse(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()
	admin := seedActor(t, db, "admin", domain.RoleAdmin)
	category := seedCategory(t, db, "Signage")

	item, err := svc.CreateItem(ctx, admin, &domain.CreateCostItemRequest{
		Name:        "ACM panel",
		Unit:        domain.UnitSqm,
		CostPerUnit: 350,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, admin, category.ID)
	assert.ErrorIs(t, err, service.ErrCategoryInUse)

	require.NoError(t, svc.DeleteItem(ctx, admin, item.ID))
	assert.NoError(t, svc.DeleteCategory(ctx, admin, category.ID))
}

func TestCatalogService_DeletedItemLeavesJobLinesPricingAtZero(t *testing.T) {
	db := setupTestDB(t)
	catalogSvc := newCatalogService(db)
	jobSvc := newJobService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)
	category := seedCategory(t, db, "Signage")

	item, err := catalogSvc.CreateItem(ctx, admin, &domain.CreateCostItemRequest{
		Name:        "ACM panel",
		Unit:        domain.UnitSqm,
		CostPerUnit: 350,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)

	req := createJobReq("Harbor Cafe")
	req.Quotation.LineItems = []domain.QuotationLineItemDTO{
		{ItemID: item.ID, Quantity: 2},
	}
	job, err := jobSvc.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, float64(700), job.QuotationBreakdown.LineItemsTotal)

	require.NoError(t, catalogSvc.DeleteItem(ctx, admin, item.ID))

	reloaded, err := jobSvc.GetByID(ctx, admin, job.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Quotation.LineItems, 1, "the dangling line survives the item")
	assert.Zero(t, reloaded.QuotationBreakdown.LineItemsTotal, "a dangling line prices at zero")
}

func TestCatalogService_Permissions(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	// Designers can view the catalog but not change it.
	designer := seedActor(t, db, "designer", domain.RoleDesigner)
	category := seedCategory(t, db, "Signage")

	_, err := svc.ListItems(ctx, designer, nil, "")
	assert.NoError(t, err)

	_, err = svc.CreateItem(ctx, designer, &domain.CreateCostItemRequest{
		Name:        "Vinyl",
		Unit:        domain.UnitSqm,
		CostPerUnit: 120,
		CategoryID:  category.ID,
	})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	err = svc.DeleteCategory(ctx, designer, category.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
