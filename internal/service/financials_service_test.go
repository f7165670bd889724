package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/repository"
	"github.com/signgroup/workshop-api/internal/service"
)

func newFinancialsService(db *gorm.DB) *service.FinancialsService {
	return service.NewFinancialsService(
		repository.NewJobRepository(db),
		repository.NewFixedCostRepository(db),
		repository.NewSettingRepository(db),
		zap.NewNop(),
	)
}

func TestFinancialsService_MonthlySummary(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 10, 0, 0, 0, 0, time.UTC)

	jobRepo := repository.NewJobRepository(db)
	// Completed this month: its payments count as this month's revenue.
	require.NoError(t, jobRepo.Create(ctx, &domain.Job{
		ClientName:       "Harbor Cafe",
		Stage:            domain.StageCompleted,
		SalespersonID:    admin.UserID,
		InstallationDate: &thisMonth,
		Payments: []domain.PaymentRecord{
			{Amount: 12000, Date: &thisMonth, Slot: 0},
		},
	}))
	// Not completed: contributes nothing however much was paid.
	require.NoError(t, jobRepo.Create(ctx, &domain.Job{
		ClientName:       "Nordic Gym",
		Stage:            domain.StageInstallationScheduled,
		SalespersonID:    admin.UserID,
		InstallationDate: &thisMonth,
		Payments: []domain.PaymentRecord{
			{Amount: 9999, Date: &thisMonth, Slot: 0},
		},
	}))

	fixedCostRepo := repository.NewFixedCostRepository(db)
	require.NoError(t, fixedCostRepo.Create(ctx, &domain.FixedCostItem{Name: "Rent", MonthlyAmount: 7000}))
	require.NoError(t, fixedCostRepo.Create(ctx, &domain.FixedCostItem{Name: "Utilities", MonthlyAmount: 1000}))

	summary, err := svc.MonthlySummary(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int(now.Month()), summary.Month)
	assert.Equal(t, now.Year(), summary.Year)
	assert.Equal(t, float64(12000), summary.MonthlyRevenue)
	assert.Equal(t, float64(8000), summary.TotalFixedCosts)
	assert.Equal(t, float64(4000), summary.Profit)
	assert.Equal(t, float64(-8000), summary.PreviousMonthProfit)
	assert.Equal(t, 1, summary.CompletedJobs)
}

func TestFinancialsService_MonthlySummaryFor_PastMonth(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	march := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	jobRepo := repository.NewJobRepository(db)
	require.NoError(t, jobRepo.Create(ctx, &domain.Job{
		ClientName:       "Harbor Cafe",
		Stage:            domain.StageCompleted,
		SalespersonID:    admin.UserID,
		InstallationDate: &march,
		Payments: []domain.PaymentRecord{
			{Amount: 3000, Date: &march, Slot: 0},
		},
	}))

	summary, err := svc.MonthlySummaryFor(ctx, admin, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Month)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, float64(3000), summary.MonthlyRevenue)

	summary, err = svc.MonthlySummaryFor(ctx, admin, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, summary.MonthlyRevenue)
	assert.Equal(t, float64(3000), summary.PreviousMonthProfit, "March earnings with no overhead on record")
	assert.Equal(t, float64(-100), summary.PercentageChange)
	assert.False(t, summary.IsPositiveChange)
}

func TestFinancialsService_Trend_CoversTrailingYear(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	points, err := svc.Trend(ctx, admin)
	require.NoError(t, err)
	require.Len(t, points, 12)

	now := time.Now().UTC()
	last := points[len(points)-1]
	assert.Equal(t, int(now.Month()), last.Month)
	assert.Equal(t, now.Year(), last.Year)
	assert.Equal(t, now.Format("Jan 2006"), last.Label)
}

func TestFinancialsService_Settings_DefaultAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	settings, err := svc.GetSettings(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFixedCostContribution, settings.FixedCostContributionPercentage)
	assert.Equal(t, domain.DefaultProfitMarkup, settings.DefaultProfitMarkupPercentage)

	updated, err := svc.UpdateSettings(ctx, admin, &domain.UpdateFinanceSettingsRequest{
		FixedCostContributionPercentage: 12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.FixedCostContributionPercentage)

	settings, err = svc.GetSettings(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 12.5, settings.FixedCostContributionPercentage)
}

func TestFinancialsService_UpdateSettings_RejectsNegative(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)

	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	_, err := svc.UpdateSettings(context.Background(), admin, &domain.UpdateFinanceSettingsRequest{
		FixedCostContributionPercentage: -5,
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestFinancialsService_Settings_GarbageValueFallsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	settingRepo := repository.NewSettingRepository(db)
	require.NoError(t, settingRepo.Set(ctx, domain.SettingFixedCostContribution, "not-a-number"))

	value, err := svc.FixedCostContribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFixedCostContribution, value)

	settings, err := svc.GetSettings(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFixedCostContribution, settings.FixedCostContributionPercentage)
}

func TestFinancialsService_Permissions(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)
	ctx := context.Background()

	// Sales holds no financials flags at all.
	sales := seedActor(t, db, "sales", domain.RoleSales)

	_, err := svc.MonthlySummary(ctx, sales)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.ListFixedCosts(ctx, sales)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.CreateFixedCost(ctx, sales, &domain.CreateFixedCostItemRequest{Name: "Rent", MonthlyAmount: 7000})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestFinancialsService_FixedCostLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newFinancialsService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	created, err := svc.CreateFixedCost(ctx, admin, &domain.CreateFixedCostItemRequest{
		Name:          "Rent",
		MonthlyAmount: 7000,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFixedCost(ctx, admin, created.ID, &domain.UpdateFixedCostItemRequest{
		Name:          "Rent downtown",
		MonthlyAmount: 7500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rent downtown", updated.Name)
	assert.Equal(t, float64(7500), updated.MonthlyAmount)

	require.NoError(t, svc.DeleteFixedCost(ctx, admin, created.ID))

	items, err := svc.ListFixedCosts(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, items)
}
