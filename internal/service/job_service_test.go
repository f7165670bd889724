package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/repository"
	"github.com/signgroup/workshop-api/internal/service"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&domain.User{},
		&domain.ItemCategory{},
		&domain.CostItem{},
		&domain.FixedCostItem{},
		&domain.Job{},
		&domain.QuotationLineItem{},
		&domain.PaymentRecord{},
		&domain.ChangelogEntry{},
		&domain.Setting{},
	)
	require.NoError(t, err, "failed to migrate test schema")
	return db
}

func newJobService(db *gorm.DB) *service.JobService {
	return service.NewJobService(
		repository.NewJobRepository(db),
		repository.NewChangelogRepository(db),
		repository.NewCostItemRepository(db),
		repository.NewUserRepository(db),
		newFinancialsService(db),
		zap.NewNop(),
	)
}

func seedActor(t *testing.T, db *gorm.DB, name string, role domain.UserRole) *auth.UserContext {
	t.Helper()
	user := &domain.User{
		Name:         name,
		Email:        name + "@signgroup.test",
		PasswordHash: "x",
		Role:         role,
		Permissions:  domain.DefaultPermissionsForRole(role),
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return auth.NewUserContext(user)
}

func createJobReq(clientName string) *domain.CreateJobRequest {
	return &domain.CreateJobRequest{
		ClientName: clientName,
		Quotation: domain.QuotationDetailsDTO{
			ProfitMarkupPercentage:          25,
			FixedCostContributionPercentage: 15,
		},
	}
}

func updateJobReq(clientName string, stage domain.JobStage) *domain.UpdateJobRequest {
	return &domain.UpdateJobRequest{
		ClientName: clientName,
		Stage:      stage,
		Quotation: domain.QuotationDetailsDTO{
			ProfitMarkupPercentage:          25,
			FixedCostContributionPercentage: 15,
		},
	}
}

func TestJobService_Create_DefaultsStageAndBindsSalesperson(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)

	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)
	assert.Equal(t, domain.StageQuotationSent, job.Stage)
	assert.Equal(t, sales.UserID, job.SalespersonID)
	assert.True(t, job.CanEdit, "the creating salesperson owns the job")
	assert.False(t, job.CanDelete, "non-admins never delete jobs")
}

func TestJobService_Create_DeniedWithoutCreateFlag(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)

	designer := seedActor(t, db, "designer", domain.RoleDesigner)

	_, err := svc.Create(context.Background(), designer, createJobReq("Harbor Cafe"))
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestJobService_Create_RejectsUnknownStage(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)

	admin := seedActor(t, db, "admin", domain.RoleAdmin)
	req := createJobReq("Harbor Cafe")
	req.Stage = "shipped"

	_, err := svc.Create(context.Background(), admin, req)
	assert.ErrorIs(t, err, service.ErrInvalidStage)
}

func TestJobService_Update_StageChangeAppendsExactlyOneEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	changelogRepo := repository.NewChangelogRepository(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)
	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, sales, job.ID, updateJobReq("Harbor Cafe", domain.StageDesign))
	require.NoError(t, err)

	entries, err := changelogRepo.GetByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.StageQuotationSent, entries[0].FromStage)
	assert.Equal(t, domain.StageDesign, entries[0].ToStage)
	assert.Equal(t, sales.UserID, entries[0].UserID)
}

func TestJobService_Update_SameStageAppendsNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	changelogRepo := repository.NewChangelogRepository(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)
	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	req := updateJobReq("Harbor Cafe AS", domain.StageQuotationSent)
	req.Notes = "renamed the client"
	_, err = svc.Update(ctx, sales, job.ID, req)
	require.NoError(t, err)

	count, err := changelogRepo.CountByJobID(ctx, job.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "a save without a stage change must not audit anything")
}

func TestJobService_Update_AnyStageMayFollowAnyOther(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	changelogRepo := repository.NewChangelogRepository(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)
	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	// Completed straight back to quotation sent is allowed; the
	// changelog is the only record that it happened.
	_, err = svc.Update(ctx, sales, job.ID, updateJobReq("Harbor Cafe", domain.StageCompleted))
	require.NoError(t, err)
	_, err = svc.Update(ctx, sales, job.ID, updateJobReq("Harbor Cafe", domain.StageQuotationSent))
	require.NoError(t, err)

	entries, err := changelogRepo.GetByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.StageCompleted, entries[1].FromStage)
	assert.Equal(t, domain.StageQuotationSent, entries[1].ToStage)
}

func TestJobService_Update_PrunesEmptyPayments(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)
	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	req := updateJobReq("Harbor Cafe", domain.StageQuotationSent)
	req.Payments = []domain.PaymentRecordDTO{
		{Amount: 0, Date: ""},
		{Amount: 1000, Date: "2026-03-01"},
		{Amount: 0, Date: "2026-03-15"}, // zero amount but dated: kept
	}
	updated, err := svc.Update(ctx, sales, job.ID, req)
	require.NoError(t, err)

	require.Len(t, updated.Payments, 2)
	assert.Equal(t, float64(1000), updated.Payments[0].Amount)
	assert.Equal(t, "2026-03-15", updated.Payments[1].Date)
	assert.Equal(t, float64(1000), updated.PaymentsTotal)
}

func TestJobService_Update_RejectsTooManyPayments(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)
	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	req := updateJobReq("Harbor Cafe", domain.StageQuotationSent)
	req.Payments = []domain.PaymentRecordDTO{
		{Amount: 100, Date: "2026-03-01"},
		{Amount: 200, Date: "2026-03-02"},
		{Amount: 300, Date: "2026-03-03"},
		{Amount: 400, Date: "2026-03-04"},
	}
	_, err = svc.Update(ctx, sales, job.ID, req)
	assert.ErrorIs(t, err, service.ErrTooManyPayments)
}

func TestJobService_Update_OwnershipOverlay(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	owner := seedActor(t, db, "owner", domain.RoleSales)
	other := seedActor(t, db, "other", domain.RoleSales)
	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	job, err := svc.Create(ctx, owner, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	// Another salesperson holds the jobs.edit flag but is not the owner.
	_, err = svc.Update(ctx, other, job.ID, updateJobReq("Harbor Cafe", domain.StageDesign))
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.Update(ctx, owner, job.ID, updateJobReq("Harbor Cafe", domain.StageDesign))
	assert.NoError(t, err)

	_, err = svc.Update(ctx, admin, job.ID, updateJobReq("Harbor Cafe", domain.StageFabrication))
	assert.NoError(t, err)
}

func TestJobService_Delete_AdminOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)
	// Even an explicitly granted delete flag does not open deletion to
	// a non-admin.
	sales.User.Permissions.Jobs.Delete = true
	admin := seedActor(t, db, "admin", domain.RoleAdmin)

	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	err = svc.Delete(ctx, sales, job.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	err = svc.Delete(ctx, admin, job.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, admin, job.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestJobService_GetChangelog_ResolvesUserNames(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	sales := seedActor(t, db, "kari", domain.RoleSales)
	job, err := svc.Create(ctx, sales, createJobReq("Harbor Cafe"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, sales, job.ID, updateJobReq("Harbor Cafe", domain.StageDesign))
	require.NoError(t, err)

	entries, err := svc.GetChangelog(ctx, sales, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kari", entries[0].UserName)
}

func TestJobService_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)

	admin := seedActor(t, db, "admin", domain.RoleAdmin)
	_, err := svc.GetByID(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestJobService_Report_IncludesOutstanding(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	sales := seedActor(t, db, "sales", domain.RoleSales)
	req := createJobReq("Harbor Cafe")
	req.Invoice = domain.InvoiceDetailsDTO{Amount: 5000, Date: "2026-03-01"}
	req.Payments = []domain.PaymentRecordDTO{{Amount: 2000, Date: "2026-03-10"}}
	_, err := svc.Create(ctx, sales, req)
	require.NoError(t, err)

	reports, err := svc.Report(ctx, sales)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, float64(5000), reports[0].InvoiceAmount)
	assert.Equal(t, float64(2000), reports[0].PaymentsTotal)
	assert.Equal(t, float64(3000), reports[0].Outstanding,
		"balance due runs against the invoiced amount, not the quoted total")
}

func TestJobService_BalanceDueFollowsInvoiceNotQuote(t *testing.T) {
	db := setupTestDB(t)
	catalogSvc := newCatalogService(db)
	svc := newJobService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)
	category := seedCategory(t, db, "Signage")
	item, err := catalogSvc.CreateItem(ctx, admin, &domain.CreateCostItemRequest{
		Name:        "Lightbox",
		Unit:        domain.UnitItem,
		CostPerUnit: 1000,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)

	req := createJobReq("Harbor Cafe")
	req.Quotation.LineItems = []domain.QuotationLineItemDTO{{ItemID: item.ID, Quantity: 1}}
	req.Invoice = domain.InvoiceDetailsDTO{Amount: 1200, Date: "2026-03-01"}
	req.Payments = []domain.PaymentRecordDTO{{Amount: 600, Date: "2026-03-10"}}

	job, err := svc.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, float64(600), job.Balance)

	report, err := svc.ReportByID(ctx, admin, job.ID)
	require.NoError(t, err)
	assert.NotEqual(t, report.QuotationTotal, report.InvoiceAmount,
		"a hand-entered invoice diverges from the quote here")
	assert.Equal(t, float64(600), report.Outstanding)
}

func TestJobService_Create_SeedsQuotationDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newJobService(db)
	ctx := context.Background()

	admin := seedActor(t, db, "admin", domain.RoleAdmin)
	settingRepo := repository.NewSettingRepository(db)
	require.NoError(t, settingRepo.Set(ctx, domain.SettingFixedCostContribution, "12.5"))

	req := &domain.CreateJobRequest{ClientName: "Harbor Cafe"}
	job, err := svc.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfitMarkup, job.Quotation.ProfitMarkupPercentage)
	assert.Equal(t, 12.5, job.Quotation.FixedCostContributionPercentage)

	// Explicit percentages are stored verbatim.
	explicit := createJobReq("Nordic Gym")
	explicit.Quotation.ProfitMarkupPercentage = 30
	explicit.Quotation.FixedCostContributionPercentage = 10
	job, err = svc.Create(ctx, admin, explicit)
	require.NoError(t, err)
	assert.Equal(t, float64(30), job.Quotation.ProfitMarkupPercentage)
	assert.Equal(t, float64(10), job.Quotation.FixedCostContributionPercentage)
}

func TestJobService_QuotationTotalAgreesAcrossSurfaces(t *testing.T) {
	db := setupTestDB(t)
	catalogSvc := newCatalogService(db)
	svc := newJobService(db)
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
	req.Quotation.LineItems = []domain.QuotationLineItemDTO{{ItemID: item.ID, Quantity: 3}}
	req.Quotation.FixedCosts = 250
	created, err := svc.Create(ctx, admin, req)
	require.NoError(t, err)

	listed, _, err := svc.List(ctx, admin, 1, 10, "", "")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	detail, err := svc.GetByID(ctx, admin, created.ID)
	require.NoError(t, err)

	report, err := svc.ReportByID(ctx, admin, created.ID)
	require.NoError(t, err)

	total := created.QuotationBreakdown.FinalTotal
	require.NotZero(t, total)
	assert.Equal(t, total, listed[0].QuotationBreakdown.FinalTotal)
	assert.Equal(t, total, detail.QuotationBreakdown.FinalTotal)
	assert.Equal(t, total, report.QuotationTotal)
}
