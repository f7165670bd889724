package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/authz"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/mapper"
	"github.com/signgroup/workshop-api/internal/pricing"
	"github.com/signgroup/workshop-api/internal/repository"
)

type JobService struct {
	jobRepo       *repository.JobRepository
	changelogRepo *repository.ChangelogRepository
	costItemRepo  *repository.CostItemRepository
	userRepo      *repository.UserRepository
	financials    *FinancialsService
	logger        *zap.Logger
}

func NewJobService(
	jobRepo *repository.JobRepository,
	changelogRepo *repository.ChangelogRepository,
	costItemRepo *repository.CostItemRepository,
	userRepo *repository.UserRepository,
	financials *FinancialsService,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobRepo:       jobRepo,
		changelogRepo: changelogRepo,
		costItemRepo:  costItemRepo,
		userRepo:      userRepo,
		financials:    financials,
		logger:        logger,
	}
}

// Create opens a new job for the acting user. The actor becomes the
// recorded salesperson; that binding never changes afterwards.
func (s *JobService) Create(ctx context.Context, actor *auth.UserContext, req *domain.CreateJobRequest) (*domain.JobDTO, error) {
	if !authz.Can(actor.User, authz.ModuleJobs, authz.ActionCreate) {
		return nil, ErrPermissionDenied
	}

	stage := req.Stage
	if stage == "" {
		stage = domain.StageQuotationSent
	}
	if !stage.IsValid() {
		return nil, ErrInvalidStage
	}

	// A new quotation with no percentages picks up the standing
	// defaults: the fixed markup and the stored overhead contribution.
	quotation := req.Quotation
	if quotation.ProfitMarkupPercentage == 0 {
		quotation.ProfitMarkupPercentage = domain.DefaultProfitMarkup
	}
	if quotation.FixedCostContributionPercentage == 0 {
		pct, err := s.financials.FixedCostContribution(ctx)
		if err != nil {
			return nil, err
		}
		quotation.FixedCostContributionPercentage = pct
	}

	job := &domain.Job{
		ClientName:          req.ClientName,
		ClientEmail:         req.ClientEmail,
		ClientPhone:         req.ClientPhone,
		InstallationAddress: req.InstallationAddress,
		JobDescription:      req.JobDescription,
		Notes:               req.Notes,
		Stage:               stage,
		SalespersonID:       actor.UserID,
	}

	if err := s.applyAggregate(job, quotation, req.Invoice, req.Payments, req.InstallationDate); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, mapper.FormatError("job", "create", err)
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("client", job.ClientName),
		zap.String("salesperson_id", actor.UserID.String()),
	)

	return s.toDTO(ctx, actor, job)
}

// Update replaces the whole aggregate. When the save changes the stage,
// exactly one changelog entry is appended recording who moved it, from
// where, to where, and when. A save with an unchanged stage appends
// nothing. Any stage may follow any other; only the audit is enforced.
func (s *JobService) Update(ctx context.Context, actor *auth.UserContext, id uuid.UUID, req *domain.UpdateJobRequest) (*domain.JobDTO, error) {
	previous, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("job", "load", err)
	}

	if !authz.CanEditJob(actor.User, previous) {
		return nil, ErrPermissionDenied
	}
	if !req.Stage.IsValid() {
		return nil, ErrInvalidStage
	}

	previousStage := previous.Stage

	job := &domain.Job{
		BaseModel:           previous.BaseModel,
		ClientName:          req.ClientName,
		ClientEmail:         req.ClientEmail,
		ClientPhone:         req.ClientPhone,
		InstallationAddress: req.InstallationAddress,
		JobDescription:      req.JobDescription,
		Notes:               req.Notes,
		Stage:               req.Stage,
		SalespersonID:       previous.SalespersonID,
		MockupImagePath:     previous.MockupImagePath,
	}

	if err := s.applyAggregate(job, req.Quotation, req.Invoice, req.Payments, req.InstallationDate); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, mapper.FormatError("job", "update", err)
	}

	if req.Stage != previousStage {
		now := time.Now().UTC()
		if err := s.changelogRepo.RecordTransition(ctx, job.ID, previousStage, req.Stage, actor.UserID, now); err != nil {
			return nil, mapper.FormatError("job changelog", "append", err)
		}
		s.logger.Info("job stage changed",
			zap.String("job_id", job.ID.String()),
			zap.String("from_stage", string(previousStage)),
			zap.String("to_stage", string(req.Stage)),
			zap.String("user_id", actor.UserID.String()),
		)
	}

	updated, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapper.FormatError("job", "reload", err)
	}
	return s.toDTO(ctx, actor, updated)
}

// Delete removes a job. Delete is admin-only regardless of a
// non-admin's delete flag.
func (s *JobService) Delete(ctx context.Context, actor *auth.UserContext, id uuid.UUID) error {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return mapper.FormatError("job", "load", err)
	}

	if !authz.CanDeleteJob(actor.User, job) {
		return ErrPermissionDenied
	}

	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return mapper.FormatError("job", "delete", err)
	}

	s.logger.Info("job deleted",
		zap.String("job_id", id.String()),
		zap.String("user_id", actor.UserID.String()),
	)
	return nil
}

// GetByID loads one job
func (s *JobService) GetByID(ctx context.Context, actor *auth.UserContext, id uuid.UUID) (*domain.JobDTO, error) {
	if !authz.Can(actor.User, authz.ModuleJobs, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("job", "load", err)
	}
	return s.toDTO(ctx, actor, job)
}

// List returns a page of jobs with per-job action flags for the actor
func (s *JobService) List(ctx context.Context, actor *auth.UserContext, page, pageSize int, search string, stage domain.JobStage) ([]domain.JobDTO, int64, error) {
	if !authz.Can(actor.User, authz.ModuleJobs, authz.ActionView) {
		return nil, 0, ErrPermissionDenied
	}
	if stage != "" && !stage.IsValid() {
		return nil, 0, ErrInvalidStage
	}

	jobs, total, err := s.jobRepo.List(ctx, page, pageSize, search, stage)
	if err != nil {
		return nil, 0, mapper.FormatError("jobs", "list", err)
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.JobDTO, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		dtos = append(dtos, mapper.ToJobDTO(job, catalog, nil,
			authz.CanEditJob(actor.User, job),
			authz.CanDeleteJob(actor.User, job),
		))
	}
	return dtos, total, nil
}

// GetChangelog returns a job's stage audit trail, oldest first
func (s *JobService) GetChangelog(ctx context.Context, actor *auth.UserContext, id uuid.UUID) ([]domain.ChangelogEntryDTO, error) {
	if !authz.Can(actor.User, authz.ModuleJobs, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.jobRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("job", "load", err)
	}

	entries, err := s.changelogRepo.GetByJobID(ctx, id)
	if err != nil {
		return nil, mapper.FormatError("job changelog", "load", err)
	}

	names, err := s.userNames(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.ChangelogEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, mapper.ToChangelogEntryDTO(&entries[i], names[entries[i].UserID.String()]))
	}
	return dtos, nil
}

// Report summarizes quotation totals, invoices and payments per job
func (s *JobService) Report(ctx context.Context, actor *auth.UserContext) ([]domain.JobReportDTO, error) {
	if !authz.Can(actor.User, authz.ModuleJobs, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	jobs, err := s.jobRepo.ListForReport(ctx)
	if err != nil {
		return nil, mapper.FormatError("jobs", "list", err)
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.JobReportDTO, 0, len(jobs))
	for i := range jobs {
		reports = append(reports, mapper.ToJobReportDTO(&jobs[i], catalog))
	}
	return reports, nil
}

// ReportByID summarizes one job's money flow, for the printable report
func (s *JobService) ReportByID(ctx context.Context, actor *auth.UserContext, id uuid.UUID) (*domain.JobReportDTO, error) {
	if !authz.Can(actor.User, authz.ModuleJobs, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("job", "load", err)
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	report := mapper.ToJobReportDTO(job, catalog)
	return &report, nil
}

// SetMockupImage records the stored mockup path on a job
func (s *JobService) SetMockupImage(ctx context.Context, actor *auth.UserContext, id uuid.UUID, path string) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("job", "load", err)
	}

	if !authz.CanEditJob(actor.User, job) {
		return nil, ErrPermissionDenied
	}

	job.MockupImagePath = path
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, mapper.FormatError("job", "update", err)
	}
	return s.toDTO(ctx, actor, job)
}

// applyAggregate maps the request's owned parts onto the job. Payment
// rows that carry neither an amount nor a date are pruned; at most
// three survive.
func (s *JobService) applyAggregate(
	job *domain.Job,
	quotation domain.QuotationDetailsDTO,
	invoice domain.InvoiceDetailsDTO,
	payments []domain.PaymentRecordDTO,
	installationDate string,
) error {
	lineItems := make([]domain.QuotationLineItem, 0, len(quotation.LineItems))
	for i, line := range quotation.LineItems {
		lineItems = append(lineItems, domain.QuotationLineItem{
			JobID:    job.ID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Position: i,
		})
	}
	job.Quotation = domain.QuotationDetails{
		LineItems:                       lineItems,
		FixedCosts:                      quotation.FixedCosts,
		ProfitMarkupPercentage:          quotation.ProfitMarkupPercentage,
		FixedCostContributionPercentage: quotation.FixedCostContributionPercentage,
	}

	invoiceDate, err := mapper.ParseDate(invoice.Date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	job.Invoice = domain.InvoiceDetails{
		Amount: invoice.Amount,
		Date:   invoiceDate,
		UserID: invoice.UserID,
	}

	kept := make([]domain.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if p.Amount == 0 && p.Date == "" {
			continue
		}
		date, err := mapper.ParseDate(p.Date)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		kept = append(kept, domain.PaymentRecord{
			JobID:  job.ID,
			Amount: p.Amount,
			Date:   date,
			UserID: p.UserID,
			Slot:   len(kept),
		})
	}
	if len(kept) > domain.MaxPaymentSlots {
		return ErrTooManyPayments
	}
	job.Payments = kept

	installed, err := mapper.ParseDate(installationDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	job.InstallationDate = installed

	return nil
}

func (s *JobService) toDTO(ctx context.Context, actor *auth.UserContext, job *domain.Job) (*domain.JobDTO, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.userNames(ctx)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToJobDTO(job, catalog, names,
		authz.CanEditJob(actor.User, job),
		authz.CanDeleteJob(actor.User, job),
	)
	return &dto, nil
}

func (s *JobService) loadCatalog(ctx context.Context) (pricing.Catalog, error) {
	items, err := s.costItemRepo.ListAll(ctx)
	if err != nil {
		return nil, mapper.FormatError("cost items", "load", err)
	}
	return pricing.NewCatalog(items), nil
}

func (s *JobService) userNames(ctx context.Context) (map[string]string, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("users", "load", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.String()] = u.Name
	}
	return names, nil
}
