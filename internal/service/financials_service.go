package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/authz"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/finance"
	"github.com/signgroup/workshop-api/internal/mapper"
	"github.com/signgroup/workshop-api/internal/repository"
)

// FinancialsService produces the monthly dashboard figures and manages
// the fixed cost register and pricing settings behind them.
type FinancialsService struct {
	jobRepo       *repository.JobRepository
	fixedCostRepo *repository.FixedCostRepository
	settingRepo   *repository.SettingRepository
	logger        *zap.Logger
	now           func() time.Time
}

func NewFinancialsService(
	jobRepo *repository.JobRepository,
	fixedCostRepo *repository.FixedCostRepository,
	settingRepo *repository.SettingRepository,
	logger *zap.Logger,
) *FinancialsService {
	return &FinancialsService{
		jobRepo:       jobRepo,
		fixedCostRepo: fixedCostRepo,
		settingRepo:   settingRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// MonthlySummary computes the dashboard snapshot for the month holding
// the reference date, including the change against the month before it.
func (s *FinancialsService) MonthlySummary(ctx context.Context, actor *auth.UserContext) (*domain.MonthlySummaryDTO, error) {
	return s.MonthlySummaryFor(ctx, actor, s.now().UTC())
}

// MonthlySummaryFor computes the snapshot for the month holding ref,
// for clients paging back through earlier months.
func (s *FinancialsService) MonthlySummaryFor(ctx context.Context, actor *auth.UserContext, ref time.Time) (*domain.MonthlySummaryDTO, error) {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	jobs, fixedCosts, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	summary := finance.SummarizeMonth(jobs, fixedCosts, ref)
	dto := &domain.MonthlySummaryDTO{
		Month:               int(summary.Month),
		Year:                summary.Year,
		MonthlyRevenue:      summary.Revenue,
		TotalFixedCosts:     summary.FixedCosts,
		Profit:              summary.Profit,
		PreviousMonthProfit: summary.PreviousMonthProfit,
		ProgressPercentage:  summary.ProgressPercentage,
		PercentageChange:    summary.PercentageChange,
		IsPositiveChange:    summary.IsPositiveChange,
		CompletedJobs:       summary.CompletedJobs,
	}
	return dto, nil
}

// Trend returns the trailing twelve months ending at the current one,
// oldest first.
func (s *FinancialsService) Trend(ctx context.Context, actor *auth.UserContext) ([]domain.TrendPointDTO, error) {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	jobs, fixedCosts, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	points := finance.TrailingYear(jobs, fixedCosts, s.now().UTC())
	dtos := make([]domain.TrendPointDTO, 0, len(points))
	for _, p := range points {
		label := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		dtos = append(dtos, domain.TrendPointDTO{
			Month:   int(p.Month),
			Year:    p.Year,
			Label:   label,
			Revenue: p.Revenue,
			Profit:  p.Profit,
		})
	}
	return dtos, nil
}

// Fixed costs

func (s *FinancialsService) ListFixedCosts(ctx context.Context, actor *auth.UserContext) ([]domain.FixedCostItemDTO, error) {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	items, err := s.fixedCostRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("fixed costs", "list", err)
	}

	dtos := make([]domain.FixedCostItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, mapper.ToFixedCostItemDTO(&items[i]))
	}
	return dtos, nil
}

func (s *FinancialsService) CreateFixedCost(ctx context.Context, actor *auth.UserContext, req *domain.CreateFixedCostItemRequest) (*domain.FixedCostItemDTO, error) {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionEdit) {
		return nil, ErrPermissionDenied
	}

	item := &domain.FixedCostItem{
		Name:          req.Name,
		MonthlyAmount: req.MonthlyAmount,
	}
	if err := s.fixedCostRepo.Create(ctx, item); err != nil {
		return nil, mapper.FormatError("fixed cost", "create", err)
	}

	s.logger.Info("fixed cost created",
		zap.String("fixed_cost_id", item.ID.String()),
		zap.String("name", item.Name),
	)
	dto := mapper.ToFixedCostItemDTO(item)
	return &dto, nil
}

func (s *FinancialsService) UpdateFixedCost(ctx context.Context, actor *auth.UserContext, id uuid.UUID, req *domain.UpdateFixedCostItemRequest) (*domain.FixedCostItemDTO, error) {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionEdit) {
		return nil, ErrPermissionDenied
	}

	item, err := s.fixedCostRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapper.FormatError("fixed cost", "load", err)
	}

	item.Name = req.Name
	item.MonthlyAmount = req.MonthlyAmount

	if err := s.fixedCostRepo.Update(ctx, item); err != nil {
		return nil, mapper.FormatError("fixed cost", "update", err)
	}
	dto := mapper.ToFixedCostItemDTO(item)
	return &dto, nil
}

func (s *FinancialsService) DeleteFixedCost(ctx context.Context, actor *auth.UserContext, id uuid.UUID) error {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionEdit) {
		return ErrPermissionDenied
	}

	if _, err := s.fixedCostRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return mapper.FormatError("fixed cost", "load", err)
	}

	if err := s.fixedCostRepo.Delete(ctx, id); err != nil {
		return mapper.FormatError("fixed cost", "delete", err)
	}

	s.logger.Info("fixed cost deleted", zap.String("fixed_cost_id", id.String()))
	return nil
}

// Settings

// GetSettings returns the stored fixed cost contribution percentage
// together with the default profit markup offered to new quotations.
func (s *FinancialsService) GetSettings(ctx context.Context, actor *auth.UserContext) (*domain.FinanceSettingsDTO, error) {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	contribution, err := s.fixedCostContribution(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.FinanceSettingsDTO{
		FixedCostContributionPercentage: contribution,
		DefaultProfitMarkupPercentage:   domain.DefaultProfitMarkup,
	}, nil
}

func (s *FinancialsService) UpdateSettings(ctx context.Context, actor *auth.UserContext, req *domain.UpdateFinanceSettingsRequest) (*domain.FinanceSettingsDTO, error) {
	if !authz.Can(actor.User, authz.ModuleFinancials, authz.ActionEdit) {
		return nil, ErrPermissionDenied
	}
	if req.FixedCostContributionPercentage < 0 {
		return nil, ErrInvalidInput
	}

	value := strconv.FormatFloat(req.FixedCostContributionPercentage, 'f', -1, 64)
	if err := s.settingRepo.Set(ctx, domain.SettingFixedCostContribution, value); err != nil {
		return nil, mapper.FormatError("settings", "update", err)
	}

	s.logger.Info("finance settings updated",
		zap.Float64("fixed_cost_contribution", req.FixedCostContributionPercentage),
		zap.String("user_id", actor.UserID.String()),
	)

	return &domain.FinanceSettingsDTO{
		FixedCostContributionPercentage: req.FixedCostContributionPercentage,
		DefaultProfitMarkupPercentage:   domain.DefaultProfitMarkup,
	}, nil
}

// FixedCostContribution exposes the stored percentage to other
// services seeding new quotations.
func (s *FinancialsService) FixedCostContribution(ctx context.Context) (float64, error) {
	return s.fixedCostContribution(ctx)
}

func (s *FinancialsService) fixedCostContribution(ctx context.Context) (float64, error) {
	fallback := strconv.FormatFloat(domain.DefaultFixedCostContribution, 'f', -1, 64)
	raw, err := s.settingRepo.Get(ctx, domain.SettingFixedCostContribution, fallback)
	if err != nil {
		return 0, mapper.FormatError("settings", "load", err)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.logger.Warn("stored fixed cost contribution is not numeric, using default",
			zap.String("value", raw))
		return domain.DefaultFixedCostContribution, nil
	}
	return value, nil
}

func (s *FinancialsService) loadInputs(ctx context.Context) ([]domain.Job, []domain.FixedCostItem, error) {
	jobs, err := s.jobRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, mapper.FormatError("jobs", "load", err)
	}
	fixedCosts, err := s.fixedCostRepo.List(ctx)
	if err != nil {
		return nil, nil, mapper.FormatError("fixed costs", "load", err)
	}
	return jobs, fixedCosts, nil
}
