package mapper

import (
	"fmt"
	"time"

	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/pricing"
)

const timestampFormat = "2006-01-02T15:04:05Z"
const dateFormat = "2006-01-02"

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: user.Permissions,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt.Format(timestampFormat),
		UpdatedAt:   user.UpdatedAt.Format(timestampFormat),
	}
}

// ToItemCategoryDTO converts ItemCategory to ItemCategoryDTO
func ToItemCategoryDTO(category *domain.ItemCategory, itemCount int) domain.ItemCategoryDTO {
	return domain.ItemCategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		Icon:      category.Icon,
		Color:     category.Color,
		ItemCount: itemCount,
		CreatedAt: category.CreatedAt.Format(timestampFormat),
		UpdatedAt: category.UpdatedAt.Format(timestampFormat),
	}
}

// ToCostItemDTO converts CostItem to CostItemDTO
func ToCostItemDTO(item *domain.CostItem) domain.CostItemDTO {
	dto := domain.CostItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Unit:        item.Unit,
		CostPerUnit: item.CostPerUnit,
		CategoryID:  item.CategoryID,
		CreatedAt:   item.CreatedAt.Format(timestampFormat),
		UpdatedAt:   item.UpdatedAt.Format(timestampFormat),
	}
	if item.Category != nil {
		dto.CategoryName = item.Category.Name
	}
	return dto
}

// ToFixedCostItemDTO converts FixedCostItem to FixedCostItemDTO
func ToFixedCostItemDTO(item *domain.FixedCostItem) domain.FixedCostItemDTO {
	return domain.FixedCostItemDTO{
		ID:            item.ID,
		Name:          item.Name,
		MonthlyAmount: item.MonthlyAmount,
		CreatedAt:     item.CreatedAt.Format(timestampFormat),
		UpdatedAt:     item.UpdatedAt.Format(timestampFormat),
	}
}

// ToQuotationBreakdownDTO converts a pricing breakdown
func ToQuotationBreakdownDTO(b pricing.Breakdown) domain.QuotationBreakdownDTO {
	return domain.QuotationBreakdownDTO{
		LineItemsTotal:              b.LineItemsTotal,
		Subtotal:                    b.Subtotal,
		ProfitMarkupAmount:          b.ProfitMarkupAmount,
		FixedCostContributionAmount: b.FixedCostContributionAmount,
		FinalTotal:                  b.FinalTotal,
	}
}

// ToChangelogEntryDTO converts ChangelogEntry to ChangelogEntryDTO
func ToChangelogEntryDTO(entry *domain.ChangelogEntry, userName string) domain.ChangelogEntryDTO {
	return domain.ChangelogEntryDTO{
		UserID:    entry.UserID,
		UserName:  userName,
		Timestamp: entry.Timestamp.Format(timestampFormat),
		FromStage: entry.FromStage,
		ToStage:   entry.ToStage,
	}
}

// ToStageProgressDTO locates a stage on the linear progression
func ToStageProgressDTO(stage domain.JobStage) domain.StageProgressDTO {
	idx := stage.ProgressIndex()
	return domain.StageProgressDTO{
		Index:   idx,
		Total:   len(domain.ProgressStages),
		Visible: idx >= 0,
	}
}

// ToJobDTO converts a job aggregate to its response shape. The
// quotation breakdown is always derived through the pricing engine so
// every surface shows the same number. The canEdit/canDelete flags are
// evaluated for the requesting user by the caller.
func ToJobDTO(job *domain.Job, catalog pricing.Catalog, userNames map[string]string, canEdit, canDelete bool) domain.JobDTO {
	lineItems := make([]domain.QuotationLineItemDTO, 0, len(job.Quotation.LineItems))
	for _, line := range job.Quotation.LineItems {
		lineItems = append(lineItems, domain.QuotationLineItemDTO{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
	}

	payments := make([]domain.PaymentRecordDTO, 0, len(job.Payments))
	for _, p := range job.Payments {
		payments = append(payments, domain.PaymentRecordDTO{
			Amount: p.Amount,
			Date:   formatDate(p.Date),
			UserID: p.UserID,
		})
	}

	changelog := make([]domain.ChangelogEntryDTO, 0, len(job.Changelog))
	for i := range job.Changelog {
		entry := &job.Changelog[i]
		changelog = append(changelog, ToChangelogEntryDTO(entry, userNames[entry.UserID.String()]))
	}

	dto := domain.JobDTO{
		ID:                  job.ID,
		ClientName:          job.ClientName,
		ClientEmail:         job.ClientEmail,
		ClientPhone:         job.ClientPhone,
		InstallationAddress: job.InstallationAddress,
		JobDescription:      job.JobDescription,
		Notes:               job.Notes,
		Quotation: domain.QuotationDetailsDTO{
			LineItems:                       lineItems,
			FixedCosts:                      job.Quotation.FixedCosts,
			ProfitMarkupPercentage:          job.Quotation.ProfitMarkupPercentage,
			FixedCostContributionPercentage: job.Quotation.FixedCostContributionPercentage,
		},
		QuotationBreakdown: ToQuotationBreakdownDTO(pricing.Quote(job.Quotation, catalog)),
		Invoice: domain.InvoiceDetailsDTO{
			Amount: job.Invoice.Amount,
			Date:   formatDate(job.Invoice.Date),
			UserID: job.Invoice.UserID,
		},
		Payments:         payments,
		PaymentsTotal:    job.PaymentsTotal(),
		Balance:          job.Invoice.Amount - job.PaymentsTotal(),
		Stage:            job.Stage,
		StageProgress:    ToStageProgressDTO(job.Stage),
		InstallationDate: formatDate(job.InstallationDate),
		MockupImageURL:   job.MockupImagePath,
		SalespersonID:    job.SalespersonID,
		Changelog:        changelog,
		CanEdit:          canEdit,
		CanDelete:        canDelete,
		CreatedAt:        job.CreatedAt.Format(timestampFormat),
		UpdatedAt:        job.UpdatedAt.Format(timestampFormat),
	}
	if job.Salesperson != nil {
		dto.SalespersonName = job.Salesperson.Name
	}
	return dto
}

// ToJobReportDTO summarizes a job's money flow. Outstanding is the
// balance due against the invoiced amount, not the quoted total; the
// two differ whenever the invoice was entered by hand.
func ToJobReportDTO(job *domain.Job, catalog pricing.Catalog) domain.JobReportDTO {
	paid := job.PaymentsTotal()
	dto := domain.JobReportDTO{
		ID:               job.ID,
		ClientName:       job.ClientName,
		Stage:            job.Stage,
		QuotationTotal:   pricing.Total(job.Quotation, catalog),
		InvoiceAmount:    job.Invoice.Amount,
		PaymentsTotal:    paid,
		Outstanding:      job.Invoice.Amount - paid,
		InstallationDate: formatDate(job.InstallationDate),
	}
	if job.Salesperson != nil {
		dto.SalespersonName = job.Salesperson.Name
	}
	return dto
}

// ParseDate parses a YYYY-MM-DD request field into a nullable date
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}

// FormatError wraps repository errors with entity and operation context
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
