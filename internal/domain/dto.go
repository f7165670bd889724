package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses. Dates travel as YYYY-MM-DD strings the way the
// form clients submit them; timestamps as ISO 8601.

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// PaginatedResponse wraps list endpoints that page
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// UserDTO is the public shape of a user account. The password hash
// never leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        UserRole    `json:"role"`
	Permissions Permissions `json:"permissions"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   string      `json:"createdAt"` // ISO 8601
	UpdatedAt   string      `json:"updatedAt"` // ISO 8601
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"` // ISO 8601
	User      UserDTO `json:"user"`
}

// UpdateProfileRequest lets a user change their own name, email and
// password. The current password must match for any change to apply.
type UpdateProfileRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword,omitempty" validate:"omitempty,min=8"`
}

type CreateUserRequest struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Email       string       `json:"email" validate:"required,email"`
	Password    string       `json:"password" validate:"required,min=8"`
	Role        UserRole     `json:"role" validate:"required,oneof=admin sales designer production installation"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

// UpdateUserRequest replaces a user's editable fields. Omitting
// permissions resets them to the submitted role's defaults.
type UpdateUserRequest struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Email       string       `json:"email" validate:"required,email"`
	Password    string       `json:"password,omitempty" validate:"omitempty,min=8"`
	Role        UserRole     `json:"role" validate:"required,oneof=admin sales designer production installation"`
	Permissions *Permissions `json:"permissions,omitempty"`
	IsActive    *bool        `json:"isActive,omitempty"`
}

// Catalog DTOs

type ItemCategoryDTO struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Icon      string        `json:"icon,omitempty"`
	Color     CategoryColor `json:"color"`
	ItemCount int           `json:"itemCount"`
	CreatedAt string        `json:"createdAt"` // ISO 8601
	UpdatedAt string        `json:"updatedAt"` // ISO 8601
}

type CreateItemCategoryRequest struct {
	Name  string        `json:"name" validate:"required,max=200"`
	Icon  string        `json:"icon,omitempty" validate:"max=100"`
	Color CategoryColor `json:"color"`
}

type UpdateItemCategoryRequest struct {
	Name  string        `json:"name" validate:"required,max=200"`
	Icon  string        `json:"icon,omitempty" validate:"max=100"`
	Color CategoryColor `json:"color"`
}

type CostItemDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Unit         CostUnit  `json:"unit"`
	CostPerUnit  float64   `json:"costPerUnit"`
	CategoryID   uuid.UUID `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	CreatedAt    string    `json:"createdAt"` // ISO 8601
	UpdatedAt    string    `json:"updatedAt"` // ISO 8601
}

type CreateCostItemRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Unit        CostUnit  `json:"unit" validate:"required,oneof=item sqm meter hour day"`
	CostPerUnit float64   `json:"costPerUnit" validate:"gte=0"`
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
}

type UpdateCostItemRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Unit        CostUnit  `json:"unit" validate:"required,oneof=item sqm meter hour day"`
	CostPerUnit float64   `json:"costPerUnit" validate:"gte=0"`
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
}

type FixedCostItemDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MonthlyAmount float64   `json:"monthlyAmount"`
	CreatedAt     string    `json:"createdAt"` // ISO 8601
	UpdatedAt     string    `json:"updatedAt"` // ISO 8601
}

type CreateFixedCostItemRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	MonthlyAmount float64 `json:"monthlyAmount" validate:"gte=0"`
}

type UpdateFixedCostItemRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	MonthlyAmount float64 `json:"monthlyAmount" validate:"gte=0"`
}

// Job DTOs

type QuotationLineItemDTO struct {
	ItemID   uuid.UUID `json:"itemId" validate:"required"`
	Quantity float64   `json:"quantity" validate:"gte=0"`
}

type QuotationDetailsDTO struct {
	LineItems                       []QuotationLineItemDTO `json:"lineItems" validate:"dive"`
	FixedCosts                      float64                `json:"fixedCosts" validate:"gte=0"`
	ProfitMarkupPercentage          float64                `json:"profitMarkupPercentage"`
	FixedCostContributionPercentage float64                `json:"fixedCostContributionPercentage"`
}

// QuotationBreakdownDTO exposes every stage of the pricing formula so
// the clients never re-derive a price themselves.
type QuotationBreakdownDTO struct {
	LineItemsTotal              float64 `json:"lineItemsTotal"`
	Subtotal                    float64 `json:"subtotal"`
	ProfitMarkupAmount          float64 `json:"profitMarkupAmount"`
	FixedCostContributionAmount float64 `json:"fixedCostContributionAmount"`
	FinalTotal                  float64 `json:"finalTotal"`
}

type InvoiceDetailsDTO struct {
	Amount float64    `json:"amount" validate:"gte=0"`
	Date   string     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	UserID *uuid.UUID `json:"userId,omitempty"`
}

type PaymentRecordDTO struct {
	Amount float64    `json:"amount" validate:"gte=0"`
	Date   string     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	UserID *uuid.UUID `json:"userId,omitempty"`
}

type ChangelogEntryDTO struct {
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Timestamp string    `json:"timestamp"` // ISO 8601
	FromStage JobStage  `json:"fromStage"`
	ToStage   JobStage  `json:"toStage"`
}

// StageProgressDTO locates a stage on the linear progression. Index is
// -1 and Visible false for stages outside it (On Hold).
type StageProgressDTO struct {
	Index   int  `json:"index"`
	Total   int  `json:"total"`
	Visible bool `json:"visible"`
}

type JobDTO struct {
	ID                  uuid.UUID             `json:"id"`
	ClientName          string                `json:"clientName"`
	ClientEmail         string                `json:"clientEmail,omitempty"`
	ClientPhone         string                `json:"clientPhone,omitempty"`
	InstallationAddress string                `json:"installationAddress,omitempty"`
	JobDescription      string                `json:"jobDescription,omitempty"`
	Notes               string                `json:"notes,omitempty"`
	Quotation           QuotationDetailsDTO   `json:"quotationDetails"`
	QuotationBreakdown  QuotationBreakdownDTO `json:"quotationBreakdown"`
	Invoice             InvoiceDetailsDTO     `json:"invoiceDetails"`
	Payments            []PaymentRecordDTO    `json:"payments"`
	PaymentsTotal       float64               `json:"paymentsTotal"`
	Balance             float64               `json:"balance"` // invoiced amount minus payments
	Stage               JobStage              `json:"stage"`
	StageProgress       StageProgressDTO      `json:"stageProgress"`
	InstallationDate    string                `json:"installationDate,omitempty"`
	MockupImageURL      string                `json:"mockupImageUrl,omitempty"`
	SalespersonID       uuid.UUID             `json:"salespersonId"`
	SalespersonName     string                `json:"salespersonName,omitempty"`
	Changelog           []ChangelogEntryDTO   `json:"changelog,omitempty"`
	CanEdit             bool                  `json:"canEdit"`
	CanDelete           bool                  `json:"canDelete"`
	CreatedAt           string                `json:"createdAt"` // ISO 8601
	UpdatedAt           string                `json:"updatedAt"` // ISO 8601
}

type CreateJobRequest struct {
	ClientName          string              `json:"clientName" validate:"required,max=200"`
	ClientEmail         string              `json:"clientEmail,omitempty" validate:"omitempty,email"`
	ClientPhone         string              `json:"clientPhone,omitempty" validate:"max=50"`
	InstallationAddress string              `json:"installationAddress,omitempty" validate:"max=500"`
	JobDescription      string              `json:"jobDescription,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	Quotation           QuotationDetailsDTO `json:"quotationDetails"`
	Invoice             InvoiceDetailsDTO   `json:"invoiceDetails"`
	Payments            []PaymentRecordDTO  `json:"payments" validate:"max=3,dive"`
	Stage               JobStage            `json:"stage,omitempty"`
	InstallationDate    string              `json:"installationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateJobRequest replaces the whole editable aggregate; the
// salesperson is fixed at creation and absent here.
type UpdateJobRequest struct {
	ClientName          string              `json:"clientName" validate:"required,max=200"`
	ClientEmail         string              `json:"clientEmail,omitempty" validate:"omitempty,email"`
	ClientPhone         string              `json:"clientPhone,omitempty" validate:"max=50"`
	InstallationAddress string              `json:"installationAddress,omitempty" validate:"max=500"`
	JobDescription      string              `json:"jobDescription,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	Quotation           QuotationDetailsDTO `json:"quotationDetails"`
	Invoice             InvoiceDetailsDTO   `json:"invoiceDetails"`
	Payments            []PaymentRecordDTO  `json:"payments" validate:"max=3,dive"`
	Stage               JobStage            `json:"stage" validate:"required"`
	InstallationDate    string              `json:"installationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// JobReportDTO summarizes one job's money flow for the report endpoint
type JobReportDTO struct {
	ID               uuid.UUID `json:"id"`
	ClientName       string    `json:"clientName"`
	Stage            JobStage  `json:"stage"`
	QuotationTotal   float64   `json:"quotationTotal"`
	InvoiceAmount    float64   `json:"invoiceAmount"`
	PaymentsTotal    float64   `json:"paymentsTotal"`
	Outstanding      float64   `json:"outstanding"`
	InstallationDate string    `json:"installationDate,omitempty"`
	SalespersonName  string    `json:"salespersonName,omitempty"`
}

// Financial DTOs

// MonthlySummaryDTO is the financial snapshot for one calendar month
type MonthlySummaryDTO struct {
	Month               int     `json:"month"` // 1-12
	Year                int     `json:"year"`
	MonthlyRevenue      float64 `json:"monthlyRevenue"`
	TotalFixedCosts     float64 `json:"totalFixedCosts"`
	Profit              float64 `json:"profit"`
	PreviousMonthProfit float64 `json:"previousMonthProfit"`
	ProgressPercentage  float64 `json:"progressPercentage"`
	PercentageChange    float64 `json:"percentageChange"`
	IsPositiveChange    bool    `json:"isPositiveChange"`
	CompletedJobs       int     `json:"completedJobs"`
}

// TrendPointDTO is one month in the trailing-year revenue series
type TrendPointDTO struct {
	Month   int     `json:"month"` // 1-12
	Year    int     `json:"year"`
	Label   string  `json:"label"` // e.g. "Oct 2025"
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

type FinanceSettingsDTO struct {
	FixedCostContributionPercentage float64 `json:"fixedCostContributionPercentage"`
	DefaultProfitMarkupPercentage   float64 `json:"defaultProfitMarkupPercentage"`
}

type UpdateFinanceSettingsRequest struct {
	FixedCostContributionPercentage float64 `json:"fixedCostContributionPercentage"`
}
