package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID when the row is inserted without one
func (b *BaseModel) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRole represents the role of a workshop user
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleSales        UserRole = "sales"
	RoleDesigner     UserRole = "designer"
	RoleProduction   UserRole = "production"
	RoleInstallation UserRole = "installation"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSales, RoleDesigner, RoleProduction, RoleInstallation:
		return true
	}
	return false
}

// PermissionSet holds the four CRUD flags for one module
type PermissionSet struct {
	View   bool `gorm:"not null;default:false" json:"view"`
	Create bool `gorm:"not null;default:false" json:"create"`
	Edit   bool `gorm:"not null;default:false" json:"edit"`
	Delete bool `gorm:"not null;default:false" json:"delete"`
}

// Permissions is the per-user permission matrix. It is stored data, not
// derived from the role at read time: picking a role seeds the matrix
// with that role's defaults, but the persisted flags are authoritative
// and may diverge afterwards.
type Permissions struct {
	Jobs       PermissionSet `gorm:"embedded;embeddedPrefix:perm_jobs_" json:"jobs"`
	Financials PermissionSet `gorm:"embedded;embeddedPrefix:perm_financials_" json:"financials"`
	Items      PermissionSet `gorm:"embedded;embeddedPrefix:perm_items_" json:"items"`
	Users      PermissionSet `gorm:"embedded;embeddedPrefix:perm_users_" json:"users"`
}

// User represents a workshop user account
type User struct {
	BaseModel
	Name         string      `gorm:"type:varchar(200);not null"`
	Email        string      `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string      `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         UserRole    `gorm:"type:varchar(50);not null;default:'sales';index"`
	Permissions  Permissions `gorm:"embedded"`
	IsActive     bool        `gorm:"not null;default:true;column:is_active"`
}

// CostUnit represents the unit a catalog item is priced in
type CostUnit string

const (
	UnitItem  CostUnit = "item"
	UnitSqm   CostUnit = "sqm"
	UnitMeter CostUnit = "meter"
	UnitHour  CostUnit = "hour"
	UnitDay   CostUnit = "day"
)

// IsValid checks if the CostUnit is a valid enum value
func (u CostUnit) IsValid() bool {
	switch u {
	case UnitItem, UnitSqm, UnitMeter, UnitHour, UnitDay:
		return true
	}
	return false
}

// CategoryColor holds the display palette for a catalog category
type CategoryColor struct {
	Background string `gorm:"type:varchar(50);column:color_bg" json:"bg"`
	Text       string `gorm:"type:varchar(50);column:color_text" json:"text"`
	Border     string `gorm:"type:varchar(50);column:color_border" json:"border"`
}

// DefaultCategoryColor is applied when a category is created without
// an explicit palette.
var DefaultCategoryColor = CategoryColor{
	Background: "bg-blue-100",
	Text:       "text-blue-800",
	Border:     "border-blue-200",
}

// ItemCategory groups cost items in the catalog
type ItemCategory struct {
	BaseModel
	Name  string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Icon  string        `gorm:"type:varchar(100)"`
	Color CategoryColor `gorm:"embedded"`
	Items []CostItem    `gorm:"foreignKey:CategoryID"`
}

// CostItem is a priced catalog entry used to build quotation line items
type CostItem struct {
	BaseModel
	Name        string        `gorm:"type:varchar(200);not null;index"`
	Unit        CostUnit      `gorm:"type:varchar(20);not null;default:'item'"`
	CostPerUnit float64       `gorm:"type:decimal(15,2);not null;default:0;column:cost_per_unit"`
	CategoryID  uuid.UUID     `gorm:"type:uuid;not null;index;column:category_id"`
	Category    *ItemCategory `gorm:"foreignKey:CategoryID"`
}

// FixedCostItem is a company-wide monthly overhead entry
type FixedCostItem struct {
	BaseModel
	Name          string  `gorm:"type:varchar(200);not null"`
	MonthlyAmount float64 `gorm:"type:decimal(15,2);not null;default:0;column:monthly_amount"`
}

// JobStage represents a job's position in the sales/production/installation
// lifecycle. Any stage may be saved from any other stage; the enum carries
// no transition rules, only the changelog audits the changes.
type JobStage string

const (
	StageQuotationSent        JobStage = "quotation_sent"
	StageQuotationApproved    JobStage = "quotation_approved"
	StageInvoiceSent          JobStage = "invoice_sent"
	StageClientPaidDeposit    JobStage = "client_paid_deposit"
	StageDesign               JobStage = "design"
	StageFabrication          JobStage = "fabrication"
	StagePrinting             JobStage = "printing"
	StageClientPaidFull       JobStage = "client_paid_full"
	StageInstallationScheduled JobStage = "installation_scheduled"
	StageCompleted            JobStage = "completed"
	StageOnHold               JobStage = "on_hold"
)

// StageOptions lists every stage in display order
var StageOptions = []JobStage{
	StageQuotationSent,
	StageQuotationApproved,
	StageInvoiceSent,
	StageClientPaidDeposit,
	StageDesign,
	StageFabrication,
	StagePrinting,
	StageClientPaidFull,
	StageInstallationScheduled,
	StageCompleted,
	StageOnHold,
}

// ProgressStages is the linear progression subsequence used for progress
// rendering. On Hold has no position in it.
var ProgressStages = []JobStage{
	StageQuotationSent,
	StageQuotationApproved,
	StageInvoiceSent,
	StageClientPaidDeposit,
	StageDesign,
	StageFabrication,
	StagePrinting,
	StageClientPaidFull,
	StageInstallationScheduled,
	StageCompleted,
}

// IsValid checks if the JobStage is a valid enum value
func (s JobStage) IsValid() bool {
	for _, opt := range StageOptions {
		if s == opt {
			return true
		}
	}
	return false
}

// ProgressIndex returns the stage's position in the linear progression,
// or -1 for stages outside it (On Hold).
func (s JobStage) ProgressIndex() int {
	for i, opt := range ProgressStages {
		if s == opt {
			return i
		}
	}
	return -1
}

// QuotationLineItem references a catalog item with a quantity. The item
// reference is weak: a line pointing at a deleted catalog item stays on
// the quotation and prices at zero.
type QuotationLineItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobID    uuid.UUID `gorm:"type:uuid;not null;index;column:job_id"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;column:item_id"`
	Quantity float64   `gorm:"type:decimal(15,2);not null;default:0"`
	Position int       `gorm:"type:int;not null;default:0"`
}

func (l *QuotationLineItem) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// QuotationDetails holds the pricing inputs owned by a job
type QuotationDetails struct {
	LineItems                       []QuotationLineItem `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"lineItems"`
	FixedCosts                      float64             `gorm:"type:decimal(15,2);not null;default:0;column:quotation_fixed_costs" json:"fixedCosts"`
	ProfitMarkupPercentage          float64             `gorm:"type:decimal(8,2);not null;default:0;column:profit_markup_pct" json:"profitMarkupPercentage"`
	FixedCostContributionPercentage float64             `gorm:"type:decimal(8,2);not null;default:0;column:fixed_cost_contribution_pct" json:"fixedCostContributionPercentage"`
}

// InvoiceDetails holds the invoice issued for a job
type InvoiceDetails struct {
	Amount float64    `gorm:"type:decimal(15,2);not null;default:0;column:invoice_amount" json:"amount"`
	Date   *time.Time `gorm:"type:date;column:invoice_date" json:"date"`
	UserID *uuid.UUID `gorm:"type:uuid;column:invoice_user_id" json:"userId"`
}

// PaymentRecord is one received payment against a job. A job carries at
// most three; rows with zero amount and no date are pruned at save time.
type PaymentRecord struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	JobID  uuid.UUID  `gorm:"type:uuid;not null;index;column:job_id"`
	Amount float64    `gorm:"type:decimal(15,2);not null;default:0"`
	Date   *time.Time `gorm:"type:date"`
	UserID *uuid.UUID `gorm:"type:uuid;column:user_id"`
	Slot   int        `gorm:"type:int;not null;default:0"`
}

func (p *PaymentRecord) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MaxPaymentSlots caps the number of payment records per job
const MaxPaymentSlots = 3

// ChangelogEntry is an append-only audit record of a stage transition.
// Entries are written exactly once per stage change detected at save
// time and are never updated or deleted.
type ChangelogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index;column:job_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;column:user_id"`
	FromStage JobStage  `gorm:"type:varchar(50);not null;column:from_stage"`
	ToStage   JobStage  `gorm:"type:varchar(50);not null;column:to_stage"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (e *ChangelogEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName overrides the default table name to match the migration
func (ChangelogEntry) TableName() string {
	return "job_changelog"
}

// Job is the aggregate root for one client engagement, tracked from
// quotation through installation. Saves replace the whole aggregate.
type Job struct {
	BaseModel
	ClientName          string           `gorm:"type:varchar(200);not null;index;column:client_name"`
	ClientEmail         string           `gorm:"type:varchar(255);column:client_email"`
	ClientPhone         string           `gorm:"type:varchar(50);column:client_phone"`
	InstallationAddress string           `gorm:"type:varchar(500);column:installation_address"`
	JobDescription      string           `gorm:"type:text;column:job_description"`
	Notes               string           `gorm:"type:text"`
	Quotation           QuotationDetails `gorm:"embedded"`
	Invoice             InvoiceDetails   `gorm:"embedded"`
	Payments            []PaymentRecord  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	Stage               JobStage         `gorm:"type:varchar(50);not null;default:'quotation_sent';index"`
	InstallationDate    *time.Time       `gorm:"type:date;index;column:installation_date"`
	MockupImagePath     string           `gorm:"type:varchar(500);column:mockup_image_path"`
	SalespersonID       uuid.UUID        `gorm:"type:uuid;not null;index;column:salesperson_id"`
	Salesperson         *User            `gorm:"foreignKey:SalespersonID"`
	Changelog           []ChangelogEntry `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

// PaymentsTotal sums the amounts of all recorded payments
func (j *Job) PaymentsTotal() float64 {
	var total float64
	for _, p := range j.Payments {
		total += p.Amount
	}
	return total
}

// Setting is a single company-wide configuration row
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:varchar(500);not null"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// SettingFixedCostContribution stores the company default overhead
// contribution percentage applied to new quotations.
const SettingFixedCostContribution = "fixed_cost_contribution_pct"

// DefaultFixedCostContribution is used when the setting row is absent
const DefaultFixedCostContribution = 15.0

// DefaultProfitMarkup is the markup percentage seeded on new quotations
const DefaultProfitMarkup = 25.0

// DefaultPermissionsForRole returns the permission matrix a role implies.
// Used to seed a user's flags when the role is picked; the stored flags
// remain editable afterwards.
func DefaultPermissionsForRole(role UserRole) Permissions {
	full := PermissionSet{View: true, Create: true, Edit: true, Delete: true}
	viewOnly := PermissionSet{View: true}
	switch role {
	case RoleAdmin:
		return Permissions{Jobs: full, Financials: full, Items: full, Users: full}
	case RoleSales:
		return Permissions{
			Jobs:  PermissionSet{View: true, Create: true, Edit: true},
			Items: viewOnly,
		}
	case RoleDesigner, RoleProduction, RoleInstallation:
		return Permissions{
			Jobs:  viewOnly,
			Items: viewOnly,
		}
	default:
		return Permissions{}
	}
}
