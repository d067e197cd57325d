package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gagyebu/internal/ledger"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
)

// AuthServicer verifies the single owner's password.
type AuthServicer interface {
	Enabled() bool
	VerifyOwnerPassword(password string) error
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(name string, accountType models.AccountType, institution, description string, currency models.Currency, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(accountID string) (*models.Account, error)
	UpdateAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount decimal.Decimal) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, description, color string, sortOrder int) (*models.Category, error)
	GetCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID string, name, description, color string, sortOrder *int) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
	Currency   *models.Currency
}

// TransactionInput carries the editable fields of a transaction.
type TransactionInput struct {
	Type           models.TransactionType
	Amount         decimal.Decimal
	Currency       models.Currency
	CategoryID     string
	AccountID      *string
	Date           time.Time
	IncludeInStats bool
	Description    string
	Tags           string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(in TransactionInput) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	UpdateTransaction(transactionID string, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
}

// BudgetItemInput carries the editable fields of a budget item.
type BudgetItemInput struct {
	Name        string
	GroupLabel  *string
	BudgetType  models.BudgetType
	BaseAmount  decimal.Decimal
	Currency    models.Currency
	ValidFrom   *time.Time
	ValidTo     *time.Time
	IsActive    bool
	AccountID   *string
	CategoryIDs []string
}

// BudgetItemServicer defines the contract for budget item templates.
type BudgetItemServicer interface {
	CreateBudgetItem(in BudgetItemInput) (*models.BudgetItem, error)
	GetBudgetItems(page pagination.PageRequest, isActive *bool, budgetType *models.BudgetType) (*pagination.PageResponse[models.BudgetItem], error)
	GetBudgetItemByID(itemID string) (*models.BudgetItem, error)
	UpdateBudgetItem(itemID string, in BudgetItemInput) (*models.BudgetItem, error)
	DeleteBudgetItem(itemID string) error
}

// SettingServicer reads and writes user configuration.
type SettingServicer interface {
	// GetExchangeRate returns the configured AED->KRW rate, falling back to
	// the process default when none is stored. A stored value that is not a
	// positive number is an error, never coerced.
	GetExchangeRate() (ledger.ExchangeRate, error)
	SetExchangeRate(rate decimal.Decimal) (ledger.ExchangeRate, error)
}

// MonthStatus is the closing state of a month. A closed_diverged month is
// closed but its live data no longer matches the snapshot.
type MonthStatus string

const (
	MonthStatusOpen           MonthStatus = "open"
	MonthStatusClosed         MonthStatus = "closed"
	MonthStatusClosedDiverged MonthStatus = "closed_diverged"
)

// MonthState is a month's status with its live aggregation and, when
// closed, the stored snapshot.
type MonthState struct {
	Year    int                    `json:"year"`
	Month   int                    `json:"month"`
	Status  MonthStatus            `json:"status"`
	Live    *ledger.Aggregation    `json:"live"`
	Closing *models.MonthlyClosing `json:"closing,omitempty"`
}

// YearOverview lists the state of every month of a year.
type YearOverview struct {
	Year   int          `json:"year"`
	Months []MonthState `json:"months"`
}

// Obligation is what a budget item contributes to one month.
type Obligation struct {
	BudgetItemID string          `json:"budget_item_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Applicable   bool            `json:"applicable"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     models.Currency `json:"currency"`

	// NormalizedAmount is Amount in the reporting currency.
	NormalizedAmount decimal.Decimal `json:"normalized_amount"`
}

// LedgerServicer computes budgets and aggregates and drives month closing.
type LedgerServicer interface {
	ComputeMonthlyObligation(itemID string, year, month int) (*Obligation, error)
	ObligationSchedule(itemID string, year int) ([]Obligation, error)
	AggregateMonth(year, month int) (*ledger.Aggregation, error)
	CloseMonth(year, month int, memo *string) (*models.MonthlyClosing, error)
	ReopenMonth(year, month int) error
	GetMonthState(year, month int) (*MonthState, error)
	GetYearOverview(year int) (*YearOverview, error)
	GetClosing(year, month int) (*models.MonthlyClosing, error)
	ListClosings(page pagination.PageRequest) (*pagination.PageResponse[models.MonthlyClosing], error)
}

// AuditFilter narrows an audit history query. Empty fields match anything.
type AuditFilter struct {
	Action       string
	ResourceType string
	ResourceID   string
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	History(page pagination.PageRequest, filter AuditFilter) (*pagination.PageResponse[models.AuditLog], error)
}
