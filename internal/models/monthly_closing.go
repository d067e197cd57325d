package models

import (
	"time"

	"gagyebu/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyClosing is an immutable snapshot of one month's aggregated totals.
// No Base embed: it is never updated or soft-deleted, only created by a
// close and hard-deleted by a reopen.
type MonthlyClosing struct {
	ID           string              `gorm:"type:uuid;primaryKey" json:"id"`
	Year         int                 `gorm:"not null;uniqueIndex:idx_closing_period" json:"year"`
	Month        int                 `gorm:"not null;uniqueIndex:idx_closing_period" json:"month"`
	TotalIncome  decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"total_income"`
	TotalExpense decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"total_expense"`
	TotalBudget  decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"total_budget"`
	NetAmount    decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"net_amount"`
	ExchangeRate decimal.Decimal     `gorm:"type:decimal(20,8);not null" json:"exchange_rate"`
	Memo         *string             `json:"memo,omitempty"`
	ClosedAt     time.Time           `gorm:"not null" json:"closed_at"`

	Details []MonthlyClosingDetail `gorm:"foreignKey:ClosingID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (m *MonthlyClosing) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New()
	}
	return nil
}

// MonthlyClosingDetail is one category row of a closing. Name and amounts
// are copied so later category renames or deletes do not change history.
type MonthlyClosingDetail struct {
	ID           string              `gorm:"type:uuid;primaryKey" json:"id"`
	ClosingID    string              `gorm:"type:uuid;not null;index" json:"closing_id"`
	CategoryID   string              `gorm:"type:uuid;not null" json:"category_id"`
	CategoryName string              `gorm:"not null" json:"category_name"`
	Type         TransactionType     `gorm:"not null" json:"type"`
	Amount       decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"amount"`
	BudgetAmount decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"budget_amount"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (d *MonthlyClosingDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New()
	}
	return nil
}
