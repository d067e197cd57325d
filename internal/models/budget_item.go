package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetType decides how a budget item turns into monthly obligations.
type BudgetType string

const (
	BudgetTypeFixedMonthly    BudgetType = "fixed_monthly"
	BudgetTypeVariableMonthly BudgetType = "variable_monthly"
	BudgetTypeDistributed     BudgetType = "distributed"
)

// Valid reports whether t is a known budget type.
func (t BudgetType) Valid() bool {
	switch t {
	case BudgetTypeFixedMonthly, BudgetTypeVariableMonthly, BudgetTypeDistributed:
		return true
	}
	return false
}

// BudgetItem is a budget template. Distributed items spread BaseAmount over
// the whole months of [ValidFrom, ValidTo].
type BudgetItem struct {
	Base
	Name       string          `gorm:"not null" json:"name"`
	GroupLabel *string         `json:"group_label,omitempty"`
	BudgetType BudgetType      `gorm:"not null" json:"budget_type"`
	BaseAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"base_amount"`
	Currency   Currency        `gorm:"not null" json:"currency"`
	ValidFrom  *time.Time      `json:"valid_from,omitempty"`
	ValidTo    *time.Time      `json:"valid_to,omitempty"`
	IsActive   bool            `gorm:"not null;index" json:"is_active"`
	AccountID  *string         `gorm:"type:uuid" json:"account_id,omitempty"`

	// Relationships
	Categories []Category `gorm:"many2many:budget_item_categories" json:"categories"`
	Account    *Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// CategoryIDs returns the ids of the linked categories.
func (b *BudgetItem) CategoryIDs() []string {
	ids := make([]string, 0, len(b.Categories))
	for i := range b.Categories {
		ids = append(ids, b.Categories[i].ID)
	}
	return ids
}
