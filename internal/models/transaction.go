package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single categorized income or expense.
type Transaction struct {
	Base
	Type           TransactionType `gorm:"not null;index" json:"type"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency       Currency        `gorm:"not null" json:"currency"`
	CategoryID     string          `gorm:"type:uuid;not null;index" json:"category_id"`
	AccountID      *string         `gorm:"type:uuid" json:"account_id,omitempty"`
	Date           time.Time       `gorm:"not null;index" json:"date"`
	IncludeInStats bool            `gorm:"not null" json:"include_in_stats"`
	Description    string          `json:"description"`
	Tags           string          `json:"tags,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Account  *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
