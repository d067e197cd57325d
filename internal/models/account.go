package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeBank      AccountType = "bank"
	AccountTypeCash      AccountType = "cash"
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
)

// Account is a bank account, asset or liability held in KRW or AED.
type Account struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	Type        AccountType     `gorm:"not null" json:"type"`
	Institution string          `json:"institution"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"balance"`
	Currency    Currency        `gorm:"not null" json:"currency"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
}
