package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gagyebu/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestOwnerPassword is the plaintext behind OwnerPasswordHash.
const TestOwnerPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// OwnerPasswordHash returns a low-cost bcrypt hash of TestOwnerPassword.
func OwnerPasswordHash(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestOwnerPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

// CreateTestAccount creates an active bank account in the given currency.
func CreateTestAccount(t *testing.T, db *gorm.DB, currency models.Currency) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeBank,
		Balance:  decimal.Zero,
		Currency: currency,
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Test Category %d", nextID()),
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction counted in statistics.
func CreateTestTransaction(
	t *testing.T,
	db *gorm.DB,
	categoryID string,
	txType models.TransactionType,
	amount string,
	currency models.Currency,
	date time.Time,
) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Type:           txType,
		Amount:         decimal.RequireFromString(amount),
		Currency:       currency,
		CategoryID:     categoryID,
		Date:           date,
		IncludeInStats: true,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudgetItem creates an active monthly budget item linked to the
// given categories.
func CreateTestBudgetItem(
	t *testing.T,
	db *gorm.DB,
	budgetType models.BudgetType,
	amount string,
	currency models.Currency,
	categories ...*models.Category,
) *models.BudgetItem {
	t.Helper()

	item := &models.BudgetItem{
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		BudgetType: budgetType,
		BaseAmount: decimal.RequireFromString(amount),
		Currency:   currency,
		IsActive:   true,
	}
	for _, c := range categories {
		item.Categories = append(item.Categories, *c)
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test budget item: %v", err)
	}
	return item
}

// CreateTestDistributedBudgetItem creates an active KRW distributed item
// spread over [from, to].
func CreateTestDistributedBudgetItem(
	t *testing.T,
	db *gorm.DB,
	amount string,
	from, to time.Time,
	categories ...*models.Category,
) *models.BudgetItem {
	t.Helper()

	item := &models.BudgetItem{
		Name:       fmt.Sprintf("Test Distributed Budget %d", nextID()),
		BudgetType: models.BudgetTypeDistributed,
		BaseAmount: decimal.RequireFromString(amount),
		Currency:   models.CurrencyKRW,
		ValidFrom:  &from,
		ValidTo:    &to,
		IsActive:   true,
	}
	for _, c := range categories {
		item.Categories = append(item.Categories, *c)
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test budget item: %v", err)
	}
	return item
}
