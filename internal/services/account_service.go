package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account. The opening balance is stored as-is
// and does not produce a transaction, so it never shows up in statistics.
func (s *accountService) CreateAccount(
	name string,
	accountType models.AccountType,
	institution, description string,
	currency models.Currency,
	initialBalance decimal.Decimal,
) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if currency == "" {
		currency = models.ReportingCurrency
	}
	if !currency.Valid() {
		return nil, apperrors.ErrUnsupportedCurrency
	}

	account := &models.Account{
		Name:        name,
		Type:        accountType,
		Institution: institution,
		Description: description,
		Balance:     initialBalance,
		Currency:    currency,
		IsActive:    true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetAccounts retrieves a paginated list of active accounts.
func (s *accountService) GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	base := s.db.Model(&models.Account{}).Where("is_active = ?", true)
	result, err := pagination.Find[models.Account](base, page, "currency ASC, name ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetAccountByID retrieves an active account by ID
func (s *accountService) GetAccountByID(accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND is_active = ?", accountID, true).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccountBalance applies a transaction to an account balance.
// Liabilities track the amount owed: expenses increase it, income pays it down.
func (s *accountService) UpdateAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount decimal.Decimal) error {
	switch transactionType {
	case models.TransactionTypeIncome:
		if account.Type == models.AccountTypeLiability {
			account.Balance = account.Balance.Sub(amount)
		} else {
			account.Balance = account.Balance.Add(amount)
		}
	case models.TransactionTypeExpense:
		if account.Type == models.AccountTypeLiability {
			account.Balance = account.Balance.Add(amount)
		} else {
			account.Balance = account.Balance.Sub(amount)
		}
	default:
		return apperrors.ErrInvalidTransactionType
	}

	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
