package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// validateInput checks a transaction's fields and normalizes its date to a
// calendar day at midnight UTC.
func (s *transactionService) validateInput(in *TransactionInput) error {
	if in.Type != models.TransactionTypeIncome && in.Type != models.TransactionTypeExpense {
		return apperrors.ErrInvalidTransactionType
	}
	if in.Amount.IsNegative() {
		return apperrors.ErrNegativeAmount
	}
	if !in.Currency.Valid() {
		return apperrors.ErrUnsupportedCurrency
	}
	if in.CategoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}

	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	in.Date = utcDate(in.Date)
	return nil
}

// utcDate keeps the calendar date t has in its own zone, at UTC midnight.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// linkedAccount loads the account a transaction settles against, if any.
// The account must hold the transaction's currency.
func (s *transactionService) linkedAccount(accountID *string, currency models.Currency) (*models.Account, error) {
	if accountID == nil || *accountID == "" {
		return nil, nil
	}
	account, err := s.accountService.GetAccountByID(*accountID)
	if err != nil {
		return nil, err
	}
	if account.Currency != currency {
		return nil, apperrors.WithMessage(apperrors.ErrUnsupportedCurrency,
			"transaction currency must match account currency "+string(account.Currency))
	}
	return account, nil
}

// CreateTransaction records a transaction and, when it is linked to an
// account, applies it to the account balance in the same unit of work.
func (s *transactionService) CreateTransaction(in TransactionInput) (*models.Transaction, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}
	account, err := s.linkedAccount(in.AccountID, in.Currency)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		Type:           in.Type,
		Amount:         in.Amount,
		Currency:       in.Currency,
		CategoryID:     in.CategoryID,
		Date:           in.Date,
		IncludeInStats: in.IncludeInStats,
		Description:    in.Description,
		Tags:           in.Tags,
	}
	if account != nil {
		transaction.AccountID = &account.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if account != nil {
			return s.accountService.UpdateAccountBalance(tx, account, transaction.Type, transaction.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions, newest first.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter)

	withCategory := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
	}
	result, err := pagination.Find[models.Transaction](base, page, "date DESC, id DESC", withCategory)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.Currency != nil {
		q = q.Where("currency = ?", *f.Currency)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces a transaction's fields. The old amount is
// reversed from its account and the new one applied, atomically. Closed
// months are not locked; their snapshot simply diverges.
func (s *transactionService) UpdateTransaction(transactionID string, in TransactionInput) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}
	newAccount, err := s.linkedAccount(in.AccountID, in.Currency)
	if err != nil {
		return nil, err
	}
	oldAccount, err := s.linkedAccount(transaction.AccountID, transaction.Currency)
	if err != nil && !errors.Is(err, apperrors.ErrAccountNotFound) {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if oldAccount != nil {
			if err := s.accountService.UpdateAccountBalance(tx, oldAccount, reverseType(transaction.Type), transaction.Amount); err != nil {
				return err
			}
			if newAccount != nil && newAccount.ID == oldAccount.ID {
				newAccount = oldAccount
			}
		}

		transaction.Type = in.Type
		transaction.Amount = in.Amount
		transaction.Currency = in.Currency
		transaction.CategoryID = in.CategoryID
		transaction.AccountID = nil
		if newAccount != nil {
			transaction.AccountID = &newAccount.ID
		}
		transaction.Date = in.Date
		transaction.IncludeInStats = in.IncludeInStats
		transaction.Description = in.Description
		transaction.Tags = in.Tags
		transaction.Category = nil

		if err := tx.Omit("Category", "Account").Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if newAccount != nil {
			return s.accountService.UpdateAccountBalance(tx, newAccount, transaction.Type, transaction.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction deletes a transaction and reverses its account effect
func (s *transactionService) DeleteTransaction(transactionID string) error {
	transaction, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return err
	}
	account, err := s.linkedAccount(transaction.AccountID, transaction.Currency)
	if err != nil && !errors.Is(err, apperrors.ErrAccountNotFound) {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if account != nil {
			return s.accountService.UpdateAccountBalance(tx, account, reverseType(transaction.Type), transaction.Amount)
		}
		return nil
	})
}

func reverseType(t models.TransactionType) models.TransactionType {
	if t == models.TransactionTypeIncome {
		return models.TransactionTypeExpense
	}
	return models.TransactionTypeIncome
}
