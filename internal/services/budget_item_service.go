package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/ledger"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
)

// budgetItemService handles budget item templates.
type budgetItemService struct {
	db *gorm.DB
}

// NewBudgetItemService creates a new BudgetItemServicer.
func NewBudgetItemService(db *gorm.DB) BudgetItemServicer {
	return &budgetItemService{db: db}
}

// build validates in and resolves its category and account links.
func (s *budgetItemService) build(item *models.BudgetItem, in BudgetItemInput) error {
	if in.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "budget item name is required")
	}

	item.Name = in.Name
	item.GroupLabel = in.GroupLabel
	item.BudgetType = in.BudgetType
	item.BaseAmount = in.BaseAmount
	item.Currency = in.Currency
	item.ValidFrom = utcDatePtr(in.ValidFrom)
	item.ValidTo = utcDatePtr(in.ValidTo)
	item.IsActive = in.IsActive
	item.AccountID = nil
	item.Account = nil

	// A bad window is rejected here, where it is configured, as well as
	// wherever the item is later used.
	if err := ledger.ValidateBudgetItem(item); err != nil {
		return err
	}

	if in.AccountID != nil && *in.AccountID != "" {
		var count int64
		if err := s.db.Model(&models.Account{}).Where("id = ?", *in.AccountID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrAccountNotFound
		}
		id := *in.AccountID
		item.AccountID = &id
	}

	item.Categories = nil
	if len(in.CategoryIDs) > 0 {
		var categories []models.Category
		if err := s.db.Where("id IN ?", in.CategoryIDs).Find(&categories).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(categories) != len(uniqueStrings(in.CategoryIDs)) {
			return apperrors.ErrCategoryNotFound
		}
		item.Categories = categories
	}
	return nil
}

// CreateBudgetItem creates a new budget item linked to its categories.
func (s *budgetItemService) CreateBudgetItem(in BudgetItemInput) (*models.BudgetItem, error) {
	item := &models.BudgetItem{}
	if err := s.build(item, in); err != nil {
		return nil, err
	}

	if err := s.db.Omit("Categories.*").Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// GetBudgetItems returns a paginated list of budget items with optional filters.
func (s *budgetItemService) GetBudgetItems(
	page pagination.PageRequest,
	isActive *bool,
	budgetType *models.BudgetType,
) (*pagination.PageResponse[models.BudgetItem], error) {
	base := s.db.Model(&models.BudgetItem{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}
	if budgetType != nil {
		base = base.Where("budget_type = ?", *budgetType)
	}

	result, err := pagination.Find[models.BudgetItem](base, page, "name ASC", preloadCategories)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func preloadCategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories")
}

// GetBudgetItemByID returns a budget item with its categories.
func (s *budgetItemService) GetBudgetItemByID(itemID string) (*models.BudgetItem, error) {
	var item models.BudgetItem
	if err := s.db.Preload("Categories").Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateBudgetItem replaces an item's fields and category links.
func (s *budgetItemService) UpdateBudgetItem(itemID string, in BudgetItemInput) (*models.BudgetItem, error) {
	item, err := s.GetBudgetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if err := s.build(item, in); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "Account").Save(item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		var linkErr error
		links := tx.Model(item).Association("Categories")
		if len(item.Categories) == 0 {
			linkErr = links.Clear()
		} else {
			linkErr = links.Replace(item.Categories)
		}
		if linkErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, linkErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteBudgetItem soft-deletes a budget item and drops its category links.
func (s *budgetItemService) DeleteBudgetItem(itemID string) error {
	item, err := s.GetBudgetItemByID(itemID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(item).Association("Categories").Clear(); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func utcDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := utcDate(*t)
	return &d
}
