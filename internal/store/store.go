// Package store is the data-access collaborator of the month engine. It
// reads transactions, budget items and settings, and writes closings
// atomically.
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
)

// Store defines the persistence operations the ledger service depends on.
type Store interface {
	// QueryTransactions returns transactions dated in [from, to), with their
	// category preloaded (soft-deleted categories included).
	QueryTransactions(from, to time.Time, includeInStatsOnly bool) ([]models.Transaction, error)
	// QueryBudgetItems returns budget items with their linked categories.
	QueryBudgetItems(activeOnly bool) ([]models.BudgetItem, error)
	// GetSetting returns the value of key and whether it exists.
	GetSetting(key string) (string, bool, error)
	PutSetting(key, value string) error
	// GetClosing returns the closing of a month with its details.
	GetClosing(year, month int) (*models.MonthlyClosing, error)
	ListClosings(page pagination.PageRequest) (*pagination.PageResponse[models.MonthlyClosing], error)
	ClosingsForYear(year int) ([]models.MonthlyClosing, error)
	// WriteClosing persists header and details as one unit.
	WriteClosing(header *models.MonthlyClosing, details []models.MonthlyClosingDetail) error
	// DeleteClosing removes a closing and its details as one unit.
	DeleteClosing(id string) error
}

type gormStore struct {
	db        *gorm.DB
	batchSize int
}

// New returns a gorm-backed Store. batchSize caps the rows per insert
// statement when writing closing details.
func New(db *gorm.DB, batchSize int) Store {
	if batchSize < 1 {
		batchSize = 100
	}
	return &gormStore{db: db, batchSize: batchSize}
}

func (s *gormStore) QueryTransactions(from, to time.Time, includeInStatsOnly bool) ([]models.Transaction, error) {
	q := s.db.Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("date >= ? AND date < ?", from, to)
	if includeInStatsOnly {
		q = q.Where("include_in_stats = ?", true)
	}

	var txs []models.Transaction
	if err := q.Order("date ASC, id ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

func (s *gormStore) QueryBudgetItems(activeOnly bool) ([]models.BudgetItem, error) {
	q := s.db.Preload("Categories")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var items []models.BudgetItem
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

func (s *gormStore) GetSetting(key string) (string, bool, error) {
	var setting models.Setting
	if err := s.db.Where(&models.Setting{Key: key}).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return setting.Value, true, nil
}

func (s *gormStore) PutSetting(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *gormStore) GetClosing(year, month int) (*models.MonthlyClosing, error) {
	var closing models.MonthlyClosing
	err := s.db.Preload("Details", func(db *gorm.DB) *gorm.DB {
		return db.Order("type ASC, amount DESC, category_id ASC")
	}).Where("year = ? AND month = ?", year, month).First(&closing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClosingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &closing, nil
}

func (s *gormStore) ListClosings(page pagination.PageRequest) (*pagination.PageResponse[models.MonthlyClosing], error) {
	result, err := pagination.Find[models.MonthlyClosing](s.db.Model(&models.MonthlyClosing{}), page, "year DESC, month DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func (s *gormStore) ClosingsForYear(year int) ([]models.MonthlyClosing, error) {
	var closings []models.MonthlyClosing
	if err := s.db.Preload("Details").Where("year = ?", year).Order("month ASC").Find(&closings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return closings, nil
}

func (s *gormStore) WriteClosing(header *models.MonthlyClosing, details []models.MonthlyClosingDetail) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(header).Error; err != nil {
			return err
		}
		if len(details) == 0 {
			return nil
		}
		for i := range details {
			details[i].ClosingID = header.ID
		}
		return tx.CreateInBatches(details, s.batchSize).Error
	})
	if err != nil {
		header.ID = ""
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrMonthAlreadyClosed
		}
		return apperrors.Wrap(apperrors.ErrClosingWriteFailed, err)
	}
	header.Details = details
	return nil
}

func (s *gormStore) DeleteClosing(id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("closing_id = ?", id).Delete(&models.MonthlyClosingDetail{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.MonthlyClosing{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrClosingNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrClosingNotFound) {
			return apperrors.ErrClosingNotFound
		}
		return apperrors.Wrap(apperrors.ErrClosingWriteFailed, err)
	}
	return nil
}
