package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/logger"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
)

// Audit actions for ledger state changes.
const (
	AuditCloseMonth      = "CLOSE_MONTH"
	AuditReopenMonth     = "REOPEN_MONTH"
	AuditSetExchangeRate = "SET_EXCHANGE_RATE"
)

// ResourceMonth is the audit resource type of month close/reopen entries.
// Their resource id is the month key from MonthResourceID.
const ResourceMonth = "month"

// MonthResourceID keys audit entries of one calendar month, e.g. "2024-05".
func MonthResourceID(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. A failed write is logged and swallowed so the
// audited operation, which has already committed, still succeeds.
func (s *auditService) Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(action, changes),
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// History lists audit entries newest first.
func (s *auditService) History(page pagination.PageRequest, filter AuditFilter) (*pagination.PageResponse[models.AuditLog], error) {
	base := s.db.Model(&models.AuditLog{})
	if filter.Action != "" {
		base = base.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		base = base.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		base = base.Where("resource_id = ?", filter.ResourceID)
	}

	// UUIDv7 ids sort by creation time.
	result, err := pagination.Find[models.AuditLog](base, page, "created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func encodeChanges(action string, changes map[string]interface{}) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
