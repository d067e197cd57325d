package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/pagination"
	"gagyebu/internal/services"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// AuditQuery holds the optional audit history filters.
type AuditQuery struct {
	Action       string `form:"action"`
	ResourceType string `form:"resource_type"`
	ResourceID   string `form:"resource_id"`
}

// GetAuditLogs handles listing audit entries
// @Summary     List audit log
// @Description Newest first. Month close/reopen entries use resource_type "month" and resource_id "YYYY-MM".
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Param       action        query string false "Action, e.g. CLOSE_MONTH"
// @Param       resource_type query string false "Resource type"
// @Param       resource_id   query string false "Resource id"
// @Param       page          query int    false "Page number"
// @Param       page_size     query int    false "Items per page"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Audit entries"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var q AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.auditService.History(page, services.AuditFilter{
		Action:       q.Action,
		ResourceType: q.ResourceType,
		ResourceID:   q.ResourceID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
