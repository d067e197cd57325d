package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/pagination"
	"gagyebu/internal/services"
)

// MonthHandler exposes monthly aggregation and the closing workflow.
type MonthHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewMonthHandler creates a new MonthHandler.
func NewMonthHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *MonthHandler {
	return &MonthHandler{ledgerService: ledgerService, auditService: auditService}
}

// CloseMonthRequest represents the optional body of a close request.
type CloseMonthRequest struct {
	Memo *string `json:"memo" binding:"omitempty,max=1000"`
}

// GetYearOverview handles listing the state of every month of a year
// @Summary     Year overview
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Year"
// @Success     200 {object} services.YearOverview "Twelve month states"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid configuration"
// @Router      /months/{year} [get]
func (h *MonthHandler) GetYearOverview(c *gin.Context) {
	year, err := parseYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.ledgerService.GetYearOverview(year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetMonthState handles reading a month's closing state
// @Summary     Month state
// @Description open, closed, or closed_diverged when live data no longer matches the snapshot
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       year  path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} services.MonthState "Month state"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid configuration"
// @Router      /months/{year}/{month} [get]
func (h *MonthHandler) GetMonthState(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	state, err := h.ledgerService.GetMonthState(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// AggregateMonth handles computing a month's live totals
// @Summary     Aggregate month
// @Description Live totals from current data, ignoring any stored closing
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       year  path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} ledger.Aggregation "Live aggregation"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid configuration"
// @Router      /months/{year}/{month}/aggregate [get]
func (h *MonthHandler) AggregateMonth(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	agg, err := h.ledgerService.AggregateMonth(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"aggregation": agg})
}

// CloseMonth handles closing a month
// @Summary     Close month
// @Description Snapshot the month's totals. The month must be open and have income or expense.
// @Tags        months
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year    path int               true  "Year"
// @Param       month   path int               true  "Month (1-12)"
// @Param       request body CloseMonthRequest false "Optional memo"
// @Success     201 {object} models.MonthlyClosing "Closing created"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Month already closed or empty"
// @Failure     422 {object} ErrorResponse "Invalid configuration"
// @Failure     500 {object} ErrorResponse "Closing could not be saved"
// @Router      /months/{year}/{month}/close [post]
func (h *MonthHandler) CloseMonth(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CloseMonthRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	closing, err := h.ledgerService.CloseMonth(year, month, req.Memo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditCloseMonth, services.ResourceMonth, services.MonthResourceID(year, month), c.ClientIP(),
		map[string]interface{}{
			"closing_id":    closing.ID,
			"total_income":  closing.TotalIncome.String(),
			"total_expense": closing.TotalExpense.String(),
			"exchange_rate": closing.ExchangeRate.String(),
		})

	c.JSON(http.StatusCreated, gin.H{"closing": closing})
}

// ReopenMonth handles reopening a closed month
// @Summary     Reopen month
// @Description Delete the month's snapshot. Transactions are untouched.
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       year  path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} MessageResponse "Month reopened"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Month is not closed"
// @Failure     500 {object} ErrorResponse "Closing could not be removed"
// @Router      /months/{year}/{month}/reopen [post]
func (h *MonthHandler) ReopenMonth(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.ReopenMonth(year, month); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditReopenMonth, services.ResourceMonth, services.MonthResourceID(year, month), c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Month reopened successfully"})
}

// ListClosings handles listing stored closings
// @Summary     List closings
// @Description Stored closings, newest period first
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.MonthlyClosing] "List of closings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /closings [get]
func (h *MonthHandler) ListClosings(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledgerService.ListClosings(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetClosing handles reading one stored closing with its details
// @Summary     Get closing
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       year  path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} models.MonthlyClosing "Closing with details"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Closing not found"
// @Router      /closings/{year}/{month} [get]
func (h *MonthHandler) GetClosing(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	closing, err := h.ledgerService.GetClosing(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"closing": closing})
}
