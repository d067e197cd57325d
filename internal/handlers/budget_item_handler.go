package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
	"gagyebu/internal/services"
)

// BudgetItemHandler handles budget item templates and their obligations.
type BudgetItemHandler struct {
	budgetItemService services.BudgetItemServicer
	ledgerService     services.LedgerServicer
	auditService      services.AuditServicer
}

// NewBudgetItemHandler creates a new BudgetItemHandler.
func NewBudgetItemHandler(
	budgetItemService services.BudgetItemServicer,
	ledgerService services.LedgerServicer,
	auditService services.AuditServicer,
) *BudgetItemHandler {
	return &BudgetItemHandler{
		budgetItemService: budgetItemService,
		ledgerService:     ledgerService,
		auditService:      auditService,
	}
}

// BudgetItemRequest represents the request payload for creating or replacing
// a budget item. is_active defaults to true.
type BudgetItemRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=100"`
	GroupLabel  *string           `json:"group_label" binding:"omitempty,max=100"`
	BudgetType  models.BudgetType `json:"budget_type" binding:"required,budget_type"`
	BaseAmount  decimal.Decimal   `json:"base_amount" binding:"decimal_nonneg"`
	Currency    models.Currency   `json:"currency" binding:"required,currency"`
	ValidFrom   *string           `json:"valid_from"`
	ValidTo     *string           `json:"valid_to"`
	IsActive    *bool             `json:"is_active"`
	AccountID   *string           `json:"account_id" binding:"omitempty,uuid"`
	CategoryIDs []string          `json:"category_ids" binding:"omitempty,dive,uuid"`
}

func (r *BudgetItemRequest) input() (services.BudgetItemInput, error) {
	from, err := parseOptionalDate("valid_from", r.ValidFrom)
	if err != nil {
		return services.BudgetItemInput{}, err
	}
	to, err := parseOptionalDate("valid_to", r.ValidTo)
	if err != nil {
		return services.BudgetItemInput{}, err
	}
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return services.BudgetItemInput{
		Name:        r.Name,
		GroupLabel:  r.GroupLabel,
		BudgetType:  r.BudgetType,
		BaseAmount:  r.BaseAmount,
		Currency:    r.Currency,
		ValidFrom:   from,
		ValidTo:     to,
		IsActive:    isActive,
		AccountID:   r.AccountID,
		CategoryIDs: r.CategoryIDs,
	}, nil
}

// CreateBudgetItem handles the creation of a new budget item
// @Summary     Create a budget item
// @Description Create a fixed_monthly, variable_monthly or distributed budget item. Distributed items need valid_from <= valid_to.
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetItemRequest true "Budget item details"
// @Success     201 {object} models.BudgetItem "Budget item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category or account not found"
// @Failure     422 {object} ErrorResponse "Invalid budget window"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-items [post]
func (h *BudgetItemHandler) CreateBudgetItem(c *gin.Context) {
	var req BudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.budgetItemService.CreateBudgetItem(in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_BUDGET_ITEM", "budget_item", item.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "budget_type": req.BudgetType, "base_amount": req.BaseAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"budget_item": item})
}

// GetBudgetItems handles listing budget items
// @Summary     List budget items
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       is_active   query bool   false "Filter by active flag"
// @Param       budget_type query string false "Filter by budget type"
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.BudgetItem] "List of budget items"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-items [get]
func (h *BudgetItemHandler) GetBudgetItems(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_active"))
			return
		}
		isActive = &b
	}

	var budgetType *models.BudgetType
	if v := c.Query("budget_type"); v != "" {
		t := models.BudgetType(v)
		if !t.Valid() {
			respondWithError(c, apperrors.ErrInvalidBudgetType)
			return
		}
		budgetType = &t
	}

	result, err := h.budgetItemService.GetBudgetItems(page, isActive, budgetType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetItemByID handles the retrieval of a specific budget item
// @Summary     Get budget item by ID
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget item ID"
// @Success     200 {object} models.BudgetItem "Budget item details"
// @Failure     400 {object} ErrorResponse "Invalid budget item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Router      /budget-items/{id} [get]
func (h *BudgetItemHandler) GetBudgetItemByID(c *gin.Context) {
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.budgetItemService.GetBudgetItemByID(itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_item": item})
}

// UpdateBudgetItem handles replacing a budget item
// @Summary     Update budget item
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget item ID"
// @Param       request body BudgetItemRequest true "Budget item details"
// @Success     200 {object} models.BudgetItem "Updated budget item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Failure     422 {object} ErrorResponse "Invalid budget window"
// @Router      /budget-items/{id} [put]
func (h *BudgetItemHandler) UpdateBudgetItem(c *gin.Context) {
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.budgetItemService.UpdateBudgetItem(itemID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_BUDGET_ITEM", "budget_item", itemID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "budget_type": req.BudgetType, "base_amount": req.BaseAmount.String()})

	c.JSON(http.StatusOK, gin.H{"budget_item": item})
}

// DeleteBudgetItem handles deleting a budget item
// @Summary     Delete budget item
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget item ID"
// @Success     200 {object} MessageResponse "Budget item deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Router      /budget-items/{id} [delete]
func (h *BudgetItemHandler) DeleteBudgetItem(c *gin.Context) {
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetItemService.DeleteBudgetItem(itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_BUDGET_ITEM", "budget_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget item deleted successfully"})
}

// GetObligation handles computing one month's obligation for a budget item
// @Summary     Monthly obligation
// @Description What the budget item contributes to the given month, in its own and the reporting currency
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true "Budget item ID"
// @Param       year  query int    true "Year"
// @Param       month query int    true "Month (1-12)"
// @Success     200 {object} services.Obligation "Obligation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Failure     422 {object} ErrorResponse "Invalid budget window or exchange rate"
// @Router      /budget-items/{id}/obligation [get]
func (h *BudgetItemHandler) GetObligation(c *gin.Context) {
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidMonth)
		return
	}

	obligation, err := h.ledgerService.ComputeMonthlyObligation(itemID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"obligation": obligation})
}

// GetSchedule handles computing a budget item's obligations for a whole year
// @Summary     Obligation schedule
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true "Budget item ID"
// @Param       year query int    true "Year"
// @Success     200 {array}  services.Obligation "Twelve monthly obligations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Failure     422 {object} ErrorResponse "Invalid budget window or exchange rate"
// @Router      /budget-items/{id}/schedule [get]
func (h *BudgetItemHandler) GetSchedule(c *gin.Context) {
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year"))
		return
	}

	schedule, err := h.ledgerService.ObligationSchedule(itemID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}
