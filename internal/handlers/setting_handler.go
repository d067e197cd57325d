package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
	"gagyebu/internal/services"
)

// SettingHandler exposes user configuration.
type SettingHandler struct {
	settingService services.SettingServicer
	auditService   services.AuditServicer
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService services.SettingServicer, auditService services.AuditServicer) *SettingHandler {
	return &SettingHandler{settingService: settingService, auditService: auditService}
}

// ExchangeRateRequest represents the request payload for setting the rate.
// The positive check is left to the service so a bad rate reports
// INVALID_EXCHANGE_RATE.
type ExchangeRateRequest struct {
	AEDToKRW decimal.Decimal `json:"aed_to_krw"`
}

// ExchangeRateResponse represents the configured exchange rate.
type ExchangeRateResponse struct {
	AEDToKRW decimal.Decimal `json:"aed_to_krw"`
}

// GetExchangeRate handles reading the AED->KRW rate
// @Summary     Get exchange rate
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ExchangeRateResponse "Current rate"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Stored rate is invalid"
// @Router      /settings/exchange-rate [get]
func (h *SettingHandler) GetExchangeRate(c *gin.Context) {
	rate, err := h.settingService.GetExchangeRate()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"aed_to_krw": rate.AEDToKRW()})
}

// SetExchangeRate handles replacing the AED->KRW rate
// @Summary     Set exchange rate
// @Description Replace the single AED->KRW rate used by every later computation. Existing closings keep the rate they were taken with.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExchangeRateRequest true "New rate"
// @Success     200 {object} ExchangeRateResponse "Saved rate"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Rate must be positive"
// @Router      /settings/exchange-rate [put]
func (h *SettingHandler) SetExchangeRate(c *gin.Context) {
	var req ExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rate, err := h.settingService.SetExchangeRate(req.AEDToKRW)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditSetExchangeRate, "setting", models.SettingAEDToKRWRate, c.ClientIP(),
		map[string]interface{}{"aed_to_krw": rate.AEDToKRW().String()})

	c.JSON(http.StatusOK, gin.H{"aed_to_krw": rate.AEDToKRW()})
}
