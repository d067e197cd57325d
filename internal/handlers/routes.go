package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gagyebu/internal/middleware"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth        *AuthHandler
	Account     *AccountHandler
	Category    *CategoryHandler
	Transaction *TransactionHandler
	BudgetItem  *BudgetItemHandler
	Setting     *SettingHandler
	Month       *MonthHandler
	Audit       *AuditHandler
}

// Health reports that the server is up.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string "Server is up"
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes mounts the API under v1. ErrorHandler renders every error
// a handler or AuthMiddleware records. Everything except login and the
// health check sits behind AuthMiddleware.
func RegisterRoutes(v1 *gin.RouterGroup, h Handlers, authEnabled bool) {
	v1.Use(middleware.ErrorHandler())

	v1.GET("/health", Health)

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(authEnabled))

	categories := protected.Group("/categories")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.GET("/:id", h.Category.GetCategoryByID)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	accounts := protected.Group("/accounts")
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("", h.Account.GetAccounts)
	accounts.GET("/:id", h.Account.GetAccountByID)

	transactions := protected.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransactionByID)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	budgetItems := protected.Group("/budget-items")
	budgetItems.POST("", h.BudgetItem.CreateBudgetItem)
	budgetItems.GET("", h.BudgetItem.GetBudgetItems)
	budgetItems.GET("/:id", h.BudgetItem.GetBudgetItemByID)
	budgetItems.PUT("/:id", h.BudgetItem.UpdateBudgetItem)
	budgetItems.DELETE("/:id", h.BudgetItem.DeleteBudgetItem)
	budgetItems.GET("/:id/obligation", h.BudgetItem.GetObligation)
	budgetItems.GET("/:id/schedule", h.BudgetItem.GetSchedule)

	settings := protected.Group("/settings")
	settings.GET("/exchange-rate", h.Setting.GetExchangeRate)
	settings.PUT("/exchange-rate", h.Setting.SetExchangeRate)

	months := protected.Group("/months")
	months.GET("/:year", h.Month.GetYearOverview)
	months.GET("/:year/:month", h.Month.GetMonthState)
	months.GET("/:year/:month/aggregate", h.Month.AggregateMonth)
	months.POST("/:year/:month/close", h.Month.CloseMonth)
	months.POST("/:year/:month/reopen", h.Month.ReopenMonth)

	closings := protected.Group("/closings")
	closings.GET("", h.Month.ListClosings)
	closings.GET("/:year/:month", h.Month.GetClosing)

	protected.GET("/audit-logs", h.Audit.GetAuditLogs)
}
