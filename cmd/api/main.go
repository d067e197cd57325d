package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gagyebu/internal/config"
	"gagyebu/internal/database"
	"gagyebu/internal/handlers"
	"gagyebu/internal/logger"
	"gagyebu/internal/middleware"
	"gagyebu/internal/services"
	"gagyebu/internal/store"
	"gagyebu/internal/validator"

	_ "gagyebu/internal/docs" // Import swagger docs
)

// @title           Gagyebu API
// @version         1.0
// @description     Gagyebu is a household ledger: KRW/AED accounts, categorized transactions, budget items and month-end closings.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration first so the logger can pick up LOG_FILE.
	appConfig, err := config.Load()
	if err != nil {
		logger.Init(os.Getenv("ENV"))
		logger.Get().Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitWithOptions(appConfig.Env, logger.Options{FilePath: appConfig.LogFile})
	defer logger.Sync()

	if err := run(appConfig); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(appConfig *config.Config) error {
	log := logger.Get()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	ledgerStore := store.New(db, appConfig.ClosingBatchSize)
	authService := services.NewAuthService(appConfig.OwnerPasswordHash)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService)
	budgetItemService := services.NewBudgetItemService(db)
	settingService := services.NewSettingService(ledgerStore, appConfig.DefaultAEDToKRWRate)
	ledgerService := services.NewLedgerService(ledgerStore, settingService, budgetItemService)
	auditService := services.NewAuditService(db)

	if !authService.Enabled() {
		log.Warn("OWNER_PASSWORD_HASH is not set; API authentication is disabled")
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Account:     handlers.NewAccountHandler(accountService, auditService),
		Category:    handlers.NewCategoryHandler(categoryService, auditService),
		Transaction: handlers.NewTransactionHandler(transactionService, auditService),
		BudgetItem:  handlers.NewBudgetItemHandler(budgetItemService, ledgerService, auditService),
		Setting:     handlers.NewSettingHandler(settingService, auditService),
		Month:       handlers.NewMonthHandler(ledgerService, auditService),
		Audit:       handlers.NewAuditHandler(auditService),
	}, authService.Enabled())

	log.Infof("Starting Gagyebu server on port %s (db driver %s)", appConfig.Port, dbConfig.Driver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
