package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gagyebu/internal/handlers"
	"gagyebu/internal/logger"
	"gagyebu/internal/middleware"
	"gagyebu/internal/services"
	"gagyebu/internal/store"
	"gagyebu/internal/testutil"
	"gagyebu/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. A non-empty passwordHash turns authentication on.
func setupApp(t *testing.T, passwordHash string) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)

	// Services
	ledgerStore := store.New(db, 2)
	authService := services.NewAuthService(passwordHash)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService)
	budgetItemService := services.NewBudgetItemService(db)
	settingService := services.NewSettingService(ledgerStore, decimal.NewFromInt(385))
	ledgerService := services.NewLedgerService(ledgerStore, settingService, budgetItemService)
	auditService := services.NewAuditService(db)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())

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

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// mustStatus fails the test unless rec has the wanted status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// errorCode returns the error code of an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// createCategory creates a category and returns its id.
func (app *testApp) createCategory(t *testing.T, name, categoryType, token string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories",
		fmt.Sprintf(`{"name":%q,"type":%q}`, name, categoryType), token)
	mustStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

// createTransaction records a transaction and returns its id.
func (app *testApp) createTransaction(t *testing.T, txType, amount, currency, categoryID, date, token string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"type":%q,"amount":%q,"currency":%q,"category_id":%q,"date":%q}`,
			txType, amount, currency, categoryID, date), token)
	mustStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)
}

// assertAmount compares a JSON decimal string with want.
func assertAmount(t *testing.T, field string, got interface{}, want string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Fatalf("%s: expected decimal string, got %v", field, got)
	}
	if !decimal.RequireFromString(s).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, s)
	}
}
