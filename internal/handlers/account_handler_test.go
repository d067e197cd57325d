package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
	"gagyebu/internal/services"
)

// --- mock account service ---

type mockAccountService struct {
	createAccountFn  func(name string, accountType models.AccountType, institution, description string, currency models.Currency, initialBalance decimal.Decimal) (*models.Account, error)
	getAccountsFn    func(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	getAccountByIDFn func(accountID string) (*models.Account, error)
}

func (m *mockAccountService) CreateAccount(name string, accountType models.AccountType, institution, description string, currency models.Currency, initialBalance decimal.Decimal) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(name, accountType, institution, description, currency, initialBalance)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	if m.getAccountsFn != nil {
		return m.getAccountsFn(page)
	}
	resp := pagination.NewPageResponse([]models.Account{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAccountService) GetAccountByID(accountID string) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccountBalance(_ *gorm.DB, _ *models.Account, _ models.TransactionType, _ decimal.Decimal) error {
	return nil
}

var _ services.AccountServicer = (*mockAccountService)(nil)

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := newTestRouter()
	r.POST("/accounts", handler.CreateAccount)
	r.GET("/accounts", handler.GetAccounts)
	r.GET("/accounts/:id", handler.GetAccountByID)
	return r
}

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("returns 201 and passes the decimal balance", func(t *testing.T) {
		var gotBalance decimal.Decimal
		var gotCurrency models.Currency
		svc := &mockAccountService{
			createAccountFn: func(name string, typ models.AccountType, _, _ string, cur models.Currency, bal decimal.Decimal) (*models.Account, error) {
				gotBalance, gotCurrency = bal, cur
				return &models.Account{Base: models.Base{ID: testID}, Name: name, Type: typ, Currency: cur, Balance: bal}, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Emirates NBD","type":"bank","currency":"AED","initial_balance":"1234.50"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotBalance.Equal(decimal.RequireFromString("1234.5")) {
			t.Errorf("expected 1234.5, got %s", gotBalance)
		}
		if gotCurrency != models.CurrencyAED {
			t.Errorf("expected AED, got %s", gotCurrency)
		}
	})

	invalid := []struct {
		name string
		body string
	}{
		{"unsupported currency", `{"name":"Chase","type":"bank","currency":"USD"}`},
		{"unknown type", `{"name":"Chase","type":"credit_card","currency":"KRW"}`},
		{"negative balance", `{"name":"Wallet","type":"cash","currency":"KRW","initial_balance":-1}`},
		{"missing name", `{"type":"cash","currency":"KRW"}`},
	}
	for _, tt := range invalid {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupAccountRouter(NewAccountHandler(&mockAccountService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/accounts", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAccountHandler_GetAccounts(t *testing.T) {
	t.Run("binds pagination", func(t *testing.T) {
		var gotPage pagination.PageRequest
		svc := &mockAccountService{
			getAccountsFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
				gotPage = page
				resp := pagination.NewPageResponse([]models.Account{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/accounts?page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("expected page 2 size 5, got %+v", gotPage)
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockAccountService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/accounts?page_size=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_GetAccountByID(t *testing.T) {
	svc := &mockAccountService{
		getAccountByIDFn: func(string) (*models.Account, error) {
			return nil, apperrors.ErrAccountNotFound
		},
	}
	r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/accounts/"+testID, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
}
