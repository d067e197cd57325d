package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
	"gagyebu/internal/services"
)

// --- mock budget item service ---

type mockBudgetItemService struct {
	createBudgetItemFn  func(in services.BudgetItemInput) (*models.BudgetItem, error)
	getBudgetItemsFn    func(page pagination.PageRequest, isActive *bool, budgetType *models.BudgetType) (*pagination.PageResponse[models.BudgetItem], error)
	getBudgetItemByIDFn func(itemID string) (*models.BudgetItem, error)
	updateBudgetItemFn  func(itemID string, in services.BudgetItemInput) (*models.BudgetItem, error)
	deleteBudgetItemFn  func(itemID string) error
}

func (m *mockBudgetItemService) CreateBudgetItem(in services.BudgetItemInput) (*models.BudgetItem, error) {
	if m.createBudgetItemFn != nil {
		return m.createBudgetItemFn(in)
	}
	return &models.BudgetItem{}, nil
}

func (m *mockBudgetItemService) GetBudgetItems(page pagination.PageRequest, isActive *bool, budgetType *models.BudgetType) (*pagination.PageResponse[models.BudgetItem], error) {
	if m.getBudgetItemsFn != nil {
		return m.getBudgetItemsFn(page, isActive, budgetType)
	}
	resp := pagination.NewPageResponse([]models.BudgetItem{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetItemService) GetBudgetItemByID(itemID string) (*models.BudgetItem, error) {
	if m.getBudgetItemByIDFn != nil {
		return m.getBudgetItemByIDFn(itemID)
	}
	return &models.BudgetItem{}, nil
}

func (m *mockBudgetItemService) UpdateBudgetItem(itemID string, in services.BudgetItemInput) (*models.BudgetItem, error) {
	if m.updateBudgetItemFn != nil {
		return m.updateBudgetItemFn(itemID, in)
	}
	return &models.BudgetItem{}, nil
}

func (m *mockBudgetItemService) DeleteBudgetItem(itemID string) error {
	if m.deleteBudgetItemFn != nil {
		return m.deleteBudgetItemFn(itemID)
	}
	return nil
}

var _ services.BudgetItemServicer = (*mockBudgetItemService)(nil)

func setupBudgetItemRouter(handler *BudgetItemHandler) *gin.Engine {
	r := newTestRouter()
	r.POST("/budget-items", handler.CreateBudgetItem)
	r.GET("/budget-items", handler.GetBudgetItems)
	r.GET("/budget-items/:id", handler.GetBudgetItemByID)
	r.PUT("/budget-items/:id", handler.UpdateBudgetItem)
	r.DELETE("/budget-items/:id", handler.DeleteBudgetItem)
	r.GET("/budget-items/:id/obligation", handler.GetObligation)
	r.GET("/budget-items/:id/schedule", handler.GetSchedule)
	return r
}

func TestBudgetItemHandler_CreateBudgetItem(t *testing.T) {
	t.Run("returns 201 for a distributed item", func(t *testing.T) {
		var got services.BudgetItemInput
		svc := &mockBudgetItemService{
			createBudgetItemFn: func(in services.BudgetItemInput) (*models.BudgetItem, error) {
				got = in
				return &models.BudgetItem{Base: models.Base{ID: otherTestID}, Name: in.Name, BudgetType: in.BudgetType}, nil
			},
		}
		r := setupBudgetItemRouter(NewBudgetItemHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		body := fmt.Sprintf(`{"name":"Insurance","budget_type":"distributed","base_amount":1000000,"currency":"KRW",
			"valid_from":"2024-01-01","valid_to":"2024-03-31","category_ids":[%q]}`, testID)
		rec := doRequest(r, "POST", "/budget-items", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.ValidFrom == nil || got.ValidTo == nil {
			t.Fatal("expected window to be parsed")
		}
		if !got.IsActive {
			t.Error("expected is_active to default to true")
		}
		if !got.BaseAmount.Equal(decimal.NewFromInt(1000000)) {
			t.Errorf("expected 1000000, got %s", got.BaseAmount)
		}
		if len(got.CategoryIDs) != 1 || got.CategoryIDs[0] != testID {
			t.Errorf("unexpected categories %v", got.CategoryIDs)
		}
	})

	t.Run("returns 422 on invalid window", func(t *testing.T) {
		svc := &mockBudgetItemService{
			createBudgetItemFn: func(services.BudgetItemInput) (*models.BudgetItem, error) {
				return nil, apperrors.ErrInvalidBudgetWindow
			},
		}
		r := setupBudgetItemRouter(NewBudgetItemHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/budget-items",
			`{"name":"Insurance","budget_type":"distributed","base_amount":1,"currency":"KRW","valid_from":"2024-03-01","valid_to":"2024-01-01"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_BUDGET_WINDOW")
	})

	invalid := []struct {
		name string
		body string
	}{
		{"unknown budget type", `{"name":"Rent","budget_type":"weekly","base_amount":1,"currency":"KRW"}`},
		{"negative amount", `{"name":"Rent","budget_type":"fixed_monthly","base_amount":-5,"currency":"KRW"}`},
		{"non-uuid category", `{"name":"Rent","budget_type":"fixed_monthly","base_amount":5,"currency":"KRW","category_ids":["7"]}`},
		{"bad date", `{"name":"Rent","budget_type":"fixed_monthly","base_amount":5,"currency":"KRW","valid_from":"soon"}`},
	}
	for _, tt := range invalid {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupBudgetItemRouter(NewBudgetItemHandler(&mockBudgetItemService{}, &mockLedgerService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/budget-items", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestBudgetItemHandler_GetBudgetItems(t *testing.T) {
	var gotActive *bool
	var gotType *models.BudgetType
	svc := &mockBudgetItemService{
		getBudgetItemsFn: func(_ pagination.PageRequest, isActive *bool, budgetType *models.BudgetType) (*pagination.PageResponse[models.BudgetItem], error) {
			gotActive, gotType = isActive, budgetType
			resp := pagination.NewPageResponse([]models.BudgetItem{}, 1, 20, 0)
			return &resp, nil
		},
	}
	r := setupBudgetItemRouter(NewBudgetItemHandler(svc, &mockLedgerService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/budget-items?is_active=false&budget_type=variable_monthly", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotActive == nil || *gotActive {
		t.Errorf("expected is_active=false filter, got %v", gotActive)
	}
	if gotType == nil || *gotType != models.BudgetTypeVariableMonthly {
		t.Errorf("expected variable_monthly filter, got %v", gotType)
	}
}

func TestBudgetItemHandler_Obligations(t *testing.T) {
	t.Run("obligation passes year and month", func(t *testing.T) {
		ledgerSvc := &mockLedgerService{
			obligationFn: func(itemID string, year, month int) (*services.Obligation, error) {
				return &services.Obligation{
					BudgetItemID:     itemID,
					Year:             year,
					Month:            month,
					Applicable:       true,
					Amount:           decimal.NewFromInt(333333),
					Currency:         models.CurrencyKRW,
					NormalizedAmount: decimal.NewFromInt(333333),
				}, nil
			},
		}
		r := setupBudgetItemRouter(NewBudgetItemHandler(&mockBudgetItemService{}, ledgerSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget-items/"+testID+"/obligation?year=2024&month=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		ob := parseJSON(t, rec)["obligation"].(map[string]interface{})
		if ob["amount"] != "333333" || ob["month"].(float64) != 2 {
			t.Errorf("unexpected obligation %v", ob)
		}
	})

	t.Run("obligation requires a month", func(t *testing.T) {
		r := setupBudgetItemRouter(NewBudgetItemHandler(&mockBudgetItemService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget-items/"+testID+"/obligation?year=2024", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_MONTH")
	})

	t.Run("schedule returns twelve entries", func(t *testing.T) {
		ledgerSvc := &mockLedgerService{
			scheduleFn: func(itemID string, year int) ([]services.Obligation, error) {
				out := make([]services.Obligation, 12)
				for i := range out {
					out[i] = services.Obligation{BudgetItemID: itemID, Year: year, Month: i + 1}
				}
				return out, nil
			},
		}
		r := setupBudgetItemRouter(NewBudgetItemHandler(&mockBudgetItemService{}, ledgerSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget-items/"+testID+"/schedule?year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if n := len(parseJSON(t, rec)["schedule"].([]interface{})); n != 12 {
			t.Errorf("expected 12 entries, got %d", n)
		}
	})
}
