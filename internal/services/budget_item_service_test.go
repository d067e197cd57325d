package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
	"gagyebu/internal/testutil"
)

func distributedInput(from, to *time.Time, categoryIDs ...string) BudgetItemInput {
	return BudgetItemInput{
		Name:        "Car insurance",
		BudgetType:  models.BudgetTypeDistributed,
		BaseAmount:  decimal.NewFromInt(1200000),
		Currency:    models.CurrencyKRW,
		ValidFrom:   from,
		ValidTo:     to,
		IsActive:    true,
		CategoryIDs: categoryIDs,
	}
}

func TestCreateBudgetItem(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetItemService(db)
		food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		home := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		account := testutil.CreateTestAccount(t, db, models.CurrencyKRW)

		in := distributedInput(&from, &to, food.ID, home.ID)
		in.AccountID = &account.ID
		item, err := svc.CreateBudgetItem(in)
		testutil.AssertNoError(t, err)

		got, err := svc.GetBudgetItemByID(item.ID)
		testutil.AssertNoError(t, err)
		if len(got.Categories) != 2 {
			t.Errorf("expected 2 categories, got %d", len(got.Categories))
		}
		if got.AccountID == nil || *got.AccountID != account.ID {
			t.Errorf("expected linked account %s", account.ID)
		}
		testutil.AssertDecimal(t, got.BaseAmount, "1200000")
	})

	t.Run("window_required_for_distributed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetItemService(db)

		_, err := svc.CreateBudgetItem(distributedInput(&from, nil))
		testutil.AssertAppError(t, err, "INVALID_BUDGET_WINDOW")

		_, err = svc.CreateBudgetItem(distributedInput(&to, &from))
		testutil.AssertAppError(t, err, "INVALID_BUDGET_WINDOW")

		var count int64
		db.Model(&models.BudgetItem{}).Count(&count)
		if count != 0 {
			t.Errorf("expected nothing saved, got %d items", count)
		}
	})

	t.Run("window_kept_as_utc_dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetItemService(db)

		seoul := time.FixedZone("KST", 9*60*60)
		febStart := time.Date(2024, time.February, 1, 0, 0, 0, 0, seoul)
		aprEnd := time.Date(2024, time.April, 30, 23, 30, 0, 0, seoul)
		item, err := svc.CreateBudgetItem(distributedInput(&febStart, &aprEnd))
		testutil.AssertNoError(t, err)

		got, err := svc.GetBudgetItemByID(item.ID)
		testutil.AssertNoError(t, err)
		wantFrom := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
		wantTo := time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)
		if !got.ValidFrom.Equal(wantFrom) || !got.ValidTo.Equal(wantTo) {
			t.Fatalf("expected %s..%s, got %s..%s", wantFrom, wantTo, got.ValidFrom, got.ValidTo)
		}
		if got.ValidFrom.UTC().Month() != time.February {
			t.Errorf("expected window to start in February in UTC, got %s", got.ValidFrom.UTC())
		}
	})

	t.Run("fixed_without_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetItemService(db)

		in := distributedInput(nil, nil)
		in.BudgetType = models.BudgetTypeFixedMonthly
		_, err := svc.CreateBudgetItem(in)
		testutil.AssertNoError(t, err)
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetItemService(db)

		_, err := svc.CreateBudgetItem(distributedInput(&from, &to, "00000000-0000-0000-0000-000000000000"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("invalid_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetItemService(db)

		in := distributedInput(&from, &to)
		in.BaseAmount = decimal.NewFromInt(-1)
		_, err := svc.CreateBudgetItem(in)
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")

		in = distributedInput(&from, &to)
		in.BudgetType = "weekly"
		_, err = svc.CreateBudgetItem(in)
		testutil.AssertAppError(t, err, "INVALID_BUDGET_TYPE")
	})
}

func TestUpdateBudgetItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetItemService(db)
	food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	home := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	item := testutil.CreateTestBudgetItem(t, db, models.BudgetTypeFixedMonthly, "500000", models.CurrencyKRW, food)

	in := BudgetItemInput{
		Name:        "Rent",
		BudgetType:  models.BudgetTypeFixedMonthly,
		BaseAmount:  decimal.NewFromInt(600000),
		Currency:    models.CurrencyKRW,
		IsActive:    false,
		CategoryIDs: []string{home.ID},
	}
	_, err := svc.UpdateBudgetItem(item.ID, in)
	testutil.AssertNoError(t, err)

	got, err := svc.GetBudgetItemByID(item.ID)
	testutil.AssertNoError(t, err)
	if got.Name != "Rent" || got.IsActive {
		t.Errorf("unexpected item %+v", got)
	}
	if ids := got.CategoryIDs(); len(ids) != 1 || ids[0] != home.ID {
		t.Errorf("expected categories [%s], got %v", home.ID, ids)
	}

	in.CategoryIDs = nil
	_, err = svc.UpdateBudgetItem(item.ID, in)
	testutil.AssertNoError(t, err)
	got, err = svc.GetBudgetItemByID(item.ID)
	testutil.AssertNoError(t, err)
	if len(got.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(got.Categories))
	}
}

func TestGetAndDeleteBudgetItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetItemService(db)
	food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

	fixed := testutil.CreateTestBudgetItem(t, db, models.BudgetTypeFixedMonthly, "1", models.CurrencyKRW, food)
	testutil.CreateTestBudgetItem(t, db, models.BudgetTypeVariableMonthly, "2", models.CurrencyKRW, food)

	variable := models.BudgetTypeVariableMonthly
	page, err := svc.GetBudgetItems(pagination.PageRequest{}, nil, &variable)
	testutil.AssertNoError(t, err)
	if page.TotalItems != 1 {
		t.Errorf("expected 1 variable item, got %d", page.TotalItems)
	}

	testutil.AssertNoError(t, svc.DeleteBudgetItem(fixed.ID))
	_, err = svc.GetBudgetItemByID(fixed.ID)
	testutil.AssertAppError(t, err, "BUDGET_ITEM_NOT_FOUND")

	active := true
	page, err = svc.GetBudgetItems(pagination.PageRequest{}, &active, nil)
	testutil.AssertNoError(t, err)
	if page.TotalItems != 1 {
		t.Errorf("expected 1 remaining item, got %d", page.TotalItems)
	}
}
