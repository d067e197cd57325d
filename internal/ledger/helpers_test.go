package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gagyebu/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustMonth(t *testing.T, y, m int) Month {
	t.Helper()
	month, err := NewMonth(y, m)
	if err != nil {
		t.Fatalf("NewMonth(%d, %d): %v", y, m, err)
	}
	return month
}

func mustRate(t *testing.T, s string) ExchangeRate {
	t.Helper()
	r, err := NewExchangeRate(dec(s))
	if err != nil {
		t.Fatalf("NewExchangeRate(%s): %v", s, err)
	}
	return r
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func distributed(amount string, from, to time.Time) *models.BudgetItem {
	return &models.BudgetItem{
		Name:       "Insurance",
		BudgetType: models.BudgetTypeDistributed,
		BaseAmount: dec(amount),
		Currency:   models.CurrencyKRW,
		ValidFrom:  &from,
		ValidTo:    &to,
		IsActive:   true,
	}
}
