package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
)

// ValidateBudgetItem checks the fields the obligation rules depend on.
// A distributed item must carry both window bounds with from <= to.
func ValidateBudgetItem(item *models.BudgetItem) error {
	if !item.BudgetType.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidBudgetType, "unsupported budget type: "+string(item.BudgetType))
	}
	if !item.Currency.Valid() {
		return apperrors.ErrUnsupportedCurrency
	}
	if item.BaseAmount.IsNegative() {
		return apperrors.ErrNegativeAmount
	}
	if item.BudgetType != models.BudgetTypeDistributed {
		return nil
	}
	if item.ValidFrom == nil || item.ValidTo == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidBudgetWindow, "distributed budget items need valid_from and valid_to")
	}
	if dateOnly(*item.ValidFrom).After(dateOnly(*item.ValidTo)) {
		return apperrors.ErrInvalidBudgetWindow
	}
	return nil
}

// MonthsSpanned counts the calendar months touched by [from, to], never
// less than one.
func MonthsSpanned(from, to time.Time) int {
	n := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if n < 1 {
		return 1
	}
	return n
}

// MonthlyObligation returns what item contributes to month m, in the item's
// own currency. The bool is false when the item does not apply to m.
//
// Fixed and variable monthly items contribute BaseAmount every month while
// active. Distributed items contribute BaseAmount / N rounded half-up to a
// whole unit, for every month their window overlaps.
func MonthlyObligation(item *models.BudgetItem, m Month) (decimal.Decimal, bool, error) {
	if err := ValidateBudgetItem(item); err != nil {
		return decimal.Zero, false, err
	}
	if !item.IsActive {
		return decimal.Zero, false, nil
	}

	switch item.BudgetType {
	case models.BudgetTypeFixedMonthly, models.BudgetTypeVariableMonthly:
		return item.BaseAmount, true, nil
	case models.BudgetTypeDistributed:
		from, to := MonthOf(*item.ValidFrom), MonthOf(*item.ValidTo)
		if m.index() < from.index() || m.index() > to.index() {
			return decimal.Zero, false, nil
		}
		n := MonthsSpanned(*item.ValidFrom, *item.ValidTo)
		return roundHalfUp(item.BaseAmount, n), true, nil
	}
	return decimal.Zero, false, apperrors.ErrInvalidBudgetType
}

// roundHalfUp divides a non-negative amount by n and rounds to a whole
// unit. DivRound rounds half away from zero, which is half-up here.
func roundHalfUp(amount decimal.Decimal, n int) decimal.Decimal {
	return amount.DivRound(decimal.NewFromInt(int64(n)), 0)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
