package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"gagyebu/internal/models"
)

// NewClosing builds the closing header and detail rows from an aggregation.
// Details are returned separately so the store can write both in one unit.
func NewClosing(agg *Aggregation, memo *string, closedAt time.Time) (*models.MonthlyClosing, []models.MonthlyClosingDetail) {
	header := &models.MonthlyClosing{
		Year:         agg.Year,
		Month:        agg.Month,
		TotalIncome:  agg.TotalIncome,
		TotalExpense: agg.TotalExpense,
		TotalBudget:  agg.TotalBudget,
		NetAmount:    agg.NetAmount,
		ExchangeRate: agg.ExchangeRate,
		Memo:         memo,
		ClosedAt:     closedAt,
	}

	details := make([]models.MonthlyClosingDetail, 0, len(agg.Categories))
	for _, row := range agg.Categories {
		details = append(details, models.MonthlyClosingDetail{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Type:         row.Type,
			Amount:       row.Amount,
			BudgetAmount: row.BudgetAmount,
		})
	}
	return header, details
}

// MatchesClosing reports whether the live aggregation still equals the
// stored snapshot at the stored scale. Category names are ignored: a rename
// is not divergence.
func (a *Aggregation) MatchesClosing(c *models.MonthlyClosing) bool {
	if !sameAmount(a.TotalIncome, c.TotalIncome) || !sameAmount(a.TotalExpense, c.TotalExpense) {
		return false
	}
	if !nullEqual(a.TotalBudget, c.TotalBudget) {
		return false
	}
	if len(a.Categories) != len(c.Details) {
		return false
	}

	stored := make(map[categoryKey]models.MonthlyClosingDetail, len(c.Details))
	for _, d := range c.Details {
		stored[categoryKey{id: d.CategoryID, typ: d.Type}] = d
	}
	for _, row := range a.Categories {
		d, ok := stored[categoryKey{id: row.CategoryID, typ: row.Type}]
		if !ok || !sameAmount(row.Amount, d.Amount) || !nullEqual(row.BudgetAmount, d.BudgetAmount) {
			return false
		}
	}
	return true
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || sameAmount(a.Decimal, b.Decimal)
}

func sameAmount(a, b decimal.Decimal) bool {
	return toReportingScale(a).Equal(toReportingScale(b))
}
