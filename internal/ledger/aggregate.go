package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
)

// CategoryTotal is one (category, type) row of a month.
type CategoryTotal struct {
	CategoryID   string                 `json:"category_id"`
	CategoryName string                 `json:"category_name"`
	Type         models.TransactionType `json:"type"`
	Amount       decimal.Decimal        `json:"amount"`
	BudgetAmount decimal.NullDecimal    `json:"budget_amount"`
}

// Aggregation is the live result for one month, in the reporting currency.
type Aggregation struct {
	Year         int                 `json:"year"`
	Month        int                 `json:"month"`
	TotalIncome  decimal.Decimal     `json:"total_income"`
	TotalExpense decimal.Decimal     `json:"total_expense"`
	TotalBudget  decimal.NullDecimal `json:"total_budget"`
	NetAmount    decimal.Decimal     `json:"net_amount"`
	ExchangeRate decimal.Decimal     `json:"exchange_rate"`
	Categories   []CategoryTotal     `json:"categories"`
}

// HasActivity reports whether any income or expense was recorded.
func (a *Aggregation) HasActivity() bool {
	return a.TotalIncome.IsPositive() || a.TotalExpense.IsPositive()
}

type categoryKey struct {
	id  string
	typ models.TransactionType
}

// Aggregate totals a month. Transactions outside m or excluded from stats
// are skipped, so callers may pass a wider slice than the month.
//
// A budget item linked to several categories adds its full obligation to
// each of them; TotalBudget counts it once. TotalBudget stays null unless
// some item contributed a non-zero obligation.
func Aggregate(txs []models.Transaction, items []models.BudgetItem, m Month, rate ExchangeRate) (*Aggregation, error) {
	agg := &Aggregation{
		Year:         m.Year,
		Month:        int(m.Month),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ExchangeRate: rate.AEDToKRW(),
		Categories:   []CategoryTotal{},
	}

	rows := make(map[categoryKey]*CategoryTotal)
	for i := range txs {
		tx := &txs[i]
		if !tx.IncludeInStats || !m.Contains(tx.Date) {
			continue
		}

		amount, err := Normalize(tx.Amount, tx.Currency, rate)
		if err != nil {
			return nil, err
		}

		switch tx.Type {
		case models.TransactionTypeIncome:
			agg.TotalIncome = agg.TotalIncome.Add(amount)
		case models.TransactionTypeExpense:
			agg.TotalExpense = agg.TotalExpense.Add(amount)
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidTransactionType,
				"unsupported transaction type: "+string(tx.Type))
		}

		key := categoryKey{id: tx.CategoryID, typ: tx.Type}
		row, ok := rows[key]
		if !ok {
			row = &CategoryTotal{CategoryID: tx.CategoryID, Type: tx.Type, Amount: decimal.Zero}
			if tx.Category != nil {
				row.CategoryName = tx.Category.Name
			}
			rows[key] = row
		}
		row.Amount = row.Amount.Add(amount)
	}

	budgetByCategory := make(map[string]decimal.Decimal)
	totalBudget := decimal.Zero
	contributed := false
	for i := range items {
		item := &items[i]
		if !item.IsActive {
			continue
		}
		obligation, ok, err := MonthlyObligation(item, m)
		if err != nil {
			return nil, err
		}
		if !ok || obligation.IsZero() {
			continue
		}
		amount, err := Normalize(obligation, item.Currency, rate)
		if err != nil {
			return nil, err
		}
		totalBudget = totalBudget.Add(amount)
		contributed = true
		for _, c := range item.Categories {
			budgetByCategory[c.ID] = budgetByCategory[c.ID].Add(amount)
		}
	}
	if contributed {
		agg.TotalBudget = decimal.NewNullDecimal(totalBudget)
	}

	for _, row := range rows {
		if b, ok := budgetByCategory[row.CategoryID]; ok {
			row.BudgetAmount = decimal.NewNullDecimal(b)
		}
		agg.Categories = append(agg.Categories, *row)
	}
	sortCategoryTotals(agg.Categories)

	agg.NetAmount = agg.TotalIncome.Sub(agg.TotalExpense)
	return agg, nil
}

// sortCategoryTotals orders rows by type, then largest amount first, then id.
func sortCategoryTotals(rows []CategoryTotal) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Type != rows[j].Type {
			return rows[i].Type < rows[j].Type
		}
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
}
