package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/ledger"
	"gagyebu/internal/logger"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
	"gagyebu/internal/store"
)

// ledgerService computes obligations and aggregates and runs the month
// closing state machine: a month is open until CloseMonth stores a
// snapshot, and open again once ReopenMonth deletes it.
type ledgerService struct {
	store    store.Store
	settings SettingServicer
	budgets  BudgetItemServicer
	now      func() time.Time
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(st store.Store, settings SettingServicer, budgets BudgetItemServicer) LedgerServicer {
	return &ledgerService{
		store:    st,
		settings: settings,
		budgets:  budgets,
		now:      time.Now,
	}
}

// ComputeMonthlyObligation returns what a budget item contributes to a month.
func (s *ledgerService) ComputeMonthlyObligation(itemID string, year, month int) (*Obligation, error) {
	m, err := ledger.NewMonth(year, month)
	if err != nil {
		return nil, err
	}
	item, err := s.budgets.GetBudgetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	rate, err := s.settings.GetExchangeRate()
	if err != nil {
		return nil, err
	}

	ob, err := obligationFor(item, m, rate)
	if err != nil {
		return nil, err
	}
	return &ob, nil
}

// ObligationSchedule returns a budget item's obligation for each month of a year.
func (s *ledgerService) ObligationSchedule(itemID string, year int) ([]Obligation, error) {
	first, err := ledger.NewMonth(year, 1)
	if err != nil {
		return nil, err
	}
	item, err := s.budgets.GetBudgetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	rate, err := s.settings.GetExchangeRate()
	if err != nil {
		return nil, err
	}

	schedule := make([]Obligation, 0, 12)
	for m := first; m.Year == year; m = m.Next() {
		ob, err := obligationFor(item, m, rate)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, ob)
	}
	return schedule, nil
}

func obligationFor(item *models.BudgetItem, m ledger.Month, rate ledger.ExchangeRate) (Obligation, error) {
	amount, ok, err := ledger.MonthlyObligation(item, m)
	if err != nil {
		return Obligation{}, err
	}

	ob := Obligation{
		BudgetItemID:     item.ID,
		Year:             m.Year,
		Month:            int(m.Month),
		Applicable:       ok,
		Amount:           amount,
		Currency:         item.Currency,
		NormalizedAmount: decimal.Zero,
	}
	if ok {
		ob.NormalizedAmount, err = ledger.Normalize(amount, item.Currency, rate)
		if err != nil {
			return Obligation{}, err
		}
	}
	return ob, nil
}

// AggregateMonth computes the live totals of a month. It never writes.
func (s *ledgerService) AggregateMonth(year, month int) (*ledger.Aggregation, error) {
	m, err := ledger.NewMonth(year, month)
	if err != nil {
		return nil, err
	}
	rate, err := s.settings.GetExchangeRate()
	if err != nil {
		return nil, err
	}
	return s.aggregate(m, rate)
}

func (s *ledgerService) aggregate(m ledger.Month, rate ledger.ExchangeRate) (*ledger.Aggregation, error) {
	from, to := m.Range()
	txs, err := s.store.QueryTransactions(from, to, true)
	if err != nil {
		return nil, err
	}
	items, err := s.store.QueryBudgetItems(true)
	if err != nil {
		return nil, err
	}
	return ledger.Aggregate(txs, items, m, rate)
}

// CloseMonth snapshots an open month with activity. Header and details are
// written as one unit; on failure nothing is stored and the month stays open.
func (s *ledgerService) CloseMonth(year, month int, memo *string) (*models.MonthlyClosing, error) {
	m, err := ledger.NewMonth(year, month)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetClosing(year, month); err == nil {
		return nil, apperrors.ErrMonthAlreadyClosed
	} else if !errors.Is(err, apperrors.ErrClosingNotFound) {
		return nil, err
	}

	rate, err := s.settings.GetExchangeRate()
	if err != nil {
		return nil, err
	}
	agg, err := s.aggregate(m, rate)
	if err != nil {
		return nil, err
	}
	if !agg.HasActivity() {
		return nil, apperrors.ErrMonthEmpty
	}

	header, details := ledger.NewClosing(agg, cleanMemo(memo), s.now().UTC())
	if err := s.store.WriteClosing(header, details); err != nil {
		logger.Get().Warnw("month close failed", "month", m.String(), "error", err)
		return nil, err
	}

	logger.Get().Infow("month closed",
		"month", m.String(),
		"closing_id", header.ID,
		"total_income", header.TotalIncome.String(),
		"total_expense", header.TotalExpense.String(),
		"exchange_rate", header.ExchangeRate.String(),
		"categories", len(details),
	)
	return header, nil
}

// ReopenMonth deletes a month's snapshot. Transactions are not touched.
func (s *ledgerService) ReopenMonth(year, month int) error {
	m, err := ledger.NewMonth(year, month)
	if err != nil {
		return err
	}

	closing, err := s.store.GetClosing(year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrClosingNotFound) {
			return apperrors.ErrMonthNotClosed
		}
		return err
	}

	if err := s.store.DeleteClosing(closing.ID); err != nil {
		if errors.Is(err, apperrors.ErrClosingNotFound) {
			return apperrors.ErrMonthNotClosed
		}
		logger.Get().Warnw("month reopen failed", "month", m.String(), "error", err)
		return err
	}

	logger.Get().Infow("month reopened", "month", m.String(), "closing_id", closing.ID)
	return nil
}

// GetMonthState reports whether a month is open, closed, or closed with
// live data that no longer matches its snapshot.
func (s *ledgerService) GetMonthState(year, month int) (*MonthState, error) {
	m, err := ledger.NewMonth(year, month)
	if err != nil {
		return nil, err
	}
	rate, err := s.settings.GetExchangeRate()
	if err != nil {
		return nil, err
	}
	live, err := s.aggregate(m, rate)
	if err != nil {
		return nil, err
	}

	closing, err := s.store.GetClosing(year, month)
	if err != nil && !errors.Is(err, apperrors.ErrClosingNotFound) {
		return nil, err
	}
	state := monthState(live, closing)
	return &state, nil
}

// GetYearOverview returns the state of all twelve months of a year, reading
// the rate, budget items and transactions once.
func (s *ledgerService) GetYearOverview(year int) (*YearOverview, error) {
	first, err := ledger.NewMonth(year, 1)
	if err != nil {
		return nil, err
	}
	rate, err := s.settings.GetExchangeRate()
	if err != nil {
		return nil, err
	}

	from := first.First()
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	txs, err := s.store.QueryTransactions(from, to, true)
	if err != nil {
		return nil, err
	}
	items, err := s.store.QueryBudgetItems(true)
	if err != nil {
		return nil, err
	}
	closings, err := s.store.ClosingsForYear(year)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[int]*models.MonthlyClosing, len(closings))
	for i := range closings {
		byMonth[closings[i].Month] = &closings[i]
	}

	overview := &YearOverview{Year: year, Months: make([]MonthState, 0, 12)}
	for m := first; m.Year == year; m = m.Next() {
		live, err := ledger.Aggregate(txs, items, m, rate)
		if err != nil {
			return nil, err
		}
		overview.Months = append(overview.Months, monthState(live, byMonth[int(m.Month)]))
	}
	return overview, nil
}

func monthState(live *ledger.Aggregation, closing *models.MonthlyClosing) MonthState {
	state := MonthState{
		Year:   live.Year,
		Month:  live.Month,
		Status: MonthStatusOpen,
		Live:   live,
	}
	if closing == nil {
		return state
	}
	state.Closing = closing
	state.Status = MonthStatusClosed
	if !live.MatchesClosing(closing) {
		state.Status = MonthStatusClosedDiverged
	}
	return state
}

// GetClosing returns the stored snapshot of a month.
func (s *ledgerService) GetClosing(year, month int) (*models.MonthlyClosing, error) {
	if _, err := ledger.NewMonth(year, month); err != nil {
		return nil, err
	}
	return s.store.GetClosing(year, month)
}

// ListClosings returns closings newest first.
func (s *ledgerService) ListClosings(page pagination.PageRequest) (*pagination.PageResponse[models.MonthlyClosing], error) {
	return s.store.ListClosings(page)
}

func cleanMemo(memo *string) *string {
	if memo == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*memo)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
