// Package ledger holds the pure budget and aggregation rules: currency
// normalization, monthly budget obligations, month aggregation and the
// closing snapshot built from it. Nothing here touches the database.
package ledger

import (
	"fmt"
	"time"

	apperrors "gagyebu/internal/errors"
)

// Month is a calendar month. The zero value is not valid; use NewMonth.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth validates year and month.
func NewMonth(year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, apperrors.ErrInvalidMonth
	}
	if year < 1 || year > 9999 {
		return Month{}, apperrors.WithMessage(apperrors.ErrInvalidMonth, "year must be between 1 and 9999")
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the calendar month t falls in, in t's own location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// First returns midnight UTC of the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// Range returns the half-open [first day, first day of next month) interval.
func (m Month) Range() (time.Time, time.Time) {
	return m.First(), m.Next().First()
}

// Contains reports whether t falls in the month by calendar date.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
