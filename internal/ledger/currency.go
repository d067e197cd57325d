package ledger

import (
	"github.com/shopspring/decimal"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/models"
)

// ReportingScale is the number of decimal places kept on normalized
// amounts. It equals the scale of the stored amount columns, so a closing
// reads back exactly as it was computed.
const ReportingScale = 4

// RateScale is the most decimal places an exchange rate may carry. It
// equals the scale of the stored exchange_rate column.
const RateScale = 8

// ExchangeRate is the single AED->KRW rate in effect for one operation.
// Callers read it once and pass it down so a computation never sees two
// different rates.
type ExchangeRate struct {
	aedToKRW decimal.Decimal
}

// NewExchangeRate rejects non-positive rates and rates finer than RateScale.
func NewExchangeRate(aedToKRW decimal.Decimal) (ExchangeRate, error) {
	if !aedToKRW.IsPositive() {
		return ExchangeRate{}, apperrors.ErrInvalidExchangeRate
	}
	if !aedToKRW.Equal(aedToKRW.Truncate(RateScale)) {
		return ExchangeRate{}, apperrors.WithMessage(apperrors.ErrInvalidExchangeRate,
			"exchange rate may have at most 8 decimal places")
	}
	return ExchangeRate{aedToKRW: aedToKRW}, nil
}

// ParseExchangeRate parses a stored setting value.
func ParseExchangeRate(raw string) (ExchangeRate, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return ExchangeRate{}, apperrors.Wrap(apperrors.ErrInvalidExchangeRate, err)
	}
	return NewExchangeRate(d)
}

// AEDToKRW returns the rate value.
func (r ExchangeRate) AEDToKRW() decimal.Decimal {
	return r.aedToKRW
}

// Normalize converts amount into the reporting currency, rounded half up
// to ReportingScale. KRW amounts ignore the rate.
func Normalize(amount decimal.Decimal, currency models.Currency, rate ExchangeRate) (decimal.Decimal, error) {
	switch currency {
	case models.ReportingCurrency:
		return toReportingScale(amount), nil
	case models.CurrencyAED:
		if !rate.aedToKRW.IsPositive() {
			return decimal.Zero, apperrors.ErrInvalidExchangeRate
		}
		return toReportingScale(amount.Mul(rate.aedToKRW)), nil
	default:
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrUnsupportedCurrency,
			"unsupported currency: "+string(currency))
	}
}

// toReportingScale rounds half away from zero; amounts are non-negative, so
// this is half up.
func toReportingScale(d decimal.Decimal) decimal.Decimal {
	return d.Round(ReportingScale)
}
