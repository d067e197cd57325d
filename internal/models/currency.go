package models

// Currency is an ISO 4217 code supported by the ledger.
type Currency string

const (
	CurrencyKRW Currency = "KRW"
	CurrencyAED Currency = "AED"
)

// ReportingCurrency is the currency every aggregate and closing is expressed in.
const ReportingCurrency = CurrencyKRW

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	return c == CurrencyKRW || c == CurrencyAED
}
