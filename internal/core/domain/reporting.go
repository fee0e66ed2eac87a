package domain

import "github.com/shopspring/decimal"

// DealPairTotals is one aggregation row grouped by (from, to) currency pair,
// as produced by the reporting repository before the per-currency fold.
type DealPairTotals struct {
	CurrencyFrom  string
	CurrencyTo    string
	TotalSent     decimal.Decimal
	TotalReceived decimal.Decimal
	DealCount     int64
}

// CurrencyTurnover is one per-currency row of the deals report. A deal
// contributes its from-leg amount to TotalSent of one currency and its to-leg
// amount to TotalReceived of the other; DealCount is incremented for both.
type CurrencyTurnover struct {
	Currency      string
	TotalSent     decimal.Decimal
	TotalReceived decimal.Decimal
	DealCount     int64
}
