package domain

import "github.com/shopspring/decimal"

// Quote is a computed conversion for a prospective exchange, not yet
// persisted as a deal. Rate is the cross rate triangulated through the
// common base currency.
type Quote struct {
	AmountTo decimal.Decimal
	Rate     decimal.Decimal
}
