package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate is the latest known reference rate for a single currency.
// Rate is expressed as "rate units of the base currency per Scale units of
// this currency", so the effective per-unit rate is Rate/Scale.
type CurrencyRate struct {
	Code        string          `json:"currency_code"` // Primary key, 3 letters (e.g. "USD")
	Name        string          `json:"currency_name"`
	Rate        decimal.Decimal `json:"rate"`
	Scale       int             `json:"scale"`
	LastUpdated time.Time       `json:"last_updated"`
}
