package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealStatus is the lifecycle state of an exchange deal.
// Transitions are one-way: pending -> completed or pending -> rejected.
type DealStatus string

const (
	DealStatusPending   DealStatus = "pending"
	DealStatusCompleted DealStatus = "completed"
	DealStatusRejected  DealStatus = "rejected"
)

// ExchangeDeal is a persisted quote awaiting confirmation, or its terminal
// outcome. Rate and AmountTo are frozen at creation time; later rate updates
// never alter an existing deal.
type ExchangeDeal struct {
	ID           string          `json:"id"`
	AmountFrom   decimal.Decimal `json:"amount_from"`
	AmountTo     decimal.Decimal `json:"amount_to"`
	CurrencyFrom string          `json:"currency_from"` // FK -> CurrencyRate.Code
	CurrencyTo   string          `json:"currency_to"`   // FK -> CurrencyRate.Code
	Rate         decimal.Decimal `json:"rate"`
	CreatedAt    time.Time       `json:"created_at"`
	Status       DealStatus      `json:"status"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// ExpiresAt returns the end of the confirmation window. It is derived, not
// stored.
func (d ExchangeDeal) ExpiresAt(ttl time.Duration) time.Time {
	return d.CreatedAt.Add(ttl)
}

// IsExpired reports whether a still-pending deal has outlived its
// confirmation window at the given instant.
func (d ExchangeDeal) IsExpired(now time.Time, ttl time.Duration) bool {
	return d.Status == DealStatusPending && now.Sub(d.CreatedAt) > ttl
}
