package dto

import (
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeDealRequest defines the data needed to open a new exchange deal.
// Amount positivity is validated at the service level.
type CreateExchangeDealRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyFrom string          `json:"currency_from" binding:"required,len=3,alpha"`
	CurrencyTo   string          `json:"currency_to" binding:"required,len=3,alpha"`
}

// ExchangeDealResponse is returned when a deal is created. Rate is rounded to
// 2 decimal places for display; the deal itself keeps the full snapshot.
type ExchangeDealResponse struct {
	DealID    string          `json:"deal_id"`
	AmountTo  decimal.Decimal `json:"amount_to"`
	Rate      decimal.Decimal `json:"rate"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// ToExchangeDealResponse converts a freshly created deal to its response DTO.
func ToExchangeDealResponse(deal *domain.ExchangeDeal, expiresAt time.Time) ExchangeDealResponse {
	return ExchangeDealResponse{
		DealID:    deal.ID,
		AmountTo:  deal.AmountTo,
		Rate:      deal.Rate.RoundBank(2),
		ExpiresAt: expiresAt,
	}
}

// ConfirmDealRequest defines the confirmation action for a pending deal.
type ConfirmDealRequest struct {
	Action string `json:"action" binding:"required,oneof=confirm reject"`
}

const (
	// ConfirmActionConfirm completes the deal.
	ConfirmActionConfirm = "confirm"
	// ConfirmActionReject rejects the deal.
	ConfirmActionReject = "reject"
)

// ConfirmDealResponse reports the terminal status of a decided deal.
type ConfirmDealResponse struct {
	Status string `json:"status"`
	DealID string `json:"deal_id"`
}

// ToConfirmDealResponse converts a decided deal to its response DTO.
func ToConfirmDealResponse(deal *domain.ExchangeDeal) ConfirmDealResponse {
	return ConfirmDealResponse{
		Status: string(deal.Status),
		DealID: deal.ID,
	}
}

// PendingDealResponse is one row of the pending deals listing.
type PendingDealResponse struct {
	ID           string          `json:"id"`
	AmountFrom   decimal.Decimal `json:"amount_from"`
	CurrencyFrom string          `json:"currency_from"`
	AmountTo     decimal.Decimal `json:"amount_to"`
	CurrencyTo   string          `json:"currency_to"`
	Rate         decimal.Decimal `json:"rate"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToPendingDealResponse converts a domain deal to a pending listing row.
func ToPendingDealResponse(deal *domain.ExchangeDeal) PendingDealResponse {
	return PendingDealResponse{
		ID:           deal.ID,
		AmountFrom:   deal.AmountFrom,
		CurrencyFrom: deal.CurrencyFrom,
		AmountTo:     deal.AmountTo,
		CurrencyTo:   deal.CurrencyTo,
		Rate:         deal.Rate,
		CreatedAt:    deal.CreatedAt,
	}
}

// ToListPendingDealResponse converts a slice of deals to listing rows.
func ToListPendingDealResponse(deals []domain.ExchangeDeal) []PendingDealResponse {
	res := make([]PendingDealResponse, len(deals))
	for i := range deals {
		res[i] = ToPendingDealResponse(&deals[i])
	}
	return res
}
