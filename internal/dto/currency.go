package dto

import (
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyRateResponse defines the data returned for a currency rate.
type CurrencyRateResponse struct {
	CurrencyCode string          `json:"currency_code"`
	CurrencyName string          `json:"currency_name"`
	Rate         decimal.Decimal `json:"rate"`
	Scale        int             `json:"scale"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// ToCurrencyRateResponse converts a domain.CurrencyRate to its response DTO.
func ToCurrencyRateResponse(rate *domain.CurrencyRate) CurrencyRateResponse {
	return CurrencyRateResponse{
		CurrencyCode: rate.Code,
		CurrencyName: rate.Name,
		Rate:         rate.Rate,
		Scale:        rate.Scale,
		LastUpdated:  rate.LastUpdated,
	}
}

// ToListCurrencyRateResponse converts a slice of rates to response DTOs.
func ToListCurrencyRateResponse(rates []domain.CurrencyRate) []CurrencyRateResponse {
	res := make([]CurrencyRateResponse, len(rates))
	for i := range rates {
		res[i] = ToCurrencyRateResponse(&rates[i])
	}
	return res
}

// RefreshRatesResponse reports whether an on-demand refresh performed an update.
type RefreshRatesResponse struct {
	Updated bool `json:"updated"`
}
