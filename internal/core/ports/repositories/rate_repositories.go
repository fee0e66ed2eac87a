package repositories

import (
	"context"
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
)

// RateReader defines read operations for currency rate data
type RateReader interface {
	// FindRateByCode retrieves a specific currency rate by its code.
	FindRateByCode(ctx context.Context, code string) (*domain.CurrencyRate, error)

	// FindRatesByCodes retrieves the rates for the given codes. Codes absent
	// from the store are simply missing from the result map.
	FindRatesByCodes(ctx context.Context, codes []string) (map[string]domain.CurrencyRate, error)

	// ListRates retrieves all known currency rates ordered by code.
	ListRates(ctx context.Context) ([]domain.CurrencyRate, error)

	// NewestLastUpdated returns the most recent last_updated across all rates,
	// or nil when the store is empty.
	NewestLastUpdated(ctx context.Context) (*time.Time, error)
}

// RateWriter defines write operations for currency rate data
type RateWriter interface {
	// UpsertRate inserts the rate or overwrites name, rate, scale and
	// last_updated for an existing code. Codes are never removed by a refresh.
	UpsertRate(ctx context.Context, rate domain.CurrencyRate) error

	// DeleteRate removes a currency. It fails with apperrors.ErrCurrencyInUse
	// while any deal still references the code.
	DeleteRate(ctx context.Context, code string) error
}

// RateRepositoryFacade combines all rate-related repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
