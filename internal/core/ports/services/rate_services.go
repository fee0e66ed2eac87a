package services

import (
	"context"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
)

// RateReaderSvc defines read operations for currency rate data
type RateReaderSvc interface {
	// GetRateByCode retrieves a specific currency rate by its code.
	GetRateByCode(ctx context.Context, code string) (*domain.CurrencyRate, error)

	// ListRates retrieves all known currency rates.
	ListRates(ctx context.Context) ([]domain.CurrencyRate, error)
}

// RateRefresherSvc defines the refresh pipeline fed by the external rate source
type RateRefresherSvc interface {
	// RefreshRates fetches the latest reference rates and upserts them, gated
	// by the freshness cooldown. It reports whether an update was performed.
	// External source failures are logged and swallowed so the service keeps
	// serving last-known rates.
	RefreshRates(ctx context.Context) (bool, error)
}

// RateWriterSvc defines write operations for currency rate data
type RateWriterSvc interface {
	// DeleteRate removes a currency unless a deal still references it.
	DeleteRate(ctx context.Context, code string) error
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateRefresherSvc
	RateWriterSvc
}
