package repositories

import (
	"context"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
)

// RateSource is the external reference-rate provider. The refresh pipeline
// treats it as a black box that periodically supplies the full rate table.
type RateSource interface {
	// FetchRates retrieves the current official rates.
	FetchRates(ctx context.Context) ([]domain.ExternalRate, error)
}
