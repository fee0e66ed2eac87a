package repositories

import (
	"context"
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
)

// ReportingRepository defines read operations for deal report aggregation
type ReportingRepository interface {
	// AggregateCompletedDeals groups completed deals with a created_at
	// calendar date within [dateFrom, dateTo] by (from, to) currency pair.
	// When currencyCode is non-empty only deals with that code on either leg
	// are included.
	AggregateCompletedDeals(ctx context.Context, dateFrom, dateTo time.Time, currencyCode string) ([]domain.DealPairTotals, error)
}
