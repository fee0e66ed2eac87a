package services

import (
	"context"
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
)

// ReportingSvc produces aggregated deal reports
type ReportingSvc interface {
	// DealsReport aggregates completed deals with a created_at calendar date
	// within [dateFrom, dateTo] into one row per currency touched by either
	// leg. currencyCode optionally narrows the report to deals involving that
	// currency.
	DealsReport(ctx context.Context, dateFrom, dateTo time.Time, currencyCode string) ([]domain.CurrencyTurnover, error)
}
