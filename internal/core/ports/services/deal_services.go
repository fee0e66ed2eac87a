package services

import (
	"context"
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/ksenchy/exchange-deals/internal/dto"
	"github.com/shopspring/decimal"
)

// QuoteSvc computes conversion amounts between two currencies from the
// latest known reference rates.
type QuoteSvc interface {
	// Quote computes the cross rate and converted amount for the given pair.
	// Codes are normalized to uppercase before lookup.
	Quote(ctx context.Context, amount decimal.Decimal, codeFrom, codeTo string) (*domain.Quote, error)
}

// DealWriterSvc defines the deal lifecycle operations
type DealWriterSvc interface {
	// CreateDeal quotes the exchange and persists a new pending deal. The
	// returned time is the end of the confirmation window, derived from the
	// deal's creation time.
	CreateDeal(ctx context.Context, req dto.CreateExchangeDealRequest) (*domain.ExchangeDeal, time.Time, error)

	// ConfirmDeal applies the requested action ("confirm" or "reject") to a
	// pending deal. Expired deals are persisted as rejected and reported via
	// apperrors.ErrConfirmationExpired; unknown or already-decided deals via
	// apperrors.ErrNotFound.
	ConfirmDeal(ctx context.Context, dealID string, action string) (*domain.ExchangeDeal, error)
}

// DealReaderSvc defines the deal read operations
type DealReaderSvc interface {
	// ListPendingDeals rejects every expired pending deal, then returns the
	// remaining pending deals ordered by created_at descending.
	ListPendingDeals(ctx context.Context) ([]domain.ExchangeDeal, error)
}

// DealSweeperSvc defines the expiry sweep invoked before read views
type DealSweeperSvc interface {
	// SweepExpiredDeals rejects every pending deal whose confirmation window
	// has passed, returning the number of deals swept.
	SweepExpiredDeals(ctx context.Context) (int64, error)
}

// DealSvcFacade combines all deal-related service interfaces
type DealSvcFacade interface {
	DealWriterSvc
	DealReaderSvc
	DealSweeperSvc
}
