package repositories

import (
	"context"
	"time"

	"github.com/ksenchy/exchange-deals/internal/core/domain"
)

// DealReader defines read operations for exchange deal data
type DealReader interface {
	// FindPendingDealByID retrieves a deal that is still in pending status.
	// Deals that are completed, rejected or unknown map to apperrors.ErrNotFound.
	FindPendingDealByID(ctx context.Context, dealID string) (*domain.ExchangeDeal, error)

	// ListPendingDeals retrieves all pending deals ordered by created_at descending.
	ListPendingDeals(ctx context.Context) ([]domain.ExchangeDeal, error)
}

// DealWriter defines write operations for exchange deal data
type DealWriter interface {
	// SaveDeal persists a new deal.
	SaveDeal(ctx context.Context, deal domain.ExchangeDeal) error

	// TransitionDeal moves a single deal from pending to the given terminal
	// status, setting completed_at. The update is conditional on the row still
	// being pending; it returns apperrors.ErrNotFound when the deal does not
	// exist or was already decided. This conditional write is the only
	// linearization point for concurrent confirm/reject/sweep calls.
	TransitionDeal(ctx context.Context, dealID string, to domain.DealStatus, completedAt time.Time) error

	// RejectExpiredDeals bulk-transitions every pending deal created before
	// cutoff to rejected with completed_at=completedAt, returning the number
	// of rows affected.
	RejectExpiredDeals(ctx context.Context, cutoff, completedAt time.Time) (int64, error)
}

// DealRepositoryFacade combines all deal-related repository interfaces
type DealRepositoryFacade interface {
	DealReader
	DealWriter
}
