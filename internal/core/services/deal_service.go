package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	portsrepo "github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	portssvc "github.com/ksenchy/exchange-deals/internal/core/ports/services"
	"github.com/ksenchy/exchange-deals/internal/dto"
	"github.com/ksenchy/exchange-deals/internal/metrics"
	"github.com/google/uuid"
)

// DealService owns the exchange deal lifecycle: creation from a quote,
// time-boxed confirmation or rejection, and the expiry sweep.
//
// All pending-to-terminal transitions go through the repository's conditional
// update, so racing confirm, reject and sweep calls on the same deal resolve
// to exactly one winner.
type DealService struct {
	dealRepo   portsrepo.DealRepositoryFacade
	quoteSvc   portssvc.QuoteSvc
	metrics    *metrics.DealMetrics
	confirmTTL time.Duration
}

// NewDealService creates a new DealService. confirmTTL is the confirmation
// window measured from deal creation.
func NewDealService(dealRepo portsrepo.DealRepositoryFacade, quoteSvc portssvc.QuoteSvc, m *metrics.DealMetrics, confirmTTL time.Duration) *DealService {
	return &DealService{
		dealRepo:   dealRepo,
		quoteSvc:   quoteSvc,
		metrics:    m,
		confirmTTL: confirmTTL,
	}
}

// CreateDeal quotes the exchange and persists a new pending deal. The rate
// and converted amount are frozen at creation; later rate refreshes never
// touch an existing deal.
func (s *DealService) CreateDeal(ctx context.Context, req dto.CreateExchangeDealRequest) (*domain.ExchangeDeal, time.Time, error) {
	quote, err := s.quoteSvc.Quote(ctx, req.Amount, req.CurrencyFrom, req.CurrencyTo)
	if err != nil {
		return nil, time.Time{}, err
	}

	now := time.Now().UTC()
	deal := domain.ExchangeDeal{
		ID:           uuid.NewString(),
		AmountFrom:   req.Amount,
		AmountTo:     quote.AmountTo,
		CurrencyFrom: strings.ToUpper(req.CurrencyFrom),
		CurrencyTo:   strings.ToUpper(req.CurrencyTo),
		Rate:         quote.Rate,
		CreatedAt:    now,
		Status:       domain.DealStatusPending,
	}

	if err := s.dealRepo.SaveDeal(ctx, deal); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to create deal in service: %w", err)
	}

	s.metrics.DealsCreatedTotal.Inc()
	return &deal, deal.ExpiresAt(s.confirmTTL), nil
}

// ConfirmDeal applies the requested action to a pending deal. A deal found
// expired on this path is persisted as rejected before ErrConfirmationExpired
// is returned, regardless of the requested action. Unknown and
// already-decided deals both report ErrNotFound, so a second confirmation
// attempt never sees the prior result.
func (s *DealService) ConfirmDeal(ctx context.Context, dealID string, action string) (*domain.ExchangeDeal, error) {
	deal, err := s.dealRepo.FindPendingDealByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: deal not found or already decided", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load deal in service: %w", err)
	}

	now := time.Now().UTC()
	if deal.IsExpired(now, s.confirmTTL) {
		if err := s.dealRepo.TransitionDeal(ctx, dealID, domain.DealStatusRejected, now); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// A concurrent call decided the deal first.
				return nil, fmt.Errorf("%w: deal not found or already decided", apperrors.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to reject expired deal: %w", err)
		}
		s.metrics.DealsExpiredTotal.Inc()
		return nil, fmt.Errorf("%w: deal %s", apperrors.ErrConfirmationExpired, dealID)
	}

	target := domain.DealStatusRejected
	if action == dto.ConfirmActionConfirm {
		target = domain.DealStatusCompleted
	}

	if err := s.dealRepo.TransitionDeal(ctx, dealID, target, now); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: deal not found or already decided", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to transition deal: %w", err)
	}

	if target == domain.DealStatusCompleted {
		s.metrics.DealsCompletedTotal.Inc()
	} else {
		s.metrics.DealsRejectedTotal.Inc()
	}

	deal.Status = target
	deal.CompletedAt = &now
	return deal, nil
}

// SweepExpiredDeals rejects every pending deal whose confirmation window has
// passed. Safe to run concurrently with confirm calls: each row is decided by
// whichever conditional update lands first.
func (s *DealService) SweepExpiredDeals(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	swept, err := s.dealRepo.RejectExpiredDeals(ctx, now.Add(-s.confirmTTL), now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired deals: %w", err)
	}
	if swept > 0 {
		s.metrics.DealsExpiredTotal.Add(float64(swept))
	}
	return swept, nil
}

// ListPendingDeals sweeps expired deals, then returns the remaining pending
// deals newest first.
func (s *DealService) ListPendingDeals(ctx context.Context) ([]domain.ExchangeDeal, error) {
	if _, err := s.SweepExpiredDeals(ctx); err != nil {
		return nil, err
	}

	deals, err := s.dealRepo.ListPendingDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deals in service: %w", err)
	}
	return deals, nil
}
