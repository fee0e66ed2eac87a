package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	portsrepo "github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	"github.com/ksenchy/exchange-deals/internal/metrics"
)

// RateService owns the currency rate store and its refresh pipeline.
type RateService struct {
	rateRepo portsrepo.RateRepositoryFacade
	source   portsrepo.RateSource
	metrics  *metrics.DealMetrics
	cooldown time.Duration
	logger   *slog.Logger
}

// NewRateService creates a new RateService. cooldown is the minimum interval
// between refreshes against the external rate source.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade, source portsrepo.RateSource, m *metrics.DealMetrics, cooldown time.Duration, logger *slog.Logger) *RateService {
	return &RateService{
		rateRepo: rateRepo,
		source:   source,
		metrics:  m,
		cooldown: cooldown,
		logger:   logger,
	}
}

// GetRateByCode retrieves a currency rate by its 3-letter code.
func (s *RateService) GetRateByCode(ctx context.Context, code string) (*domain.CurrencyRate, error) {
	code = strings.ToUpper(code)
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindRateByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency rate in service: %w", err)
	}
	return rate, nil
}

// ListRates retrieves all known currency rates.
func (s *RateService) ListRates(ctx context.Context) ([]domain.CurrencyRate, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency rates in service: %w", err)
	}
	return rates, nil
}

// DeleteRate removes a currency. Deletion is refused while any deal still
// references the code.
func (s *RateService) DeleteRate(ctx context.Context, code string) error {
	code = strings.ToUpper(code)
	if len(code) != 3 {
		return fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	return s.rateRepo.DeleteRate(ctx, code)
}

// RefreshRates fetches the latest official rates and upserts them, unless the
// newest stored rate is still within the cooldown. A failing fetch is logged
// and reported as "no update" so the service keeps serving last-known rates.
func (s *RateService) RefreshRates(ctx context.Context) (bool, error) {
	stale, err := s.isStale(ctx)
	if err != nil {
		return false, err
	}
	if !stale {
		s.metrics.RateRefreshesTotal.WithLabelValues("skipped").Inc()
		return false, nil
	}

	external, err := s.source.FetchRates(ctx)
	if err != nil {
		s.logger.Warn("Rate source fetch failed, keeping last-known rates", slog.String("error", err.Error()))
		s.metrics.RateRefreshesTotal.WithLabelValues("error").Inc()
		return false, nil
	}

	now := time.Now().UTC()
	var upserted int
	for _, ext := range external {
		rate := domain.CurrencyRate{
			Code:        strings.ToUpper(ext.Code),
			Name:        ext.Name,
			Rate:        ext.OfficialRate,
			Scale:       ext.Scale,
			LastUpdated: now,
		}
		if err := s.rateRepo.UpsertRate(ctx, rate); err != nil {
			// One bad record must not fail the whole batch.
			s.logger.Warn("Failed to upsert currency rate", slog.String("currency_code", rate.Code), slog.String("error", err.Error()))
			continue
		}
		upserted++
	}

	s.logger.Info("Currency rates refreshed", slog.Int("upserted", upserted), slog.Int("fetched", len(external)))
	s.metrics.RateRefreshesTotal.WithLabelValues("updated").Inc()
	return true, nil
}

// isStale reports whether no stored rate was updated within the cooldown.
func (s *RateService) isStale(ctx context.Context) (bool, error) {
	newest, err := s.rateRepo.NewestLastUpdated(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check rate freshness: %w", err)
	}
	if newest == nil {
		return true, nil
	}
	return time.Since(*newest) >= s.cooldown, nil
}
