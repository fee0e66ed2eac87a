package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	portsrepo "github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	portssvc "github.com/ksenchy/exchange-deals/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ReportingService aggregates completed deals into per-currency turnover.
type ReportingService struct {
	reportRepo portsrepo.ReportingRepository
	rateRepo   portsrepo.RateReader
	sweeper    portssvc.DealSweeperSvc
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportRepo portsrepo.ReportingRepository, rateRepo portsrepo.RateReader, sweeper portssvc.DealSweeperSvc) *ReportingService {
	return &ReportingService{
		reportRepo: reportRepo,
		rateRepo:   rateRepo,
		sweeper:    sweeper,
	}
}

// DealsReport aggregates completed deals with a created_at calendar date
// within [dateFrom, dateTo] into one row per currency. Each deal contributes
// to two buckets: its from-currency accumulates the sent amount, its
// to-currency the received amount, and both buckets count the deal once.
// Rows are ordered by currency code.
func (s *ReportingService) DealsReport(ctx context.Context, dateFrom, dateTo time.Time, currencyCode string) ([]domain.CurrencyTurnover, error) {
	if dateFrom.After(dateTo) {
		return nil, fmt.Errorf("%w: date_from must not be after date_to", apperrors.ErrInvalidDateRange)
	}

	if currencyCode != "" {
		currencyCode = strings.ToUpper(currencyCode)
		if _, err := s.rateRepo.FindRateByCode(ctx, currencyCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyNotFound, currencyCode)
			}
			return nil, fmt.Errorf("failed to validate report currency: %w", err)
		}
	}

	// Stale pending deals are settled before the read view is produced.
	if _, err := s.sweeper.SweepExpiredDeals(ctx); err != nil {
		return nil, err
	}

	pairs, err := s.reportRepo.AggregateCompletedDeals(ctx, dateFrom, dateTo, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate deals in service: %w", err)
	}

	buckets := make(map[string]*domain.CurrencyTurnover)
	bucket := func(code string) *domain.CurrencyTurnover {
		b, ok := buckets[code]
		if !ok {
			b = &domain.CurrencyTurnover{
				Currency:      code,
				TotalSent:     decimal.Zero,
				TotalReceived: decimal.Zero,
			}
			buckets[code] = b
		}
		return b
	}

	for _, pair := range pairs {
		from := bucket(pair.CurrencyFrom)
		from.TotalSent = from.TotalSent.Add(pair.TotalSent)
		from.DealCount += pair.DealCount

		to := bucket(pair.CurrencyTo)
		to.TotalReceived = to.TotalReceived.Add(pair.TotalReceived)
		to.DealCount += pair.DealCount
	}

	codes := make([]string, 0, len(buckets))
	for code := range buckets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	result := make([]domain.CurrencyTurnover, len(codes))
	for i, code := range codes {
		result[i] = *buckets[code]
	}
	return result, nil
}
