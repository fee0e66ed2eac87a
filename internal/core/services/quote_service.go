package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	portsrepo "github.com/ksenchy/exchange-deals/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// QuoteService computes conversion amounts from the latest known rates.
//
// Both stored rates are expressed per scale units of the common base
// currency, so the cross rate (rateFrom/scaleFrom)/(rateTo/scaleTo) cancels
// the base. Converted amounts are rounded to 4 decimal places with banker's
// rounding; report totals use the same mode so both computation sites agree.
type QuoteService struct {
	rateRepo portsrepo.RateReader
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(rateRepo portsrepo.RateReader) *QuoteService {
	return &QuoteService{rateRepo: rateRepo}
}

// Quote computes the cross rate and converted amount for the given pair.
func (s *QuoteService) Quote(ctx context.Context, amount decimal.Decimal, codeFrom, codeTo string) (*domain.Quote, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}

	codeFrom = strings.ToUpper(codeFrom)
	codeTo = strings.ToUpper(codeTo)

	// Same-currency conversion is refused before any rate lookup, so it fails
	// even for codes the store has never seen.
	if codeFrom == codeTo {
		return nil, apperrors.ErrSameCurrency
	}

	rates, err := s.rateRepo.FindRatesByCodes(ctx, []string{codeFrom, codeTo})
	if err != nil {
		return nil, fmt.Errorf("failed to look up rates for quote: %w", err)
	}

	var missing []string
	for _, code := range []string{codeFrom, codeTo} {
		if _, ok := rates[code]; !ok {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyNotFound, strings.Join(missing, ", "))
	}

	rateFrom := rates[codeFrom]
	rateTo := rates[codeTo]

	perUnitFrom := rateFrom.Rate.Div(decimal.NewFromInt(int64(rateFrom.Scale)))
	perUnitTo := rateTo.Rate.Div(decimal.NewFromInt(int64(rateTo.Scale)))
	crossRate := perUnitFrom.Div(perUnitTo)

	return &domain.Quote{
		AmountTo: amount.Mul(crossRate).RoundBank(4),
		Rate:     crossRate,
	}, nil
}
