package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/ksenchy/exchange-deals/internal/core/services"
	"github.com/ksenchy/exchange-deals/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context) ([]domain.ExternalRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalRate), args.Error(1)
}

// --- Test Suite ---
type RateServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockRateRepository
	mockSource *MockRateSource
	service    *services.RateService
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRateRepository)
	suite.mockSource = new(MockRateSource)
	m := metrics.NewDealMetricsWith(prometheus.NewRegistry())
	suite.service = services.NewRateService(suite.mockRepo, suite.mockSource, m, 24*time.Hour, slog.Default())
}

// --- Test Cases ---

func (suite *RateServiceTestSuite) TestRefreshRates_SkipsWithinCooldown() {
	ctx := context.Background()
	newest := time.Now().Add(-1 * time.Hour)

	suite.mockRepo.On("NewestLastUpdated", ctx).Return(&newest, nil).Once()

	updated, err := suite.service.RefreshRates(ctx)

	suite.Require().NoError(err)
	suite.False(updated)
	suite.mockSource.AssertNotCalled(suite.T(), "FetchRates", mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestRefreshRates_UpsertsWhenStale() {
	ctx := context.Background()
	newest := time.Now().Add(-25 * time.Hour)
	external := []domain.ExternalRate{
		{Code: "usd", Name: "US Dollar", OfficialRate: decimal.RequireFromString("3.2"), Scale: 1},
		{Code: "JPY", Name: "Japanese Yen", OfficialRate: decimal.RequireFromString("2.2"), Scale: 100},
	}

	suite.mockRepo.On("NewestLastUpdated", ctx).Return(&newest, nil).Once()
	suite.mockSource.On("FetchRates", ctx).Return(external, nil).Once()
	suite.mockRepo.On("UpsertRate", ctx, mock.MatchedBy(func(r domain.CurrencyRate) bool {
		return r.Code == "USD" && r.Scale == 1 && !r.LastUpdated.IsZero()
	})).Return(nil).Once()
	suite.mockRepo.On("UpsertRate", ctx, mock.MatchedBy(func(r domain.CurrencyRate) bool {
		return r.Code == "JPY" && r.Scale == 100
	})).Return(nil).Once()

	updated, err := suite.service.RefreshRates(ctx)

	suite.Require().NoError(err)
	suite.True(updated)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestRefreshRates_EmptyStoreIsStale() {
	ctx := context.Background()

	suite.mockRepo.On("NewestLastUpdated", ctx).Return(nil, nil).Once()
	suite.mockSource.On("FetchRates", ctx).Return([]domain.ExternalRate{}, nil).Once()

	updated, err := suite.service.RefreshRates(ctx)

	suite.Require().NoError(err)
	suite.True(updated)
}

func (suite *RateServiceTestSuite) TestRefreshRates_FetchFailureKeepsLastKnownRates() {
	ctx := context.Background()
	newest := time.Now().Add(-48 * time.Hour)

	suite.mockRepo.On("NewestLastUpdated", ctx).Return(&newest, nil).Once()
	suite.mockSource.On("FetchRates", ctx).Return(nil, assert.AnError).Once()

	updated, err := suite.service.RefreshRates(ctx)

	suite.Require().NoError(err)
	suite.False(updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertRate", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestRefreshRates_BadRecordDoesNotFailBatch() {
	ctx := context.Background()
	external := []domain.ExternalRate{
		{Code: "USD", Name: "US Dollar", OfficialRate: decimal.RequireFromString("3.2"), Scale: 1},
		{Code: "EUR", Name: "Euro", OfficialRate: decimal.RequireFromString("3.5"), Scale: 1},
	}

	suite.mockRepo.On("NewestLastUpdated", ctx).Return(nil, nil).Once()
	suite.mockSource.On("FetchRates", ctx).Return(external, nil).Once()
	suite.mockRepo.On("UpsertRate", ctx, mock.MatchedBy(func(r domain.CurrencyRate) bool {
		return r.Code == "USD"
	})).Return(assert.AnError).Once()
	suite.mockRepo.On("UpsertRate", ctx, mock.MatchedBy(func(r domain.CurrencyRate) bool {
		return r.Code == "EUR"
	})).Return(nil).Once()

	updated, err := suite.service.RefreshRates(ctx)

	suite.Require().NoError(err)
	suite.True(updated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRateByCode_NormalizesCase() {
	ctx := context.Background()
	expected := &domain.CurrencyRate{Code: "USD", Rate: decimal.RequireFromString("3.2"), Scale: 1}

	suite.mockRepo.On("FindRateByCode", ctx, "USD").Return(expected, nil).Once()

	rate, err := suite.service.GetRateByCode(ctx, "usd")

	suite.Require().NoError(err)
	suite.Equal(expected, rate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRateByCode_BadLength() {
	ctx := context.Background()

	rate, err := suite.service.GetRateByCode(ctx, "USDT")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindRateByCode", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestDeleteRate_ReferencedCurrencyRefused() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteRate", ctx, "USD").Return(apperrors.ErrCurrencyInUse).Once()

	err := suite.service.DeleteRate(ctx, "usd")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCurrencyInUse)
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
