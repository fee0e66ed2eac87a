package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	"github.com/ksenchy/exchange-deals/internal/core/domain"
	"github.com/ksenchy/exchange-deals/internal/core/services"
	"github.com/ksenchy/exchange-deals/internal/dto"
	"github.com/ksenchy/exchange-deals/internal/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DealRepository ---
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindPendingDealByID(ctx context.Context, dealID string) (*domain.ExchangeDeal, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeDeal), args.Error(1)
}

func (m *MockDealRepository) ListPendingDeals(ctx context.Context) ([]domain.ExchangeDeal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeDeal), args.Error(1)
}

func (m *MockDealRepository) SaveDeal(ctx context.Context, deal domain.ExchangeDeal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) TransitionDeal(ctx context.Context, dealID string, to domain.DealStatus, completedAt time.Time) error {
	args := m.Called(ctx, dealID, to, completedAt)
	return args.Error(0)
}

func (m *MockDealRepository) RejectExpiredDeals(ctx context.Context, cutoff, completedAt time.Time) (int64, error) {
	args := m.Called(ctx, cutoff, completedAt)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock QuoteSvc ---
type MockQuoteSvc struct {
	mock.Mock
}

func (m *MockQuoteSvc) Quote(ctx context.Context, amount decimal.Decimal, codeFrom, codeTo string) (*domain.Quote, error) {
	args := m.Called(ctx, amount, codeFrom, codeTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// --- Test Suite ---
type DealServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockDealRepository
	mockQuote *MockQuoteSvc
	service   *services.DealService
	ttl       time.Duration
}

func (suite *DealServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDealRepository)
	suite.mockQuote = new(MockQuoteSvc)
	suite.ttl = 30 * time.Minute
	m := metrics.NewDealMetricsWith(prometheus.NewRegistry())
	suite.service = services.NewDealService(suite.mockRepo, suite.mockQuote, m, suite.ttl)
}

func (suite *DealServiceTestSuite) pendingDeal(createdAt time.Time) *domain.ExchangeDeal {
	return &domain.ExchangeDeal{
		ID:           uuid.NewString(),
		AmountFrom:   decimal.RequireFromString("10"),
		AmountTo:     decimal.RequireFromString("1454.5455"),
		CurrencyFrom: "USD",
		CurrencyTo:   "JPY",
		Rate:         decimal.RequireFromString("145.4545"),
		CreatedAt:    createdAt,
		Status:       domain.DealStatusPending,
	}
}

// --- Test Cases ---

func (suite *DealServiceTestSuite) TestCreateDeal_Success() {
	ctx := context.Background()
	req := dto.CreateExchangeDealRequest{
		Amount:       decimal.RequireFromString("10"),
		CurrencyFrom: "usd",
		CurrencyTo:   "jpy",
	}
	quote := &domain.Quote{
		AmountTo: decimal.RequireFromString("1454.5455"),
		Rate:     decimal.RequireFromString("145.4545"),
	}

	suite.mockQuote.On("Quote", ctx, req.Amount, "usd", "jpy").Return(quote, nil).Once()
	suite.mockRepo.On("SaveDeal", ctx, mock.MatchedBy(func(d domain.ExchangeDeal) bool {
		return d.Status == domain.DealStatusPending &&
			d.CurrencyFrom == "USD" && d.CurrencyTo == "JPY" &&
			d.AmountTo.Equal(quote.AmountTo) && d.ID != ""
	})).Return(nil).Once()

	deal, expiresAt, err := suite.service.CreateDeal(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(deal)
	suite.Equal(domain.DealStatusPending, deal.Status)
	suite.Nil(deal.CompletedAt)
	suite.Equal(deal.CreatedAt.Add(suite.ttl), expiresAt)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockQuote.AssertExpectations(suite.T())
}

func (suite *DealServiceTestSuite) TestCreateDeal_QuoteFailureSavesNothing() {
	ctx := context.Background()
	req := dto.CreateExchangeDealRequest{
		Amount:       decimal.RequireFromString("10"),
		CurrencyFrom: "USD",
		CurrencyTo:   "XXX",
	}

	suite.mockQuote.On("Quote", ctx, req.Amount, "USD", "XXX").Return(nil, apperrors.ErrCurrencyNotFound).Once()

	deal, _, err := suite.service.CreateDeal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(deal)
	suite.ErrorIs(err, apperrors.ErrCurrencyNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDeal", mock.Anything, mock.Anything)
}

func (suite *DealServiceTestSuite) TestConfirmDeal_Completes() {
	ctx := context.Background()
	pending := suite.pendingDeal(time.Now().UTC().Add(-1 * time.Minute))

	suite.mockRepo.On("FindPendingDealByID", ctx, pending.ID).Return(pending, nil).Once()
	suite.mockRepo.On("TransitionDeal", ctx, pending.ID, domain.DealStatusCompleted, mock.AnythingOfType("time.Time")).Return(nil).Once()

	deal, err := suite.service.ConfirmDeal(ctx, pending.ID, dto.ConfirmActionConfirm)

	suite.Require().NoError(err)
	suite.Equal(domain.DealStatusCompleted, deal.Status)
	suite.NotNil(deal.CompletedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DealServiceTestSuite) TestConfirmDeal_Rejects() {
	ctx := context.Background()
	pending := suite.pendingDeal(time.Now().UTC().Add(-1 * time.Minute))

	suite.mockRepo.On("FindPendingDealByID", ctx, pending.ID).Return(pending, nil).Once()
	suite.mockRepo.On("TransitionDeal", ctx, pending.ID, domain.DealStatusRejected, mock.AnythingOfType("time.Time")).Return(nil).Once()

	deal, err := suite.service.ConfirmDeal(ctx, pending.ID, dto.ConfirmActionReject)

	suite.Require().NoError(err)
	suite.Equal(domain.DealStatusRejected, deal.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DealServiceTestSuite) TestConfirmDeal_UnknownDeal() {
	ctx := context.Background()
	dealID := uuid.NewString()

	suite.mockRepo.On("FindPendingDealByID", ctx, dealID).Return(nil, apperrors.ErrNotFound).Once()

	deal, err := suite.service.ConfirmDeal(ctx, dealID, dto.ConfirmActionConfirm)

	suite.Require().Error(err)
	suite.Nil(deal)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "TransitionDeal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DealServiceTestSuite) TestConfirmDeal_ExpiredIsRejectedEvenOnConfirm() {
	ctx := context.Background()
	expired := suite.pendingDeal(time.Now().UTC().Add(-31 * time.Minute))

	suite.mockRepo.On("FindPendingDealByID", ctx, expired.ID).Return(expired, nil).Once()
	suite.mockRepo.On("TransitionDeal", ctx, expired.ID, domain.DealStatusRejected, mock.AnythingOfType("time.Time")).Return(nil).Once()

	deal, err := suite.service.ConfirmDeal(ctx, expired.ID, dto.ConfirmActionConfirm)

	suite.Require().Error(err)
	suite.Nil(deal)
	suite.ErrorIs(err, apperrors.ErrConfirmationExpired)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DealServiceTestSuite) TestConfirmDeal_LostRaceReportsNotFound() {
	ctx := context.Background()
	pending := suite.pendingDeal(time.Now().UTC().Add(-1 * time.Minute))

	suite.mockRepo.On("FindPendingDealByID", ctx, pending.ID).Return(pending, nil).Once()
	// Another caller decided the deal between the read and the update.
	suite.mockRepo.On("TransitionDeal", ctx, pending.ID, domain.DealStatusCompleted, mock.AnythingOfType("time.Time")).Return(apperrors.ErrNotFound).Once()

	deal, err := suite.service.ConfirmDeal(ctx, pending.ID, dto.ConfirmActionConfirm)

	suite.Require().Error(err)
	suite.Nil(deal)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DealServiceTestSuite) TestSweepExpiredDeals_CutoffIsTTLAgo() {
	ctx := context.Background()
	before := time.Now().UTC()

	suite.mockRepo.On("RejectExpiredDeals", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		diff := before.Add(-suite.ttl).Sub(cutoff)
		if diff < 0 {
			diff = -diff
		}
		return diff < time.Minute
	}), mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()

	swept, err := suite.service.SweepExpiredDeals(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(3), swept)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DealServiceTestSuite) TestListPendingDeals_SweepsFirst() {
	ctx := context.Background()
	pending := suite.pendingDeal(time.Now().UTC().Add(-5 * time.Minute))

	suite.mockRepo.On("RejectExpiredDeals", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(1), nil).Once()
	suite.mockRepo.On("ListPendingDeals", ctx).Return([]domain.ExchangeDeal{*pending}, nil).Once()

	deals, err := suite.service.ListPendingDeals(ctx)

	suite.Require().NoError(err)
	suite.Len(deals, 1)
	suite.Equal(pending.ID, deals[0].ID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestDealServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DealServiceTestSuite))
}
