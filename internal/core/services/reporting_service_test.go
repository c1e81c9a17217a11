package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	"github.com/verdantlabs/greencoin_backend/internal/core/services"
	"github.com/verdantlabs/greencoin_backend/internal/platform/cache"
)

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetLeaderboardData(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
}

func (suite *ReportingServiceTestSuite) entries() []domain.LeaderboardEntry {
	return []domain.LeaderboardEntry{
		{AccountID: "acc-b", TreesPlanted: 5, CoinCount: 2, TotalImpact: decimal.NewFromInt(100)},
		{AccountID: "acc-a", TreesPlanted: 5, CoinCount: 7, TotalImpact: decimal.NewFromInt(30)},
		{AccountID: "acc-c", TreesPlanted: 9, CoinCount: 1, TotalImpact: decimal.NewFromInt(60)},
	}
}

func (suite *ReportingServiceTestSuite) TestLeaderboard_SortsByTreesPlantedWithStableTies() {
	ctx := context.Background()
	suite.mockRepo.On("GetLeaderboardData", ctx).Return(suite.entries(), nil).Once()

	svc := services.NewReportingService(suite.mockRepo)
	got, err := svc.Leaderboard(ctx, domain.SortByTreesPlanted)

	suite.Require().NoError(err)
	suite.Require().Len(got, 3)
	suite.Equal("acc-c", got[0].AccountID)
	// acc-a and acc-b tie on trees planted; account id ascending breaks it.
	suite.Equal("acc-a", got[1].AccountID)
	suite.Equal("acc-b", got[2].AccountID)
}

func (suite *ReportingServiceTestSuite) TestLeaderboard_SortsByCoinCount() {
	ctx := context.Background()
	suite.mockRepo.On("GetLeaderboardData", ctx).Return(suite.entries(), nil).Once()

	svc := services.NewReportingService(suite.mockRepo)
	got, err := svc.Leaderboard(ctx, domain.SortByCoinCount)

	suite.Require().NoError(err)
	suite.Equal("acc-a", got[0].AccountID)
	suite.Equal("acc-b", got[1].AccountID)
	suite.Equal("acc-c", got[2].AccountID)
}

func (suite *ReportingServiceTestSuite) TestLeaderboard_SortsByTotalImpact() {
	ctx := context.Background()
	suite.mockRepo.On("GetLeaderboardData", ctx).Return(suite.entries(), nil).Once()

	svc := services.NewReportingService(suite.mockRepo)
	got, err := svc.Leaderboard(ctx, domain.SortByTotalImpact)

	suite.Require().NoError(err)
	suite.Equal("acc-b", got[0].AccountID)
	suite.Equal("acc-c", got[1].AccountID)
	suite.Equal("acc-a", got[2].AccountID)
}

func (suite *ReportingServiceTestSuite) TestLeaderboard_RejectsUnknownSortKey() {
	ctx := context.Background()

	svc := services.NewReportingService(suite.mockRepo)
	_, err := svc.Leaderboard(ctx, domain.LeaderboardSortKey("karma"))

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetLeaderboardData", mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestLeaderboard_ServesSecondQueryFromCache() {
	ctx := context.Background()
	suite.mockRepo.On("GetLeaderboardData", ctx).Return(suite.entries(), nil).Once()

	svc := services.NewReportingService(suite.mockRepo,
		services.WithLeaderboardCache(cache.NewMemoryCache(), time.Minute))

	first, err := svc.Leaderboard(ctx, domain.SortByTreesPlanted)
	suite.Require().NoError(err)
	second, err := svc.Leaderboard(ctx, domain.SortByTreesPlanted)
	suite.Require().NoError(err)

	suite.Equal(first, second)
	// Only one repository scan: the second query hit the cache.
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "GetLeaderboardData", 1)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
