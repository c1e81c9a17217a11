package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/core/services"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
)

// --- Mocks ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountCAS(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

type MockCoinRepository struct {
	mock.Mock
}

func (m *MockCoinRepository) FindCoinByID(ctx context.Context, coinID string) (*domain.Coin, error) {
	args := m.Called(ctx, coinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coin), args.Error(1)
}

func (m *MockCoinRepository) ListCoinsByOwner(ctx context.Context, ownerID string) ([]domain.Coin, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Coin), args.Error(1)
}

func (m *MockCoinRepository) ListListedCoins(ctx context.Context, excludeOwnerID string, limit int, nextToken *string) ([]domain.Coin, *string, error) {
	args := m.Called(ctx, excludeOwnerID, limit, nextToken)
	var coins []domain.Coin
	if args.Get(0) != nil {
		coins = args.Get(0).([]domain.Coin)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return coins, token, args.Error(2)
}

func (m *MockCoinRepository) UpdateCoinCAS(ctx context.Context, coin domain.Coin) error {
	args := m.Called(ctx, coin)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByCoin(ctx context.Context, coinID string) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, coinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

type MockExchangeRepository struct {
	mock.Mock
}

func (m *MockExchangeRepository) SaveCoinAndIncrementTrees(ctx context.Context, coin domain.Coin, owner domain.Account) error {
	args := m.Called(ctx, coin, owner)
	return args.Error(0)
}

func (m *MockExchangeRepository) ExecutePurchase(ctx context.Context, record domain.TransactionRecord, buyer domain.Account, seller domain.Account, coin domain.Coin) error {
	args := m.Called(ctx, record, buyer, seller, coin)
	return args.Error(0)
}

// --- Test Suite Setup ---

type ExchangeServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCoinRepo     *MockCoinRepository
	mockTxnRepo      *MockTransactionRepository
	mockExchangeRepo *MockExchangeRepository
	service          portssvc.ExchangeSvcFacade
}

func (suite *ExchangeServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCoinRepo = new(MockCoinRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockExchangeRepo = new(MockExchangeRepository)
	suite.service = services.NewExchangeService(
		suite.mockAccountRepo,
		suite.mockCoinRepo,
		suite.mockTxnRepo,
		suite.mockExchangeRepo,
	)
}

func (suite *ExchangeServiceTestSuite) mintRequest() dto.MintCoinRequest {
	return dto.MintCoinRequest{
		Species:     "Quercus robur",
		PlantedDate: time.Now().Add(-24 * time.Hour),
		ImpactKg:    decimal.NewFromInt(21),
	}
}

// --- Mint ---

func (suite *ExchangeServiceTestSuite) TestMint_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	owner := &domain.Account{AccountID: ownerID, TreesPlanted: 2, Version: 5}

	suite.mockAccountRepo.On("FindAccountByID", ctx, ownerID).Return(owner, nil).Once()
	suite.mockExchangeRepo.On("SaveCoinAndIncrementTrees", ctx, mock.AnythingOfType("domain.Coin"), *owner).Return(nil).Once()

	coin, err := suite.service.Mint(ctx, ownerID, suite.mintRequest())

	suite.Require().NoError(err)
	suite.Require().NotNil(coin)
	suite.NotEmpty(coin.CoinID)
	suite.Equal(ownerID, coin.OwnerID)
	suite.Equal(ownerID, coin.CreatorID)
	suite.False(coin.Listing.ForSale, "a fresh coin must start unlisted")
	suite.NotEmpty(coin.ProvenanceLabel)
	suite.mockExchangeRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestMint_ValidationErrors() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	noSpecies := suite.mintRequest()
	noSpecies.Species = "   "
	_, err := suite.service.Mint(ctx, ownerID, noSpecies)
	suite.ErrorIs(err, apperrors.ErrValidation)

	future := suite.mintRequest()
	future.PlantedDate = time.Now().Add(48 * time.Hour)
	_, err = suite.service.Mint(ctx, ownerID, future)
	suite.ErrorIs(err, apperrors.ErrValidation)

	negative := suite.mintRequest()
	negative.ImpactKg = decimal.NewFromInt(-1)
	_, err = suite.service.Mint(ctx, ownerID, negative)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// No repository call may happen for rejected input.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestMint_RetriesOnConflictThenSucceeds() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	owner := &domain.Account{AccountID: ownerID, Version: 1}

	suite.mockAccountRepo.On("FindAccountByID", ctx, ownerID).Return(owner, nil).Twice()
	suite.mockExchangeRepo.On("SaveCoinAndIncrementTrees", ctx, mock.AnythingOfType("domain.Coin"), *owner).
		Return(apperrors.ErrConflict).Once()
	suite.mockExchangeRepo.On("SaveCoinAndIncrementTrees", ctx, mock.AnythingOfType("domain.Coin"), *owner).
		Return(nil).Once()

	coin, err := suite.service.Mint(ctx, ownerID, suite.mintRequest())

	suite.Require().NoError(err)
	suite.NotNil(coin)
	suite.mockExchangeRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestMint_RetriesOnStoreDeadlineThenSucceeds() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	owner := &domain.Account{AccountID: ownerID, Version: 1}

	// A store deadline expiry aborts the attempt with nothing partial
	// visible, so it is retried from a fresh snapshot like a version loss.
	suite.mockAccountRepo.On("FindAccountByID", ctx, ownerID).Return(owner, nil).Twice()
	suite.mockExchangeRepo.On("SaveCoinAndIncrementTrees", ctx, mock.AnythingOfType("domain.Coin"), *owner).
		Return(fmt.Errorf("failed to save coin: %w", context.DeadlineExceeded)).Once()
	suite.mockExchangeRepo.On("SaveCoinAndIncrementTrees", ctx, mock.AnythingOfType("domain.Coin"), *owner).
		Return(nil).Once()

	coin, err := suite.service.Mint(ctx, ownerID, suite.mintRequest())

	suite.Require().NoError(err)
	suite.NotNil(coin)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "FindAccountByID", 2)
	suite.mockExchangeRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestMint_ContentionAfterExhaustedRetries() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	owner := &domain.Account{AccountID: ownerID, Version: 1}

	suite.mockAccountRepo.On("FindAccountByID", ctx, ownerID).Return(owner, nil).Times(3)
	suite.mockExchangeRepo.On("SaveCoinAndIncrementTrees", ctx, mock.AnythingOfType("domain.Coin"), *owner).
		Return(apperrors.ErrConflict).Times(3)

	coin, err := suite.service.Mint(ctx, ownerID, suite.mintRequest())

	suite.Require().Error(err)
	suite.Nil(coin)
	suite.ErrorIs(err, apperrors.ErrContention)
	suite.mockExchangeRepo.AssertExpectations(suite.T())
}

// --- Listing ---

func (suite *ExchangeServiceTestSuite) TestListForSale_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	coinID := uuid.NewString()
	price := decimal.NewFromInt(40)
	coin := &domain.Coin{CoinID: coinID, OwnerID: ownerID, Version: 3}

	suite.mockCoinRepo.On("FindCoinByID", ctx, coinID).Return(coin, nil).Once()
	suite.mockCoinRepo.On("UpdateCoinCAS", ctx, mock.MatchedBy(func(c domain.Coin) bool {
		return c.Listing.ForSale && c.Listing.Price.Equal(price) && c.Version == 3
	})).Return(nil).Once()

	updated, err := suite.service.ListForSale(ctx, coinID, ownerID, price)

	suite.Require().NoError(err)
	suite.True(updated.Listing.ForSale)
	suite.True(updated.Listing.Price.Equal(price))
	suite.mockCoinRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestListForSale_RejectsNonPositivePrice() {
	ctx := context.Background()

	_, err := suite.service.ListForSale(ctx, uuid.NewString(), uuid.NewString(), decimal.Zero)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ListForSale(ctx, uuid.NewString(), uuid.NewString(), decimal.NewFromInt(-5))
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockCoinRepo.AssertNotCalled(suite.T(), "FindCoinByID", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestListForSale_RejectsNonOwner() {
	ctx := context.Background()
	coinID := uuid.NewString()
	coin := &domain.Coin{CoinID: coinID, OwnerID: uuid.NewString(), Version: 1}

	suite.mockCoinRepo.On("FindCoinByID", ctx, coinID).Return(coin, nil).Once()

	_, err := suite.service.ListForSale(ctx, coinID, uuid.NewString(), decimal.NewFromInt(10))

	suite.ErrorIs(err, apperrors.ErrNotOwner)
	suite.mockCoinRepo.AssertNotCalled(suite.T(), "UpdateCoinCAS", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestListForSale_ReplacesExistingPrice() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	coinID := uuid.NewString()
	coin := &domain.Coin{CoinID: coinID, OwnerID: ownerID, Listing: domain.Listed(decimal.NewFromInt(10)), Version: 2}
	newPrice := decimal.NewFromInt(25)

	suite.mockCoinRepo.On("FindCoinByID", ctx, coinID).Return(coin, nil).Once()
	suite.mockCoinRepo.On("UpdateCoinCAS", ctx, mock.MatchedBy(func(c domain.Coin) bool {
		return c.Listing.Price.Equal(newPrice)
	})).Return(nil).Once()

	updated, err := suite.service.ListForSale(ctx, coinID, ownerID, newPrice)

	suite.Require().NoError(err)
	suite.True(updated.Listing.Price.Equal(newPrice))
}

func (suite *ExchangeServiceTestSuite) TestUnlist_NoOpWhenNotListed() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	coinID := uuid.NewString()
	coin := &domain.Coin{CoinID: coinID, OwnerID: ownerID, Version: 1}

	suite.mockCoinRepo.On("FindCoinByID", ctx, coinID).Return(coin, nil).Once()

	updated, err := suite.service.Unlist(ctx, coinID, ownerID)

	suite.Require().NoError(err)
	suite.False(updated.Listing.ForSale)
	// No write for a coin that is already unlisted.
	suite.mockCoinRepo.AssertNotCalled(suite.T(), "UpdateCoinCAS", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestUnlist_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	coinID := uuid.NewString()
	coin := &domain.Coin{CoinID: coinID, OwnerID: ownerID, Listing: domain.Listed(decimal.NewFromInt(10)), Version: 4}

	suite.mockCoinRepo.On("FindCoinByID", ctx, coinID).Return(coin, nil).Once()
	suite.mockCoinRepo.On("UpdateCoinCAS", ctx, mock.MatchedBy(func(c domain.Coin) bool {
		return !c.Listing.ForSale && c.Version == 4
	})).Return(nil).Once()

	updated, err := suite.service.Unlist(ctx, coinID, ownerID)

	suite.Require().NoError(err)
	suite.False(updated.Listing.ForSale)
	suite.mockCoinRepo.AssertExpectations(suite.T())
}

// --- Purchase ---

type purchaseFixture struct {
	coinID   string
	buyerID  string
	sellerID string
	key      string
	coin     *domain.Coin
	buyer    *domain.Account
	seller   *domain.Account
}

func (suite *ExchangeServiceTestSuite) purchaseFixture(price int64, buyerBalance int64) purchaseFixture {
	f := purchaseFixture{
		coinID:   uuid.NewString(),
		buyerID:  uuid.NewString(),
		sellerID: uuid.NewString(),
		key:      uuid.NewString(),
	}
	f.coin = &domain.Coin{
		CoinID:  f.coinID,
		OwnerID: f.sellerID,
		Listing: domain.Listed(decimal.NewFromInt(price)),
		Version: 7,
	}
	f.buyer = &domain.Account{AccountID: f.buyerID, Balance: decimal.NewFromInt(buyerBalance), Version: 2}
	f.seller = &domain.Account{AccountID: f.sellerID, Balance: decimal.Zero, Version: 9}
	return f
}

func (suite *ExchangeServiceTestSuite) TestPurchase_Success() {
	ctx := context.Background()
	f := suite.purchaseFixture(40, 100)

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCoinRepo.On("FindCoinByID", ctx, f.coinID).Return(f.coin, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.buyerID).Return(f.buyer, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.sellerID).Return(f.seller, nil).Once()
	suite.mockExchangeRepo.On("ExecutePurchase", ctx,
		mock.MatchedBy(func(r domain.TransactionRecord) bool {
			return r.CoinID == f.coinID &&
				r.FromOwnerID == f.sellerID &&
				r.ToOwnerID == f.buyerID &&
				r.Price.Equal(decimal.NewFromInt(40)) &&
				r.IdempotencyKey == f.key
		}),
		mock.MatchedBy(func(b domain.Account) bool {
			return b.AccountID == f.buyerID && b.Balance.Equal(decimal.NewFromInt(60)) && b.Version == 2
		}),
		mock.MatchedBy(func(s domain.Account) bool {
			return s.AccountID == f.sellerID && s.Balance.Equal(decimal.NewFromInt(40)) && s.Version == 9
		}),
		mock.MatchedBy(func(c domain.Coin) bool {
			return c.OwnerID == f.buyerID && !c.Listing.ForSale && c.Version == 7
		}),
	).Return(nil).Once()

	record, err := suite.service.Purchase(ctx, f.coinID, f.buyerID, f.key)

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.Equal(f.sellerID, record.FromOwnerID)
	suite.Equal(f.buyerID, record.ToOwnerID)
	suite.True(record.Price.Equal(decimal.NewFromInt(40)))
	suite.mockExchangeRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestPurchase_RequiresIdempotencyKey() {
	ctx := context.Background()

	_, err := suite.service.Purchase(ctx, uuid.NewString(), uuid.NewString(), "  ")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByIdempotencyKey", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestPurchase_ReplaysSettledKey() {
	ctx := context.Background()
	key := uuid.NewString()
	settled := &domain.TransactionRecord{
		TransactionID:  uuid.NewString(),
		IdempotencyKey: key,
		Price:          decimal.NewFromInt(40),
	}

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, key).Return(settled, nil).Once()

	record, err := suite.service.Purchase(ctx, uuid.NewString(), uuid.NewString(), key)

	suite.Require().NoError(err)
	suite.Equal(settled.TransactionID, record.TransactionID)
	// Replay must not touch any entity.
	suite.mockCoinRepo.AssertNotCalled(suite.T(), "FindCoinByID", mock.Anything, mock.Anything)
	suite.mockExchangeRepo.AssertNotCalled(suite.T(), "ExecutePurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestPurchase_RejectsUnlistedCoin() {
	ctx := context.Background()
	f := suite.purchaseFixture(40, 100)
	f.coin.Listing = domain.NotListed()

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCoinRepo.On("FindCoinByID", ctx, f.coinID).Return(f.coin, nil).Once()

	_, err := suite.service.Purchase(ctx, f.coinID, f.buyerID, f.key)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeServiceTestSuite) TestPurchase_RejectsSelfPurchase() {
	ctx := context.Background()
	f := suite.purchaseFixture(40, 100)
	f.coin.OwnerID = f.buyerID

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCoinRepo.On("FindCoinByID", ctx, f.coinID).Return(f.coin, nil).Once()

	_, err := suite.service.Purchase(ctx, f.coinID, f.buyerID, f.key)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestPurchase_RejectsInsufficientBalance() {
	ctx := context.Background()
	f := suite.purchaseFixture(40, 30)

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCoinRepo.On("FindCoinByID", ctx, f.coinID).Return(f.coin, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.buyerID).Return(f.buyer, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.sellerID).Return(f.seller, nil).Once()

	_, err := suite.service.Purchase(ctx, f.coinID, f.buyerID, f.key)

	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockExchangeRepo.AssertNotCalled(suite.T(), "ExecutePurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestPurchase_DuplicateKeyDuringCommitReturnsExistingRecord() {
	ctx := context.Background()
	f := suite.purchaseFixture(40, 100)
	settled := &domain.TransactionRecord{TransactionID: uuid.NewString(), IdempotencyKey: f.key}

	// The key is free at the pre-check, but a concurrent retry commits it first.
	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCoinRepo.On("FindCoinByID", ctx, f.coinID).Return(f.coin, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.buyerID).Return(f.buyer, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.sellerID).Return(f.seller, nil).Once()
	suite.mockExchangeRepo.On("ExecutePurchase", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(settled, nil).Once()

	record, err := suite.service.Purchase(ctx, f.coinID, f.buyerID, f.key)

	suite.Require().NoError(err)
	suite.Equal(settled.TransactionID, record.TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestPurchase_RetriesOnStoreDeadlineThenSucceeds() {
	ctx := context.Background()
	f := suite.purchaseFixture(40, 100)

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(nil, apperrors.ErrNotFound).Once()
	// Both attempts re-read the full snapshot before writing.
	suite.mockCoinRepo.On("FindCoinByID", ctx, f.coinID).Return(f.coin, nil).Twice()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.buyerID).Return(f.buyer, nil).Twice()
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.sellerID).Return(f.seller, nil).Twice()
	suite.mockExchangeRepo.On("ExecutePurchase", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("failed to execute purchase: %w", context.DeadlineExceeded)).Once()
	suite.mockExchangeRepo.On("ExecutePurchase", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	record, err := suite.service.Purchase(ctx, f.coinID, f.buyerID, f.key)

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.Equal(f.buyerID, record.ToOwnerID)
	suite.mockCoinRepo.AssertNumberOfCalls(suite.T(), "FindCoinByID", 2)
	suite.mockExchangeRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestPurchase_ContentionAfterExhaustedRetries() {
	ctx := context.Background()
	f := suite.purchaseFixture(40, 100)

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, f.key).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCoinRepo.On("FindCoinByID", ctx, f.coinID).Return(f.coin, nil).Times(3)
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.buyerID).Return(f.buyer, nil).Times(3)
	suite.mockAccountRepo.On("FindAccountByID", ctx, f.sellerID).Return(f.seller, nil).Times(3)
	suite.mockExchangeRepo.On("ExecutePurchase", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict).Times(3)

	record, err := suite.service.Purchase(ctx, f.coinID, f.buyerID, f.key)

	suite.Require().Error(err)
	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrContention)
	suite.mockExchangeRepo.AssertExpectations(suite.T())
}

// --- Reads ---

func (suite *ExchangeServiceTestSuite) TestCoinHistory_UnknownCoin() {
	ctx := context.Background()
	coinID := uuid.NewString()

	suite.mockCoinRepo.On("FindCoinByID", ctx, coinID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CoinHistory(ctx, coinID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByCoin", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestCoinHistory_Success() {
	ctx := context.Background()
	coinID := uuid.NewString()
	coin := &domain.Coin{CoinID: coinID}
	records := []domain.TransactionRecord{
		{TransactionID: uuid.NewString(), CoinID: coinID},
		{TransactionID: uuid.NewString(), CoinID: coinID},
	}

	suite.mockCoinRepo.On("FindCoinByID", ctx, coinID).Return(coin, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByCoin", ctx, coinID).Return(records, nil).Once()

	got, err := suite.service.CoinHistory(ctx, coinID)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func (suite *ExchangeServiceTestSuite) TestListMarketplace_ClampsLimit() {
	ctx := context.Background()
	viewerID := uuid.NewString()

	suite.mockCoinRepo.On("ListListedCoins", ctx, viewerID, 20, (*string)(nil)).Return([]domain.Coin{}, nil, nil).Twice()

	_, _, err := suite.service.ListMarketplace(ctx, viewerID, 0, nil)
	suite.NoError(err)
	_, _, err = suite.service.ListMarketplace(ctx, viewerID, 500, nil)
	suite.NoError(err)

	suite.mockCoinRepo.AssertExpectations(suite.T())
}

// Run the suite
func TestExchangeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeServiceTestSuite))
}
