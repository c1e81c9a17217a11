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
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/core/services"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
	"github.com/verdantlabs/greencoin_backend/internal/platform/config"
	"github.com/verdantlabs/greencoin_backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	cfg      *config.Config
	service  portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "greencoin-test",
		StartingBalance:   decimal.NewFromInt(100),
	}
	suite.service = services.NewAuthService(suite.cfg, suite.mockRepo)
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		DisplayName: "Ada",
		Email:       "  Ada@Example.COM ",
		Password:    "hunter2hunter2",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Email == "ada@example.com" &&
			a.Balance.Equal(decimal.NewFromInt(100)) &&
			a.TreesPlanted == 0 &&
			a.PasswordHash != "" &&
			a.PasswordHash != req.Password
	})).Return(nil).Once()

	account, token, expiresAt, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal(account.AccountID, claims.Subject)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{DisplayName: "Ada", Email: "ada@example.com", Password: "hunter2hunter2"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	account, _, _, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("hunter2hunter2")
	suite.Require().NoError(err)
	stored := &domain.Account{AccountID: "acc-1", Email: "ada@example.com", PasswordHash: hash}

	suite.mockRepo.On("FindAccountByEmail", ctx, "ada@example.com").Return(stored, nil).Once()

	account, token, _, err := suite.service.Login(ctx, dto.LoginRequest{
		Email:    "Ada@Example.com",
		Password: "hunter2hunter2",
	})

	suite.Require().NoError(err)
	suite.Equal("acc-1", account.AccountID)
	suite.NotEmpty(token)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("hunter2hunter2")
	suite.Require().NoError(err)
	stored := &domain.Account{AccountID: "acc-1", Email: "ada@example.com", PasswordHash: hash}

	suite.mockRepo.On("FindAccountByEmail", ctx, "ada@example.com").Return(stored, nil).Once()

	_, _, _, err = suite.service.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailLooksLikeWrongPassword() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByEmail", ctx, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound).Once()

	_, _, _, err := suite.service.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	// Unknown email and wrong password must be indistinguishable.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
