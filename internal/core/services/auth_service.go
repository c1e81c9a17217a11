package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
	"github.com/verdantlabs/greencoin_backend/internal/platform/config"
	"github.com/verdantlabs/greencoin_backend/internal/utils"
)

// authService is the identity collaborator: account registration, credential
// checks and access token issuance. The rest of the core only ever sees the
// authenticated account id the middleware extracts from these tokens.
type authService struct {
	BaseService
	cfg         *config.Config
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, accountRepo portsrepo.AccountRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, accountRepo: accountRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, string, time.Time, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		DisplayName:  req.DisplayName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Balance:      s.cfg.StartingBalance,
		TreesPlanted: 0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, "", time.Time{}, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		return nil, "", time.Time{}, fmt.Errorf("failed to save account: %w", err)
	}

	token, expiresAt, err := s.issueToken(account.AccountID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.LogInfo(ctx, "Account registered",
		slog.String("account_id", account.AccountID),
		slog.String("starting_balance", account.Balance.String()))
	return &account, token, expiresAt, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.Account, string, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.accountRepo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a wrong password; do not leak which emails exist.
			return nil, "", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, "", time.Time{}, err
	}

	if !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		s.LogWarn(ctx, "Failed login attempt", slog.String("account_id", account.AccountID))
		return nil, "", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := s.issueToken(account.AccountID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, expiresAt, nil
}

func (s *authService) issueToken(accountID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(accountID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}
