package services

import (
	"context"
	"time"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
)

// AuthSvcFacade is the identity collaborator: it creates accounts and issues
// the access tokens from which handlers take the caller's account identifier.
// Nothing else in the core trusts any other source of identity.
type AuthSvcFacade interface {
	// Register creates a new account with the configured starting balance and
	// returns it together with a signed access token.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, string, time.Time, error)

	// Login verifies credentials and returns the account plus a signed access
	// token. Returns apperrors.ErrUnauthorized for bad credentials.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.Account, string, time.Time, error)
}
