package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
	"github.com/verdantlabs/greencoin_backend/internal/utils"
)

var (
	ErrSpeciesRequired        = fmt.Errorf("%w: species is required", apperrors.ErrValidation)
	ErrPlantedInFuture        = fmt.Errorf("%w: planted date cannot be in the future", apperrors.ErrValidation)
	ErrNegativeImpact         = fmt.Errorf("%w: impact metric cannot be negative", apperrors.ErrValidation)
	ErrNonPositivePrice       = fmt.Errorf("%w: sale price must be positive", apperrors.ErrValidation)
	ErrCoinNotListed          = fmt.Errorf("%w: coin is not listed for sale", apperrors.ErrValidation)
	ErrSelfPurchase           = fmt.Errorf("%w: cannot purchase a coin you already own", apperrors.ErrValidation)
	ErrIdempotencyKeyRequired = fmt.Errorf("%w: idempotency key is required", apperrors.ErrValidation)
)

// maxWriteAttempts bounds the internal retry loop around version conflicts.
// Exhausting it surfaces apperrors.ErrContention; the caller resubmits
// explicitly rather than the service retrying across the public boundary.
const maxWriteAttempts = 3

// exchangeService is the exchange ledger: the one component allowed to move
// balances, tree counters, coin ownership and listing state. All writes go
// through the stores' compare-and-set contract; multi-entity groups go
// through the exchange repository's atomic units.
type exchangeService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	coinRepo     portsrepo.CoinRepositoryFacade
	txnRepo      portsrepo.TransactionRepositoryFacade
	exchangeRepo portsrepo.ExchangeRepository
}

// NewExchangeService creates a new exchange ledger service.
func NewExchangeService(
	accountRepo portsrepo.AccountRepositoryFacade,
	coinRepo portsrepo.CoinRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	exchangeRepo portsrepo.ExchangeRepository,
) portssvc.ExchangeSvcFacade {
	return &exchangeService{
		accountRepo:  accountRepo,
		coinRepo:     coinRepo,
		txnRepo:      txnRepo,
		exchangeRepo: exchangeRepo,
	}
}

var _ portssvc.ExchangeSvcFacade = (*exchangeService)(nil)

// retryable reports whether a failed write attempt may be retried from a
// fresh snapshot. A store deadline expiry is treated exactly like a version
// conflict: the attempt aborted with nothing partial visible.
func retryable(err error) bool {
	return errors.Is(err, apperrors.ErrConflict) || errors.Is(err, context.DeadlineExceeded)
}

// newProvenanceLabel generates the opaque display label stamped on a coin at
// mint time. Display only; no invariant may ever read it.
func newProvenanceLabel() string {
	suffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		suffix = uuid.NewString()[:8]
	}
	return fmt.Sprintf("GCX-%d-%s", time.Now().UnixMilli(), strings.ToUpper(suffix))
}

func (s *exchangeService) Mint(ctx context.Context, ownerID string, req dto.MintCoinRequest) (*domain.Coin, error) {
	if strings.TrimSpace(req.Species) == "" {
		return nil, ErrSpeciesRequired
	}
	if req.PlantedDate.After(time.Now()) {
		return nil, ErrPlantedInFuture
	}
	if req.ImpactKg.IsNegative() {
		return nil, ErrNegativeImpact
	}

	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		owner, err := s.accountRepo.FindAccountByID(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load mint owner %s: %w", ownerID, err)
		}

		now := time.Now()
		coin := domain.Coin{
			CoinID:          uuid.NewString(),
			OwnerID:         ownerID,
			CreatorID:       ownerID,
			Species:         req.Species,
			PlantedDate:     req.PlantedDate,
			LocationName:    req.LocationName,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
			ImpactKg:        req.ImpactKg,
			Notes:           req.Notes,
			ImageURL:        req.ImageURL,
			ProvenanceLabel: newProvenanceLabel(),
			Listing:         domain.NotListed(),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}

		err = s.exchangeRepo.SaveCoinAndIncrementTrees(ctx, coin, *owner)
		if err == nil {
			s.LogInfo(ctx, "Coin minted",
				slog.String("coin_id", coin.CoinID),
				slog.String("owner_id", ownerID),
				slog.String("species", coin.Species))
			return &coin, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
		s.LogDebug(ctx, "Mint lost a version race, retrying from fresh snapshot",
			slog.String("owner_id", ownerID),
			slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("%w: mint for owner %s: %v", apperrors.ErrContention, ownerID, lastErr)
}

func (s *exchangeService) ListForSale(ctx context.Context, coinID string, callerID string, price decimal.Decimal) (*domain.Coin, error) {
	if !price.IsPositive() {
		return nil, ErrNonPositivePrice
	}

	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		coin, err := s.coinRepo.FindCoinByID(ctx, coinID)
		if err != nil {
			return nil, err
		}
		// Ownership is re-checked on every attempt; the coin may have been
		// sold between our read and our write.
		if !coin.IsOwnedBy(callerID) {
			return nil, fmt.Errorf("%w: account %s does not own coin %s", apperrors.ErrNotOwner, callerID, coinID)
		}

		// Listing an already listed coin replaces the price.
		coin.Listing = domain.Listed(price)
		coin.LastUpdatedAt = time.Now()

		err = s.coinRepo.UpdateCoinCAS(ctx, *coin)
		if err == nil {
			s.LogInfo(ctx, "Coin listed for sale",
				slog.String("coin_id", coinID),
				slog.String("owner_id", callerID),
				slog.String("price", price.String()))
			return coin, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: list coin %s: %v", apperrors.ErrContention, coinID, lastErr)
}

func (s *exchangeService) Unlist(ctx context.Context, coinID string, callerID string) (*domain.Coin, error) {
	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		coin, err := s.coinRepo.FindCoinByID(ctx, coinID)
		if err != nil {
			return nil, err
		}
		if !coin.IsOwnedBy(callerID) {
			return nil, fmt.Errorf("%w: account %s does not own coin %s", apperrors.ErrNotOwner, callerID, coinID)
		}
		if !coin.Listing.ForSale {
			return coin, nil
		}

		coin.Listing = domain.NotListed()
		coin.LastUpdatedAt = time.Now()

		err = s.coinRepo.UpdateCoinCAS(ctx, *coin)
		if err == nil {
			s.LogInfo(ctx, "Coin unlisted",
				slog.String("coin_id", coinID),
				slog.String("owner_id", callerID))
			return coin, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: unlist coin %s: %v", apperrors.ErrContention, coinID, lastErr)
}

func (s *exchangeService) Purchase(ctx context.Context, coinID string, buyerID string, idempotencyKey string) (*domain.TransactionRecord, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return nil, ErrIdempotencyKeyRequired
	}

	// A key that already settled is returned as-is: the client retried an
	// ambiguous failure and must not be charged twice.
	existing, err := s.txnRepo.FindTransactionByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		s.LogInfo(ctx, "Purchase replayed from idempotency key",
			slog.String("idempotency_key", idempotencyKey),
			slog.String("transaction_id", existing.TransactionID))
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		record, err := s.attemptPurchase(ctx, coinID, buyerID, idempotencyKey)
		if err == nil {
			return record, nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent retry carrying the same key committed first; its
			// record is the canonical result.
			return s.txnRepo.FindTransactionByIdempotencyKey(ctx, idempotencyKey)
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
		s.LogDebug(ctx, "Purchase lost a version race, retrying from fresh snapshot",
			slog.String("coin_id", coinID),
			slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("%w: purchase of coin %s: %v", apperrors.ErrContention, coinID, lastErr)
}

// attemptPurchase runs one optimistic attempt: take a consistent snapshot,
// validate every precondition against it, then hand the whole write group to
// the exchange repository. Any version conflict aborts the group with nothing
// partial visible; the caller decides whether to retry.
func (s *exchangeService) attemptPurchase(ctx context.Context, coinID string, buyerID string, idempotencyKey string) (*domain.TransactionRecord, error) {
	coin, err := s.coinRepo.FindCoinByID(ctx, coinID)
	if err != nil {
		return nil, err
	}
	if !coin.Listing.ForSale {
		return nil, ErrCoinNotListed
	}
	if coin.IsOwnedBy(buyerID) {
		return nil, ErrSelfPurchase
	}
	price := coin.Listing.Price

	buyer, err := s.accountRepo.FindAccountByID(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load buyer %s: %w", buyerID, err)
	}
	seller, err := s.accountRepo.FindAccountByID(ctx, coin.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller %s: %w", coin.OwnerID, err)
	}
	if !buyer.CanAfford(price) {
		return nil, fmt.Errorf("%w: balance %s below listed price %s",
			apperrors.ErrInsufficientBalance, buyer.Balance.String(), price.String())
	}

	now := time.Now()

	debited := *buyer
	debited.Balance = buyer.Balance.Sub(price)
	debited.LastUpdatedAt = now

	credited := *seller
	credited.Balance = seller.Balance.Add(price)
	credited.LastUpdatedAt = now

	transferred := *coin
	transferred.OwnerID = buyerID
	transferred.Listing = domain.NotListed()
	transferred.LastUpdatedAt = now

	record := domain.TransactionRecord{
		TransactionID:  uuid.NewString(),
		CoinID:         coinID,
		FromOwnerID:    seller.AccountID,
		ToOwnerID:      buyerID,
		Price:          price,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
	}

	if err := s.exchangeRepo.ExecutePurchase(ctx, record, debited, credited, transferred); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Purchase settled",
		slog.String("transaction_id", record.TransactionID),
		slog.String("coin_id", coinID),
		slog.String("from_owner_id", record.FromOwnerID),
		slog.String("to_owner_id", record.ToOwnerID),
		slog.String("price", price.String()))
	return &record, nil
}

func (s *exchangeService) GetCoinByID(ctx context.Context, coinID string) (*domain.Coin, error) {
	return s.coinRepo.FindCoinByID(ctx, coinID)
}

func (s *exchangeService) ListOwnedCoins(ctx context.Context, ownerID string) ([]domain.Coin, error) {
	return s.coinRepo.ListCoinsByOwner(ctx, ownerID)
}

func (s *exchangeService) ListMarketplace(ctx context.Context, viewerID string, limit int, nextToken *string) ([]domain.Coin, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.coinRepo.ListListedCoins(ctx, viewerID, limit, nextToken)
}

func (s *exchangeService) CoinHistory(ctx context.Context, coinID string) ([]domain.TransactionRecord, error) {
	// Verify the coin exists so a bogus id is a 404, not an empty trail.
	if _, err := s.coinRepo.FindCoinByID(ctx, coinID); err != nil {
		return nil, err
	}
	return s.txnRepo.ListTransactionsByCoin(ctx, coinID)
}
