package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
	"github.com/verdantlabs/greencoin_backend/internal/middleware"
)

// coinHandler handles HTTP requests for coins: minting, listing state,
// ownership queries, provenance history and purchases.
type coinHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
}

func newCoinHandler(es portssvc.ExchangeSvcFacade) *coinHandler {
	return &coinHandler{exchangeService: es}
}

// RegisterCoinRoutes registers routes related to coins. Exported so the
// handler tests can mount the group on a bare router.
func RegisterCoinRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade) {
	h := newCoinHandler(exchangeService)

	coins := rg.Group("/coins")
	{
		coins.POST("", h.mintCoin)
		coins.GET("", h.listOwnedCoins)
		coins.GET("/:id", h.getCoin)
		coins.PUT("/:id/listing", h.listCoinForSale)
		coins.DELETE("/:id/listing", h.unlistCoin)
		coins.GET("/:id/history", h.getCoinHistory)
		coins.POST("/:id/purchase", h.purchaseCoin)
	}
}

// mintCoin godoc
// @Summary Mint a new coin
// @Description Registers a planted tree as a new coin owned by the caller and increments the caller's trees planted count.
// @Tags coins
// @Accept json
// @Produce json
// @Param coin body dto.MintCoinRequest true "Tree details"
// @Success 201 {object} dto.CoinResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Persistent write contention"
// @Failure 500 {object} ErrorResponse "Failed to mint coin"
// @Security BearerAuth
// @Router /coins [post]
func (h *coinHandler) mintCoin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.MintCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	coin, err := h.exchangeService.Mint(c.Request.Context(), accountID, req)
	if err != nil {
		h.respondExchangeError(c, err, "Failed to mint coin")
		return
	}

	logger.Info("Coin minted", slog.String("coin_id", coin.CoinID))
	c.JSON(http.StatusCreated, dto.ToCoinResponse(coin))
}

// listOwnedCoins godoc
// @Summary List the caller's coins
// @Description Retrieves every coin currently held by the caller, newest first.
// @Tags coins
// @Produce json
// @Success 200 {object} dto.ListCoinsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list coins"
// @Security BearerAuth
// @Router /coins [get]
func (h *coinHandler) listOwnedCoins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	coins, err := h.exchangeService.ListOwnedCoins(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to list owned coins", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list coins"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCoinsResponse(coins))
}

// getCoin godoc
// @Summary Get a coin by ID
// @Description Retrieves a coin with its current owner and listing state.
// @Tags coins
// @Produce json
// @Param id path string true "Coin ID"
// @Success 200 {object} dto.CoinResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Coin not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve coin"
// @Security BearerAuth
// @Router /coins/{id} [get]
func (h *coinHandler) getCoin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	coinID := c.Param("id")

	coin, err := h.exchangeService.GetCoinByID(c.Request.Context(), coinID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Coin not found"})
		} else {
			logger.Error("Failed to get coin", slog.String("error", err.Error()), slog.String("coin_id", coinID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve coin"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCoinResponse(coin))
}

// listCoinForSale godoc
// @Summary List a coin for sale
// @Description Puts the coin up for sale at the given price, or replaces the price if already listed. Owner only.
// @Tags coins
// @Accept json
// @Produce json
// @Param id path string true "Coin ID"
// @Param listing body dto.ListCoinRequest true "Sale price"
// @Success 200 {object} dto.CoinResponse
// @Failure 400 {object} ErrorResponse "Invalid price"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the coin's owner"
// @Failure 404 {object} ErrorResponse "Coin not found"
// @Failure 409 {object} ErrorResponse "Persistent write contention"
// @Failure 500 {object} ErrorResponse "Failed to list coin"
// @Security BearerAuth
// @Router /coins/{id}/listing [put]
func (h *coinHandler) listCoinForSale(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ListCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	coin, err := h.exchangeService.ListForSale(c.Request.Context(), c.Param("id"), accountID, req.Price)
	if err != nil {
		h.respondExchangeError(c, err, "Failed to list coin")
		return
	}

	c.JSON(http.StatusOK, dto.ToCoinResponse(coin))
}

// unlistCoin godoc
// @Summary Take a coin off sale
// @Description Removes the coin's listing. Unlisting an unlisted coin succeeds with no effect. Owner only.
// @Tags coins
// @Produce json
// @Param id path string true "Coin ID"
// @Success 200 {object} dto.CoinResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the coin's owner"
// @Failure 404 {object} ErrorResponse "Coin not found"
// @Failure 409 {object} ErrorResponse "Persistent write contention"
// @Failure 500 {object} ErrorResponse "Failed to unlist coin"
// @Security BearerAuth
// @Router /coins/{id}/listing [delete]
func (h *coinHandler) unlistCoin(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	coin, err := h.exchangeService.Unlist(c.Request.Context(), c.Param("id"), accountID)
	if err != nil {
		h.respondExchangeError(c, err, "Failed to unlist coin")
		return
	}

	c.JSON(http.StatusOK, dto.ToCoinResponse(coin))
}

// getCoinHistory godoc
// @Summary Get a coin's provenance trail
// @Description Retrieves the coin's ledger records oldest first, one per completed sale.
// @Tags coins
// @Produce json
// @Param id path string true "Coin ID"
// @Success 200 {object} dto.CoinHistoryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Coin not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve history"
// @Security BearerAuth
// @Router /coins/{id}/history [get]
func (h *coinHandler) getCoinHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	coinID := c.Param("id")

	records, err := h.exchangeService.CoinHistory(c.Request.Context(), coinID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Coin not found"})
		} else {
			logger.Error("Failed to get coin history", slog.String("error", err.Error()), slog.String("coin_id", coinID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve history"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCoinHistoryResponse(coinID, records))
}

// purchaseCoin godoc
// @Summary Purchase a listed coin
// @Description Buys the coin at its listed price, moving money and ownership together. The idempotency key may come from the body or the Idempotency-Key header; resubmitting a settled key returns the original record.
// @Tags coins
// @Accept json
// @Produce json
// @Param id path string true "Coin ID"
// @Param purchase body dto.PurchaseRequest false "Idempotency key"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or coin not listed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Coin not found"
// @Failure 409 {object} ErrorResponse "Persistent write contention"
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Failure 500 {object} ErrorResponse "Failed to purchase coin"
// @Security BearerAuth
// @Router /coins/{id}/purchase [post]
func (h *coinHandler) purchaseCoin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.PurchaseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}
	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = c.GetHeader("Idempotency-Key")
	}

	record, err := h.exchangeService.Purchase(c.Request.Context(), c.Param("id"), accountID, idempotencyKey)
	if err != nil {
		h.respondExchangeError(c, err, "Failed to purchase coin")
		return
	}

	logger.Info("Purchase completed", slog.String("transaction_id", record.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(record))
}

// respondExchangeError maps exchange ledger errors onto HTTP statuses.
func (h *coinHandler) respondExchangeError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrContention), errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
