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

// marketplaceHandler serves the browse view of coins currently for sale.
type marketplaceHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
}

func newMarketplaceHandler(es portssvc.ExchangeSvcFacade) *marketplaceHandler {
	return &marketplaceHandler{exchangeService: es}
}

// registerMarketplaceRoutes registers the marketplace browse route.
func registerMarketplaceRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade) {
	h := newMarketplaceHandler(exchangeService)
	rg.GET("/marketplace", h.browse)
}

// browse godoc
// @Summary Browse coins for sale
// @Description Retrieves listed coins excluding the caller's own, newest first, with opaque-token pagination.
// @Tags marketplace
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque pagination token from the previous page"
// @Success 200 {object} dto.MarketplaceResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to browse marketplace"
// @Security BearerAuth
// @Router /marketplace [get]
func (h *marketplaceHandler) browse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.MarketplaceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	coins, nextToken, err := h.exchangeService.ListMarketplace(c.Request.Context(), accountID, params.Limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to browse marketplace", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to browse marketplace"})
		}
		return
	}

	out := make([]dto.CoinResponse, len(coins))
	for i := range coins {
		out[i] = dto.ToCoinResponse(&coins[i])
	}
	c.JSON(http.StatusOK, dto.MarketplaceResponse{Coins: out, NextToken: nextToken})
}
