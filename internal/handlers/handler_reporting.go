package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
	"github.com/verdantlabs/greencoin_backend/internal/middleware"
)

// reportingHandler serves the leaderboard projection.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the leaderboard route.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)
	rg.GET("/leaderboard", h.leaderboard)
}

// leaderboard godoc
// @Summary Get the leaderboard
// @Description Retrieves accounts ranked descending by the chosen metric. Ties break by account ID for a stable order.
// @Tags reporting
// @Produce json
// @Param sortBy query string false "Sort key: trees_planted, coin_count or total_impact" default(trees_planted)
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} ErrorResponse "Unknown sort key"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build leaderboard"
// @Security BearerAuth
// @Router /leaderboard [get]
func (h *reportingHandler) leaderboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	raw := c.DefaultQuery("sortBy", string(domain.SortByTreesPlanted))
	sortKey, ok := domain.ParseLeaderboardSortKey(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown sort key: " + raw})
		return
	}

	entries, err := h.reportingService.Leaderboard(c.Request.Context(), sortKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to build leaderboard", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build leaderboard"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaderboardResponse(sortKey, entries))
}
