package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
	"github.com/verdantlabs/greencoin_backend/internal/middleware"
)

// authHandler handles registration and login.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, authService portssvc.AuthSvcFacade) {
	h := newAuthHandler(authService)

	// Credential endpoints get a tighter limit than the rest of the API.
	rate, _ := limiter.NewRateFromFormatted("10-M")
	ipLimiter := limiter.New(limitermem.NewStore(), rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/register", limitMiddleware, h.register)
		auth.POST("/login", limitMiddleware, h.login)
	}
}

// register godoc
// @Summary Register a new account
// @Description Creates an account with the configured starting balance and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse "Failed to register"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	account, token, expiresAt, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Registration rejected, email already in use")
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to register account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register"})
		}
		return
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   dto.ToAccountResponse(account),
	})
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Invalid email or password"
// @Failure 500 {object} ErrorResponse "Failed to log in"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	account, token, expiresAt, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		} else {
			logger.Error("Failed to log in", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		}
		return
	}

	logger.Info("Account logged in", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   dto.ToAccountResponse(account),
	})
}
