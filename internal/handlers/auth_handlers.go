package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"gigpro/internal/caching"
	"gigpro/internal/common"
	"gigpro/internal/models"
	"gigpro/internal/repositories"
	"gigpro/internal/services"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// AuthHandlers handles registration, login and token refresh.
type AuthHandlers struct {
	userRepo repositories.UserRepository
	authSvc  services.AuthService
	cacheSvc caching.CacheService
}

// NewAuthHandlers creates a new auth handlers instance.
func NewAuthHandlers(userRepo repositories.UserRepository, authSvc services.AuthService, cacheSvc caching.CacheService) *AuthHandlers {
	return &AuthHandlers{
		userRepo: userRepo,
		authSvc:  authSvc,
		cacheSvc: cacheSvc,
	}
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email     string  `json:"email"`
		Password  string  `json:"password"`
		StageName *string `json:"stage_name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return common.SendValidationError(c, "email", "a valid email is required")
	}
	if len(req.Password) < 8 {
		return common.SendValidationError(c, "password", "must be at least 8 characters")
	}

	if _, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return common.SendValidationError(c, "email", "is already registered")
	} else if !errors.Is(err, common.ErrNotFound) {
		return common.SendServerError(c, "Failed to check existing account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return common.SendServerError(c, "Failed to hash password")
	}

	paymentTerms := models.DefaultPaymentTerms
	paymentMethod := models.DefaultPaymentMethod
	user := &models.User{
		ID:            uuid.New(),
		Email:         req.Email,
		PasswordHash:  string(hash),
		StageName:     req.StageName,
		PaymentTerms:  &paymentTerms,
		PaymentMethod: &paymentMethod,
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("register: failed to create user: %v", err)
		return common.SendServerError(c, "Failed to create account")
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to issue tokens")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"user":   user,
		"tokens": tokens,
	})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Per-address throttle on failed credentials guessing.
	rateKey := "login:" + c.RealIP()
	limited, err := h.cacheSvc.IsRateLimited(ctx, rateKey, loginRateLimit, loginRateWindow)
	if err != nil {
		log.Printf("login: rate limit check failed: %v", err)
	} else if limited {
		return c.JSON(http.StatusTooManyRequests,
			common.CreateErrorResponse("RATE_LIMITED", "Too many login attempts, try again later", nil))
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = h.cacheSvc.IncrementRateLimit(ctx, rateKey, loginRateWindow)
			return common.SendUnauthorizedError(c)
		}
		return common.SendServerError(c, "Failed to look up account")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		_ = h.cacheSvc.IncrementRateLimit(ctx, rateKey, loginRateWindow)
		return common.SendUnauthorizedError(c)
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to issue tokens")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "refresh_token", "is required")
	}

	tokens, err := h.authSvc.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.RefreshToken != "" {
		if err := h.authSvc.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
			log.Printf("logout: failed to revoke refresh token: %v", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// CurrentUser handles GET /auth/user
func (h *AuthHandlers) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.WriteError(c, "user", err)
	}
	return c.JSON(http.StatusOK, user)
}
