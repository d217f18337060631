package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gigpro/internal/caching"
	"gigpro/internal/common"
	"gigpro/internal/models"
)

// AuthService issues and refreshes the JWT access tokens the API runs on.
// Refresh tokens are opaque random strings, stored hashed in Redis.
type AuthService interface {
	GenerateTokens(ctx context.Context, userID uuid.UUID) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

type authService struct {
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   int // Access token TTL in seconds
	refreshTTL int // Refresh token TTL in seconds
}

// NewAuthService creates a new authentication service.
func NewAuthService(cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

func (s *authService) GenerateTokens(ctx context.Context, userID uuid.UUID) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Issuer:    "gigpro-auth",
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{"gigpro-api"},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        tokenID,
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken := s.generateSecureToken()
	refreshTokenHash := s.hashToken(refreshToken)

	expiry := now.Unix() + int64(s.refreshTTL)
	value := fmt.Sprintf("%s:%d", userID.String(), expiry)
	if err := s.cacheSvc.SetString(ctx, refreshTokenCacheKey(refreshTokenHash), value, time.Duration(s.refreshTTL)*time.Second); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	hash := s.hashToken(refreshToken)
	key := refreshTokenCacheKey(hash)

	stored, err := s.cacheSvc.GetString(ctx, key)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return nil, common.ErrUnauthorized
	}
	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	// Rotate: the presented token is single use.
	if err := s.cacheSvc.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.GenerateTokens(ctx, userID)
}

func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return s.cacheSvc.Delete(ctx, refreshTokenCacheKey(s.hashToken(refreshToken)))
}

func (s *authService) generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("secure token generation failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *authService) hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func refreshTokenCacheKey(hash string) string {
	return fmt.Sprintf("refresh_token:%s", hash)
}
