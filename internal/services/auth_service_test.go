package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"gigpro/internal/caching"
	"gigpro/internal/common"
)

// memoryCache is an in-process CacheService for exercising the token flows
// without Redis.
type memoryCache struct {
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (m *memoryCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryCache) GetString(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", caching.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) IsRateLimited(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	return false, nil
}

func (m *memoryCache) IncrementRateLimit(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

const testSecret = "test-secret-0123456789abcdef"

func TestGenerateTokens_ClaimsAndStorage(t *testing.T) {
	cache := newMemoryCache()
	svc := NewAuthService(cache, testSecret, 900, 3600)
	userID := uuid.New()

	tokens, err := svc.GenerateTokens(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, 900, tokens.ExpiresIn)
	assert.NotEmpty(t, tokens.RefreshToken)

	parsed, err := jwt.ParseWithClaims(tokens.AccessToken, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.NoError(t, err)

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "gigpro-auth", claims.Issuer)

	// The raw refresh token is never stored, only its hash.
	assert.Len(t, cache.data, 1)
	for key := range cache.data {
		assert.NotContains(t, key, tokens.RefreshToken)
	}
}

func TestRefreshToken_RotatesSingleUse(t *testing.T) {
	cache := newMemoryCache()
	svc := NewAuthService(cache, testSecret, 900, 3600)
	userID := uuid.New()

	initial, err := svc.GenerateTokens(context.Background(), userID)
	assert.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), initial.RefreshToken)
	assert.NoError(t, err)
	assert.NotEqual(t, initial.RefreshToken, refreshed.RefreshToken)

	// The spent token cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), initial.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// The rotated token still works.
	_, err = svc.RefreshToken(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshToken_UnknownToken(t *testing.T) {
	svc := NewAuthService(newMemoryCache(), testSecret, 900, 3600)

	_, err := svc.RefreshToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRevokeRefreshToken(t *testing.T) {
	cache := newMemoryCache()
	svc := NewAuthService(cache, testSecret, 900, 3600)

	tokens, err := svc.GenerateTokens(context.Background(), uuid.New())
	assert.NoError(t, err)

	assert.NoError(t, svc.RevokeRefreshToken(context.Background(), tokens.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
