package caching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent. Callers treat it as "not
// found", never as a failure.
var ErrCacheMiss = errors.New("cache miss")

// CacheService backs refresh-token storage and login rate limiting. Invoice
// aggregates are deliberately not cached: the dashboard recomputes them from
// the store on every request.
type CacheService interface {
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to Redis. Addresses may be given either as
// host:port or as a redis:// URL.
func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (s *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := s.client.Get(ctx, rateLimitKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= limit, nil
}

func (s *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	rk := rateLimitKey(key)
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, rk)
	pipe.Expire(ctx, rk, window)
	_, err := pipe.Exec(ctx)
	return err
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("rate_limit:%s", key)
}
