package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"gigpro/internal/caching"
	"gigpro/internal/models"
	"gigpro/internal/repositories"
)

type stubGigRepo struct {
	repositories.GigRepository
	gigs  []*models.Gig
	calls int
}

func (s *stubGigRepo) ListRemindersDue(_ context.Context, _, _ time.Time) ([]*models.Gig, error) {
	s.calls++
	return s.gigs, nil
}

type stubCache struct {
	data map[string]string
}

func (s *stubCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *stubCache) GetString(_ context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", caching.ErrCacheMiss
	}
	return v, nil
}

func (s *stubCache) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *stubCache) IsRateLimited(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	return false, nil
}

func (s *stubCache) IncrementRateLimit(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func TestScanOnce_MarksEachGigOnce(t *testing.T) {
	loc := stringPtr("River Hall")
	gig := &models.Gig{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Title:       "Summer Wedding",
		Date:        time.Now().UTC().Add(24 * time.Hour),
		Location:    loc,
		ReminderSet: true,
	}
	repo := &stubGigRepo{gigs: []*models.Gig{gig}}
	cache := &stubCache{data: make(map[string]string)}

	rs, err := NewReminderScheduler(repo, cache)
	assert.NoError(t, err)
	defer rs.Stop()

	assert.NoError(t, rs.ScanOnce(context.Background()))
	assert.Len(t, cache.data, 1)

	// A second pass sees the mark and stays quiet.
	assert.NoError(t, rs.ScanOnce(context.Background()))
	assert.Len(t, cache.data, 1)
	assert.Equal(t, 2, repo.calls)
}

func TestScanOnce_NoGigsDue(t *testing.T) {
	repo := &stubGigRepo{}
	cache := &stubCache{data: make(map[string]string)}

	rs, err := NewReminderScheduler(repo, cache)
	assert.NoError(t, err)
	defer rs.Stop()

	assert.NoError(t, rs.ScanOnce(context.Background()))
	assert.Empty(t, cache.data)
}

func stringPtr(s string) *string { return &s }
