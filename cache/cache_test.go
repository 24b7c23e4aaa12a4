package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"weather-panel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIcons struct {
	calls map[string]int
	err   error
}

func (s *stubIcons) FetchIcon(ctx context.Context, code string) (models.Icon, error) {
	s.calls[code]++
	if s.err != nil {
		return models.Icon{}, s.err
	}
	return models.Icon{Code: code, MIME: "image/png"}, nil
}

func (s *stubIcons) Name() string { return "Stub" }

func TestCachedIconSourceHitsAndExpiry(t *testing.T) {
	inner := &stubIcons{calls: map[string]int{}}
	cached := NewCachedIconSource(inner, time.Minute)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return clock }

	assert.Equal(t, "Stub [Cached]", cached.Name())

	for i := 0; i < 3; i++ {
		icon, err := cached.FetchIcon(context.Background(), "10d")
		require.NoError(t, err)
		assert.Equal(t, "10d", icon.Code)
	}
	_, err := cached.FetchIcon(context.Background(), "01n")
	require.NoError(t, err)

	hits, misses := cached.CacheStats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 2, misses)
	assert.Equal(t, 1, inner.calls["10d"])

	clock = clock.Add(2 * time.Minute)
	_, err = cached.FetchIcon(context.Background(), "10d")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls["10d"])
}

func TestCachedIconSourceDoesNotCacheErrors(t *testing.T) {
	inner := &stubIcons{calls: map[string]int{}, err: errors.New("boom")}
	cached := NewCachedIconSource(inner, time.Hour)

	_, err := cached.FetchIcon(context.Background(), "10d")
	require.Error(t, err)

	inner.err = nil
	icon, err := cached.FetchIcon(context.Background(), "10d")
	require.NoError(t, err)
	assert.Equal(t, "10d", icon.Code)
	assert.Equal(t, 2, inner.calls["10d"])
}
