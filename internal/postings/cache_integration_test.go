//go:build integration

package postings

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jonathan/jobboard/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_RoundTrip(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	cache, err := NewRedisCacheFromURL(redisURL)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	require.NoError(t, cache.Ping(ctx))

	key := "jobboard:test:" + time.Now().Format(time.RFC3339Nano)
	_, err = cache.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	posts := feed.FallbackPostings()
	require.NoError(t, cache.Set(ctx, key, posts, time.Minute))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Len(t, got, len(posts))
	assert.Equal(t, posts[0].ID, got[0].ID)

	require.NoError(t, cache.Delete(ctx, key))
	_, err = cache.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
