package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	srv, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	var out map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "preview:all", &out), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "preview:all", map[string]int{"totalUsers": 4}, time.Minute))
	require.NoError(t, repo.Get(ctx, "preview:all", &out))
	assert.Equal(t, 4, out["totalUsers"])

	srv.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "preview:all", &out), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	srv, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "auto-booking:preview:a", 1, time.Minute))
	require.NoError(t, repo.Set(ctx, "auto-booking:preview:b", 2, time.Minute))
	require.NoError(t, repo.Set(ctx, "other", 3, time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "auto-booking:preview:*"))
	assert.False(t, srv.Exists("auto-booking:preview:a"))
	assert.False(t, srv.Exists("auto-booking:preview:b"))
	assert.True(t, srv.Exists("other"))
}

func TestCacheRepositoryDropsCorruptEntries(t *testing.T) {
	srv, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	require.NoError(t, srv.Set("broken", "{not json"))

	var out map[string]int
	assert.ErrorIs(t, repo.Get(context.Background(), "broken", &out), appErrors.ErrCacheMiss)
	assert.False(t, srv.Exists("broken"))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var out int
	assert.ErrorIs(t, repo.Get(ctx, "k", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", 1, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "*"))
}
