package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRunLockExclusive(t *testing.T) {
	srv, client := newRedis(t)
	lock := NewRedisRunLock(client, time.Minute)
	ctx := context.Background()

	release, ok, err := lock.TryAcquire(ctx, "auto-booking:run")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.TryAcquire(ctx, "auto-booking:run")
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, srv.Exists("auto-booking:run"))

	release2, ok, err := lock.TryAcquire(ctx, "auto-booking:run")
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}

func TestRedisRunLockLeaseExpiry(t *testing.T) {
	srv, client := newRedis(t)
	lock := NewRedisRunLock(client, time.Second)
	ctx := context.Background()

	staleRelease, ok, err := lock.TryAcquire(ctx, "auto-booking:run")
	require.NoError(t, err)
	require.True(t, ok)

	srv.FastForward(2 * time.Second)

	release, ok, err := lock.TryAcquire(ctx, "auto-booking:run")
	require.NoError(t, err)
	require.True(t, ok)

	staleRelease()
	assert.True(t, srv.Exists("auto-booking:run"), "stale holder must not release the new lease")
	release()
	assert.False(t, srv.Exists("auto-booking:run"))
}

func TestRedisRunLockUnavailable(t *testing.T) {
	srv, client := newRedis(t)
	srv.Close()

	_, ok, err := NewRedisRunLock(client, time.Minute).TryAcquire(context.Background(), "auto-booking:run")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisRunLockRenewsLeaseWhileHeld(t *testing.T) {
	srv, client := newRedis(t)
	lock := NewRedisRunLock(client, 90*time.Millisecond)

	release, ok, err := lock.TryAcquire(context.Background(), "auto-booking:run")
	require.NoError(t, err)
	require.True(t, ok)

	srv.FastForward(80 * time.Millisecond)
	require.Eventually(t, func() bool {
		return srv.TTL("auto-booking:run") > 50*time.Millisecond
	}, time.Second, 10*time.Millisecond, "lease should be extended while the run is active")

	srv.FastForward(80 * time.Millisecond)
	require.Eventually(t, func() bool {
		return srv.Exists("auto-booking:run") && srv.TTL("auto-booking:run") > 50*time.Millisecond
	}, time.Second, 10*time.Millisecond)

	release()
	release()
	assert.False(t, srv.Exists("auto-booking:run"))
}
