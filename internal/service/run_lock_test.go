package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRunLock(t *testing.T) {
	lock := NewLocalRunLock()
	ctx := context.Background()

	release, ok, err := lock.TryAcquire(ctx, AutoBookingLockName)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.TryAcquire(ctx, AutoBookingLockName)
	require.NoError(t, err)
	assert.False(t, ok)

	other, ok, err := lock.TryAcquire(ctx, "another")
	require.NoError(t, err)
	assert.True(t, ok)
	other()

	release()
	release()

	again, ok, err := lock.TryAcquire(ctx, AutoBookingLockName)
	require.NoError(t, err)
	assert.True(t, ok)
	again()
}
