package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynbosch/menuflow/pkg/adapters/redis"
)

func TestLocker_LockAndUnlock(t *testing.T) {
	mr, client := newTestClient(t)

	locker := redis.NewLocker(client, "menuflow:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "user-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("menuflow:lock:user-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("menuflow:lock:user-1"))
}

func TestLocker_ContendedLockTimesOut(t *testing.T) {
	_, client := newTestClient(t)

	locker := redis.NewLocker(client, "menuflow:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "user-1", 30*time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	// A second acquisition for the same user must block until the
	// context gives up.
	shortCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(shortCtx, "user-1", 30*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_UnlockIsOwnershipChecked(t *testing.T) {
	mr, client := newTestClient(t)

	locker := redis.NewLocker(client, "menuflow:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "user-1", 5*time.Second)
	require.NoError(t, err)

	// Simulate the lock expiring and another replica re-acquiring it.
	require.NoError(t, mr.Set("menuflow:lock:user-1", "someone-else"))

	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("menuflow:lock:user-1"), "unlock must not delete a lock it no longer owns")
}
