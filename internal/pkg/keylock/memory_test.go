package keylock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockUnlock(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	unlock, err = l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestMemoryLockBlocksUntilReleased(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u2, err := l.Lock(ctx, "k", time.Second)
		assert.NoError(t, err)
		close(acquired)
		_ = u2(ctx)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, unlock(ctx))

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock not acquired after release")
	}
}

func TestMemoryLockRespectsContext(t *testing.T) {
	l := NewMemory()

	unlock, err := l.Lock(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "k", time.Second)
	require.Error(t, err)
}

func TestMemoryEvictsUnusedKeyEntries(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	l.mu.Lock()
	assert.Empty(t, l.locks)
	l.mu.Unlock()

	// A waiter that gives up must not pin the entry either.
	unlock, err = l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(tctx, "k", time.Second)
	require.Error(t, err)

	require.NoError(t, unlock(ctx))

	l.mu.Lock()
	assert.Empty(t, l.locks)
	l.mu.Unlock()
}

func TestMemoryLocksAreIndependentPerKey(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	u1, err := l.Lock(ctx, "k1", time.Second)
	require.NoError(t, err)
	defer func() { _ = u1(ctx) }()

	u2, err := l.Lock(ctx, "k2", time.Second)
	require.NoError(t, err)
	defer func() { _ = u2(ctx) }()
}
