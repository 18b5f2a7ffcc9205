package store

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

func newMemoryStore(t *testing.T) (*Memory, *stubClock) {
	t.Helper()

	clk := &stubClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	m := NewMemory(clk)
	t.Cleanup(func() { _ = m.Close() })

	return m, clk
}

func challengeFor(identity string, clk *stubClock) entity.Challenge {
	return entity.Challenge{
		Identity:          identity,
		CodeHash:          "hash-one",
		CreatedAt:         clk.now,
		LastSentAt:        clk.now,
		ExpiresAt:         clk.now.Add(10 * time.Minute),
		AttemptsRemaining: 3,
	}
}

func TestMemoryPutGet(t *testing.T) {
	m, clk := newMemoryStore(t)
	ctx := context.Background()

	_, err := m.Get(ctx, "a@b.com")
	require.ErrorIs(t, err, goerror.ErrNotFound)

	ch := challengeFor("a@b.com", clk)
	require.NoError(t, m.Put(ctx, ch))

	got, err := m.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, ch, *got)
}

func TestMemoryPutReplacesWholesale(t *testing.T) {
	m, clk := newMemoryStore(t)
	ctx := context.Background()

	first := challengeFor("a@b.com", clk)
	first.AttemptsRemaining = 1
	require.NoError(t, m.Put(ctx, first))

	second := challengeFor("a@b.com", clk)
	second.CodeHash = "hash-two"
	require.NoError(t, m.Put(ctx, second))

	got, err := m.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-two", got.CodeHash)
	assert.Equal(t, 3, got.AttemptsRemaining)
}

func TestMemoryUpdateRequiresExisting(t *testing.T) {
	m, clk := newMemoryStore(t)
	ctx := context.Background()

	ch := challengeFor("a@b.com", clk)
	require.ErrorIs(t, m.Update(ctx, ch), goerror.ErrNotFound)

	require.NoError(t, m.Put(ctx, ch))
	ch.AttemptsRemaining = 2
	require.NoError(t, m.Update(ctx, ch))

	got, err := m.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 2, got.AttemptsRemaining)
}

func TestMemoryDeleteIsIdempotent(t *testing.T) {
	m, clk := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, m.Delete(ctx, "a@b.com"))

	require.NoError(t, m.Put(ctx, challengeFor("a@b.com", clk)))
	require.NoError(t, m.Delete(ctx, "a@b.com"))
	require.NoError(t, m.Delete(ctx, "a@b.com"))

	_, err := m.Get(ctx, "a@b.com")
	require.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestMemorySweepEvictsExpired(t *testing.T) {
	m, clk := newMemoryStore(t)
	ctx := context.Background()

	live := challengeFor("live@b.com", clk)
	dead := challengeFor("dead@b.com", clk)
	dead.ExpiresAt = clk.now.Add(time.Minute)
	require.NoError(t, m.Put(ctx, live))
	require.NoError(t, m.Put(ctx, dead))

	clk.now = clk.now.Add(5 * time.Minute)
	m.sweep()

	_, err := m.Get(ctx, "dead@b.com")
	require.ErrorIs(t, err, goerror.ErrNotFound)

	_, err = m.Get(ctx, "live@b.com")
	require.NoError(t, err)
}

func TestMemoryCloseStopsJanitor(t *testing.T) {
	clk := &stubClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

	s, err := NewFromDriver(DriverMemory, FactoryOptions{Clock: clk})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
