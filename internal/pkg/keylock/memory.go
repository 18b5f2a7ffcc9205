package keylock

import (
	"context"
	"sync"
	"time"
)

// Memory implements Locker inside a single process.
//
// The ttl argument is ignored; a lock is held until its UnlockFunc runs.
// Entries are reference counted and removed once the last holder or waiter
// leaves, so the map does not grow with the number of distinct keys.
type Memory struct {
	mu    sync.Mutex
	locks map[string]*memLock
}

type memLock struct {
	slot chan struct{}
	refs int
}

// NewMemory returns an in-process Locker.
func NewMemory() *Memory {
	return &Memory{locks: make(map[string]*memLock)}
}

// Lock blocks until the key's slot is free or ctx is done.
func (m *Memory) Lock(ctx context.Context, key string, _ time.Duration) (UnlockFunc, error) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &memLock{slot: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.slot <- struct{}{}:
		return func(context.Context) error {
			<-l.slot
			m.release(key, l)

			return nil
		}, nil
	case <-ctx.Done():
		m.release(key, l)
		return nil, ctx.Err()
	}
}

// release drops one reference and evicts the entry once nobody holds or
// waits on it. An entry with live references is never deleted, so a later
// Lock for the same key still synchronizes on the same slot.
func (m *Memory) release(key string, l *memLock) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}
