package store

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.uber.org/atomic"
)

const janitorInterval = time.Minute

// Memory is an in-process ChallengeStore for tests and single-node setups.
//
// Expired entries are swept by a background janitor; Get also checks expiry
// lazily so callers never observe an entry past its TTL plus one sweep.
type Memory struct {
	mu         sync.RWMutex
	challenges map[string]entity.Challenge
	clock      clock.Clocker
	closed     *atomic.Bool
	stop       chan struct{}
}

func NewMemory(clk clock.Clocker) *Memory {
	if clk == nil {
		clk = clock.New()
	}

	m := &Memory{
		challenges: make(map[string]entity.Challenge),
		clock:      clk,
		closed:     atomic.NewBool(false),
		stop:       make(chan struct{}),
	}
	go m.janitor()

	return m
}

func (m *Memory) Put(_ context.Context, ch entity.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.challenges[ch.Identity] = ch
	return nil
}

func (m *Memory) Get(_ context.Context, identity string) (*entity.Challenge, error) {
	m.mu.RLock()
	ch, ok := m.challenges[identity]
	m.mu.RUnlock()

	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &ch, nil
}

func (m *Memory) Update(_ context.Context, ch entity.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.challenges[ch.Identity]; !ok {
		return goerror.ErrNotFound
	}

	m.challenges[ch.Identity] = ch
	return nil
}

func (m *Memory) Delete(_ context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.challenges, identity)
	return nil
}

// Close stops the janitor. Subsequent calls are no-ops.
func (m *Memory) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		close(m.stop)
	}

	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for identity, ch := range m.challenges {
		if ch.Expired(now) {
			delete(m.challenges, identity)
		}
	}
}
