// Package keylock provides per-key mutual exclusion.
//
// It is used to serialize operations that read-modify-write shared state for
// one key (for example one email address) while letting distinct keys proceed
// in parallel. The Redis implementation works across replicas; the memory
// implementation covers a single process and tests.
package keylock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when the lock could not be acquired before the
// context deadline.
var ErrNotAcquired = errors.New("keylock: lock not acquired")

// UnlockFunc releases a held lock.
type UnlockFunc func(ctx context.Context) error

// Locker acquires an exclusive lock for a key.
type Locker interface {
	// Lock blocks until the lock for key is acquired or ctx is done. The
	// returned UnlockFunc must be called to release it. ttl bounds how long
	// a crashed holder can keep the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
