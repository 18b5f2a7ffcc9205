// Package store persists live verification challenges.
//
// Two drivers are provided: a Redis driver for real deployments, where the
// key TTL mirrors the challenge expiry, and an in-process driver for tests
// and single-node setups.
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

// Supported driver names.
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// ChallengeStore is the persistence port for verification challenges.
//
// All operations key on the normalized identity. Implementations must make
// Put an atomic replace and Delete idempotent.
type ChallengeStore interface {
	// Put stores the challenge, replacing any previous one for the identity.
	Put(ctx context.Context, ch entity.Challenge) error

	// Get returns the stored challenge or goerror.ErrNotFound.
	// An expired challenge may still be returned; lifecycle decisions
	// belong to the caller.
	Get(ctx context.Context, identity string) (*entity.Challenge, error)

	// Update rewrites the challenge for an identity that already has one,
	// or returns goerror.ErrNotFound.
	Update(ctx context.Context, ch entity.Challenge) error

	// Delete removes the challenge. Deleting a missing identity is not an error.
	Delete(ctx context.Context, identity string) error

	// Close releases resources the store owns, such as background sweepers.
	Close() error
}

// FactoryOptions carries the driver-specific dependencies for NewFromDriver.
type FactoryOptions struct {
	Redis *redis.Client
	Clock clock.Clocker
	Ins   instrument.Instrumentation
}

// NewFromDriver builds a ChallengeStore for the configured driver name.
func NewFromDriver(driver string, opts FactoryOptions) (ChallengeStore, error) {
	switch driver {
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("store: redis driver requires a redis client")
		}
		return NewRedis(opts.Redis, opts.Ins), nil
	case DriverMemory:
		return NewMemory(opts.Clock), nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}
