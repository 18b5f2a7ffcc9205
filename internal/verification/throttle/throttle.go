// Package throttle holds the pure resend and attempt policy.
//
// The functions only inspect challenge state against a clock reading; they
// perform no I/O, which keeps the policy trivially testable and keeps the
// server the single source of truth for client-facing countdowns.
package throttle

import (
	"math"
	"time"

	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

// Policy bundles the limits applied to one identity's challenge.
type Policy struct {
	// Cooldown is the minimum gap between two sends for the same identity.
	Cooldown time.Duration
	// CodeTTL is how long an issued code stays verifiable.
	CodeTTL time.Duration
	// MaxAttempts is the verification attempt budget per code.
	MaxAttempts int
	// CodeLength is the number of digits in a generated code.
	CodeLength int
}

// ResendRemaining returns how much of the cooldown is left since the last
// send. Zero or negative means a new send is allowed.
func (p Policy) ResendRemaining(lastSentAt, now time.Time) time.Duration {
	return p.Cooldown - now.Sub(lastSentAt)
}

// RemainingSeconds converts a cooldown remainder to whole seconds, rounding
// up so a client that waits the advertised time is never early.
func (p Policy) RemainingSeconds(remaining time.Duration) int64 {
	if remaining <= 0 {
		return 0
	}
	return int64(math.Ceil(remaining.Seconds()))
}

// Exhausted reports whether the challenge has no attempts left.
func (p Policy) Exhausted(ch entity.Challenge) bool {
	return ch.Exhausted()
}
