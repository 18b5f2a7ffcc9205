package entity

import "time"

// Challenge is the live verification state for one identity.
//
// Only the salted hash of the code is kept; the plaintext exists in memory
// during issuance and inside the delivery message, never at rest.
type Challenge struct {
	Identity          string
	CodeHash          string
	CreatedAt         time.Time
	LastSentAt        time.Time
	ExpiresAt         time.Time
	AttemptsRemaining int
	ResendCount       int
}

// Expired reports whether the challenge is past its TTL at the given time.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Exhausted reports whether the attempt budget has been spent.
func (c Challenge) Exhausted() bool {
	return c.AttemptsRemaining <= 0
}

// State derives the lifecycle state of the challenge at the given time.
func (c Challenge) State(now time.Time) ChallengeState {
	if c.Expired(now) {
		return ChallengeStateExpired
	}
	if c.Exhausted() {
		return ChallengeStateExhausted
	}
	return ChallengeStatePending
}
