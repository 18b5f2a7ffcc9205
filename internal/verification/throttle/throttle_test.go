package throttle

import (
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/stretchr/testify/assert"
)

func TestResendRemaining(t *testing.T) {
	p := Policy{Cooldown: time.Minute}
	sent := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{name: "immediately after send", now: sent, want: time.Minute},
		{name: "halfway through", now: sent.Add(30 * time.Second), want: 30 * time.Second},
		{name: "exactly at cooldown", now: sent.Add(time.Minute), want: 0},
		{name: "past cooldown", now: sent.Add(90 * time.Second), want: -30 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.ResendRemaining(sent, tc.now))
		})
	}
}

func TestRemainingSecondsRoundsUp(t *testing.T) {
	p := Policy{}

	assert.Equal(t, int64(0), p.RemainingSeconds(0))
	assert.Equal(t, int64(0), p.RemainingSeconds(-time.Second))
	assert.Equal(t, int64(1), p.RemainingSeconds(200*time.Millisecond))
	assert.Equal(t, int64(19), p.RemainingSeconds(19*time.Second))
	assert.Equal(t, int64(20), p.RemainingSeconds(19*time.Second+time.Millisecond))
}

func TestExhausted(t *testing.T) {
	p := Policy{MaxAttempts: 3}

	assert.False(t, p.Exhausted(entity.Challenge{AttemptsRemaining: 1}))
	assert.True(t, p.Exhausted(entity.Challenge{AttemptsRemaining: 0}))
	assert.True(t, p.Exhausted(entity.Challenge{AttemptsRemaining: -1}))
}
