package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericGeneratorLengthAndCharset(t *testing.T) {
	gen := NewNumeric()

	for _, length := range []int{4, 6, 8, 10} {
		code, err := gen.Generate(length)
		require.NoError(t, err)
		require.Len(t, code, length)

		for _, r := range code {
			assert.GreaterOrEqual(t, r, '0')
			assert.LessOrEqual(t, r, '9')
		}
	}
}

func TestNumericGeneratorInvalidLength(t *testing.T) {
	gen := NewNumeric()

	for _, length := range []int{0, -1} {
		_, err := gen.Generate(length)
		assert.ErrorIs(t, err, ErrInvalidLength)
	}
}

func TestNumericGeneratorDistribution(t *testing.T) {
	gen := NewNumeric()

	counts := make(map[rune]int)
	const samples = 2000

	for range samples {
		code, err := gen.Generate(DefaultLength)
		require.NoError(t, err)
		for _, r := range code {
			counts[r]++
		}
	}

	// Every digit should appear; with 12000 draws a missing digit means the
	// sampling is broken, not unlucky.
	require.Len(t, counts, 10)

	total := samples * DefaultLength
	for digit, n := range counts {
		assert.Greater(t, n, total/20, "digit %c appears too rarely", digit)
	}
}

func TestNumericGeneratorCodesVary(t *testing.T) {
	gen := NewNumeric()

	seen := make(map[string]struct{})
	for range 50 {
		code, err := gen.Generate(DefaultLength)
		require.NoError(t, err)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 45)
}
