package otp

import (
	"crypto/rand"
	"errors"
	"io"
)

// DefaultLength is the usual code length for email verification.
const DefaultLength = 6

// ErrInvalidLength is returned when the requested code length is not positive.
var ErrInvalidLength = errors.New("otp: code length must be positive")

// Generator produces random numeric one-time codes.
type Generator interface {
	// Generate returns a code of exactly length decimal digits.
	Generate(length int) (string, error)
}

// NumericGenerator implements Generator using crypto/rand.
type NumericGenerator struct {
	reader io.Reader
}

// NewNumeric returns a NumericGenerator backed by crypto/rand.
func NewNumeric() *NumericGenerator {
	return &NumericGenerator{reader: rand.Reader}
}

// Generate returns a uniformly random digit string of the given length.
//
// Bytes >= 250 are discarded before the modulo so every digit 0-9 is equally
// likely. It fails only when the randomness source does.
func (g *NumericGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}

	code := make([]byte, length)
	buf := make([]byte, length)

	filled := 0
	for filled < length {
		if _, err := io.ReadFull(g.reader, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			code[filled] = '0' + b%10
			filled++
			if filled == length {
				break
			}
		}
	}

	return string(code), nil
}
