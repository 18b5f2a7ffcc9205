// Package otp generates random numeric one-time codes.
//
// Codes are drawn from crypto/rand and are uniformly distributed over all
// digit strings of the requested length. The generator has no state; callers
// are responsible for hashing, storing and expiring issued codes.
package otp
