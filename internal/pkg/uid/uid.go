// Package uid provides small ID generation abstractions.
//
// Business code should depend on the NumberID or StringID interfaces so the
// concrete generator (snowflake, UUID) can be swapped in tests.
package uid

// NumberID generates int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
