package hash

// Hash is the small interface implemented by the hashers in this package.
type Hash interface {
	// Hash hashes the input string.
	Hash(str string) ([]byte, error)
	// Verify checks whether the plaintext string matches the given hash.
	Verify(hashed, str string) bool
}
