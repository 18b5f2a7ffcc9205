package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256HashVerify(t *testing.T) {
	h := NewHMACSHA256("secret")

	hashed, err := h.Hash("482913")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)

	assert.True(t, h.Verify(string(hashed), "482913"))
	assert.False(t, h.Verify(string(hashed), "482914"))
	assert.False(t, h.Verify(string(hashed), ""))
}

func TestHMACSHA256IsDeterministicPerSecret(t *testing.T) {
	h1 := NewHMACSHA256("secret-a")
	h2 := NewHMACSHA256("secret-b")

	a1, err := h1.Hash("482913")
	require.NoError(t, err)
	a2, err := h1.Hash("482913")
	require.NoError(t, err)
	b, err := h2.Hash("482913")
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}
