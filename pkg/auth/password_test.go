package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_Hash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	t.Run("verifies its own output", func(t *testing.T) {
		hashed, err := h.Hash("hunter2")
		require.NoError(t, err)
		assert.True(t, h.Verify("hunter2", hashed))
	})

	t.Run("never stores the raw password", func(t *testing.T) {
		hashed, err := h.Hash("plaintext-secret")
		require.NoError(t, err)
		assert.NotContains(t, hashed, "plaintext-secret")
	})

	t.Run("fresh salt per call", func(t *testing.T) {
		first, err := h.Hash("same-input")
		require.NoError(t, err)
		second, err := h.Hash("same-input")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		assert.True(t, h.Verify("same-input", first))
		assert.True(t, h.Verify("same-input", second))
	})

	t.Run("rejects over-long password", func(t *testing.T) {
		// bcrypt caps input at 72 bytes
		_, err := h.Hash(strings.Repeat("x", 100))
		assert.Error(t, err)
	})
}

func TestPasswordHasher_Verify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hashed, err := h.Hash("correct-horse")
	require.NoError(t, err)

	t.Run("wrong password fails", func(t *testing.T) {
		assert.False(t, h.Verify("battery-staple", hashed))
	})

	t.Run("garbage hash fails", func(t *testing.T) {
		assert.False(t, h.Verify("correct-horse", "not-a-bcrypt-hash"))
	})

	t.Run("empty password fails", func(t *testing.T) {
		assert.False(t, h.Verify("", hashed))
	})
}

func TestNewPasswordHasher_DefaultCost(t *testing.T) {
	h := NewPasswordHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
