package auth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, pw := range []string{"secret1", "123456", "pässwörd", strings.Repeat("x", 64)} {
		t.Run(pw, func(t *testing.T) {
			hash, err := h.Hash(pw)
			require.NoError(t, err)
			assert.NotEqual(t, pw, hash)
			assert.True(t, h.Verify(pw, hash))
			assert.False(t, h.Verify(pw+"!", hash))
		})
	}
}

func TestPasswordHashIsSalted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHashEmbedsCost(t *testing.T) {
	h := NewPasswordHasher(0) // out of range falls back to the default

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
	assert.True(t, strings.HasPrefix(hash, fmt.Sprintf("$2a$%d$", DefaultCost)))
}

func TestPasswordVerifyMalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("secret1", "not-a-hash"))
}

func TestPasswordHashRejectsEmpty(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MinCost).Hash("")

	assert.ErrorIs(t, err, ErrEmptyPassword)
}
