package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.HashPassword("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, hasher.CheckPasswordHash("Secret123", hash))
	assert.False(t, hasher.CheckPasswordHash("secret123", hash))
	assert.False(t, hasher.CheckPasswordHash("Secret123", "not-a-hash"))
}
