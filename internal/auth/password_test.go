package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/band-vault/internal/auth"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, auth.ComparePassword(hash, "password123"))
	assert.Error(t, auth.ComparePassword(hash, "password124"))
	assert.NotPanics(t, func() { auth.CompareDummyPassword("anything") })
}
