package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/lib/password"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := password.GetHash("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, password.CompareHash(hash, "password123"))
	assert.Error(t, password.CompareHash(hash, "wrongpassword"))
}

func TestGetHash_UniqueSalt(t *testing.T) {
	first, err := password.GetHash("password123")
	require.NoError(t, err)
	second, err := password.GetHash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
