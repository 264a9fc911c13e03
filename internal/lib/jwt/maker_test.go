package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/lib/jwt"
)

func TestMaker_AccessRoundTrip(t *testing.T) {
	maker := jwt.NewMaker("access-secret", "refresh-secret", 15*time.Minute, 360*time.Hour)

	token, err := maker.IssueAccess("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := maker.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestMaker_RefreshRoundTrip(t *testing.T) {
	maker := jwt.NewMaker("access-secret", "refresh-secret", 15*time.Minute, 360*time.Hour)

	token, err := maker.IssueRefresh("user-42")
	require.NoError(t, err)

	userID, err := maker.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestMaker_SecretsAreSeparate(t *testing.T) {
	maker := jwt.NewMaker("access-secret", "refresh-secret", 15*time.Minute, 360*time.Hour)

	access, err := maker.IssueAccess("user-42")
	require.NoError(t, err)
	refresh, err := maker.IssueRefresh("user-42")
	require.NoError(t, err)

	// access-токен не проходит как refresh и наоборот
	_, err = maker.ParseRefresh(access)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)

	_, err = maker.ParseAccess(refresh)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestMaker_ExpiredToken(t *testing.T) {
	maker := jwt.NewMaker("access-secret", "refresh-secret", -time.Minute, 360*time.Hour)

	token, err := maker.IssueAccess("user-42")
	require.NoError(t, err)

	_, err = maker.ParseAccess(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestMaker_WrongSecret(t *testing.T) {
	maker := jwt.NewMaker("access-secret", "refresh-secret", 15*time.Minute, 360*time.Hour)
	other := jwt.NewMaker("other-secret", "refresh-secret", 15*time.Minute, 360*time.Hour)

	token, err := maker.IssueAccess("user-42")
	require.NoError(t, err)

	_, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestMaker_Garbage(t *testing.T) {
	maker := jwt.NewMaker("access-secret", "refresh-secret", 15*time.Minute, 360*time.Hour)

	_, err := maker.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}
