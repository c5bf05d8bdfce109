package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv(EnvToken, "")

	ti, err := GetToken()
	require.NoError(t, err)
	assert.Nil(t, ti, "no credentials file means not logged in")

	require.NoError(t, SetToken("opaque-token-123", nil))

	ti, err = GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "opaque-token-123", ti.Token)
	assert.Equal(t, "file", ti.Source)
	assert.Nil(t, ti.ExpiresAt, "opaque tokens have no sniffable expiry")

	require.NoError(t, DeleteToken())
	ti, err = GetToken()
	require.NoError(t, err)
	assert.Nil(t, ti)

	assert.NoError(t, DeleteToken(), "deleting twice is fine")
}

func TestBearerPrefixStripped(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv(EnvToken, "")

	require.NoError(t, SetToken("Bearer abc123", nil))
	ti, err := GetToken()
	require.NoError(t, err)
	assert.Equal(t, "abc123", ti.Token)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv(EnvToken, "bearer env-token")

	ti, err := GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "env-token", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestEmptyTokenRejected(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	assert.Error(t, SetToken("   ", nil))
}

func TestJWTExpirySniffed(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv(EnvToken, "")

	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "me@example.com",
		"exp":   exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	require.NoError(t, SetToken(tok, nil))
	ti, err := GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti.ExpiresAt)
	assert.True(t, ti.ExpiresAt.Equal(exp))
	assert.False(t, ti.Expired(time.Now()))
	assert.True(t, ti.Expired(exp.Add(time.Second)))
}

func TestClaims(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "me@example.com",
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	claims := Claims(tok)
	require.NotNil(t, claims)
	assert.Equal(t, "me@example.com", claims["email"])

	assert.Nil(t, Claims("opaque"), "opaque tokens cannot be introspected")
}
