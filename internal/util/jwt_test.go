package util

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT(userID, "secret")
	require.NoError(t, err)

	parsed, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(req))

	req.Header.Set("Authorization", "abc123")
	assert.Equal(t, "", ExtractToken(req))

	req.Header.Del("Authorization")
	assert.Equal(t, "", ExtractToken(req))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2pass")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2pass", hash)

	assert.True(t, CheckPassword("hunter2pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
