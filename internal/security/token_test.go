package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	token, err := GenerateIdentityToken("secret", "user-42", time.Hour)
	require.NoError(t, err)

	claims, err := ParseIdentityToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
}

func TestParseIdentityTokenRejects(t *testing.T) {
	token, err := GenerateIdentityToken("secret", "user-42", time.Hour)
	require.NoError(t, err)

	_, err = ParseIdentityToken(token, "other-secret")
	assert.Error(t, err)

	_, err = ParseIdentityToken("garbage", "secret")
	assert.Error(t, err)

	expired, err := GenerateIdentityToken("secret", "user-42", -time.Minute)
	require.NoError(t, err)
	_, err = ParseIdentityToken(expired, "secret")
	assert.Error(t, err)
}
