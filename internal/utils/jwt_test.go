package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundtrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(7, "manager@netraoptical.in")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "manager@netraoptical.in", claims.Email)
	assert.Equal(t, "netra-api", claims.Issuer)
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(7, "manager@netraoptical.in")
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-one")
	token, err := GenerateJWT(7, "manager@netraoptical.in")
	require.NoError(t, err)

	InitJWT("secret-two")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
