package utils

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate("mgr1", "Smile Dental", "Supervisor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := JwtValidate(token)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(*JwtCustomClaim)
	require.True(t, ok)
	assert.Equal(t, "mgr1", claims.Username)
	assert.Equal(t, "Smile Dental", claims.Center)
	assert.Equal(t, "Supervisor", claims.Role)
}

func TestJwtValidateRejectsGarbage(t *testing.T) {
	_, err := JwtValidate("not-a-token")
	assert.Error(t, err)
}

func TestJwtValidateRejectsWrongKey(t *testing.T) {
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{Username: "mgr1"})
	signed, err := other.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	parsed, err := JwtValidate(signed)
	assert.Error(t, err)
	if parsed != nil {
		assert.False(t, parsed.Valid)
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "+919876543210", FormatPhoneNumber("98765 43210", "IN"))
	assert.Equal(t, "+919876543210", FormatPhoneNumber("+91 98765 43210", "IN"))
	assert.Equal(t, "ask reception", FormatPhoneNumber("  ask reception ", "IN"))
}

func TestUniqueSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueSlice([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, UniqueSlice([]string{}))
}
