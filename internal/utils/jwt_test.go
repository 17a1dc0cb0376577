package utils

import (
	"testing" // Go testing package

	"github.com/stretchr/testify/require" // Test assertions
)

// A generated token parses back to the same claims
func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "admin", "test-secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "admin", claims.Role)
}

// A token signed with a different secret is rejected
func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "user", "test-secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	require.Error(t, err)
}

// Garbage input is rejected
func TestJWTMalformedToken(t *testing.T) {
	_, err := ParseJWT("not-a-token", "test-secret")
	require.Error(t, err)
}
