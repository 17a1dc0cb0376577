package utils

import (
	"regexp"  // Code shape check
	"testing" // Go testing package

	"github.com/stretchr/testify/require" // Test assertions
)

// Invitation codes are 8 uppercase hex characters
func TestGenerateInvitationCodeShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	for i := 0; i < 20; i++ {
		code := GenerateInvitationCode()
		require.True(t, pattern.MatchString(code), "unexpected code %q", code)
	}
}

// Consecutive codes should not repeat
func TestGenerateInvitationCodeDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateInvitationCode()
		require.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}
