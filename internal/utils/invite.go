package utils

import (
	"strings" // String manipulation

	"github.com/google/uuid" // UUID generation
)

// GenerateInvitationCode produces an 8-character uppercase referral code.
// Uniqueness is enforced by the database index; callers retry on collision.
func GenerateInvitationCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "") // Strip dashes from the UUID
	return strings.ToUpper(raw[:8])                         // First 8 hex characters, uppercased
}
