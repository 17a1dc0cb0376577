package tron

import (
	"strings" // Prefix checks
	"testing" // Go testing package

	"github.com/stretchr/testify/require" // Test assertions
)

// Table test for the TRC20 address shape check
func TestIsValidTRC20Address(t *testing.T) {
	cases := []struct {
		name  string // Case description
		addr  string // Candidate address
		valid bool   // Expected result
	}{
		{"typical address", "TQ5kjes11Nc7ZbHF8GHCqLv1JK7vFqkA9B", true},
		{"all digits after prefix", "T123456789012345678901234567890123", true},
		{"missing prefix", "Q5kjes11Nc7ZbHF8GHCqLv1JK7vFqkA9Bx", false},
		{"lowercase prefix", "tQ5kjes11Nc7ZbHF8GHCqLv1JK7vFqkA9B", false},
		{"too short", "TQ5kjes11Nc7ZbHF8GHCqLv1JK7vFqkA9", false},
		{"too long", "TQ5kjes11Nc7ZbHF8GHCqLv1JK7vFqkA9BB", false},
		{"non-alphanumeric character", "TQ5kjes11Nc7ZbHF8GHCqLv1JK7vFqk-9B", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.valid, IsValidTRC20Address(tc.addr))
		})
	}
}

// Generated wallets must pass the same shape check clients are held to
func TestGenerateWalletShape(t *testing.T) {
	w, err := GenerateWallet()
	require.NoError(t, err)
	require.True(t, IsValidTRC20Address(w.Address))
	require.True(t, strings.HasPrefix(w.Address, "T"))
	require.Len(t, w.PrivateKey, 64) // 32 bytes, hex encoded
}

// Two generated wallets should not collide
func TestGenerateWalletDistinct(t *testing.T) {
	a, err := GenerateWallet()
	require.NoError(t, err)
	b, err := GenerateWallet()
	require.NoError(t, err)
	require.NotEqual(t, a.Address, b.Address)
	require.NotEqual(t, a.PrivateKey, b.PrivateKey)
}
