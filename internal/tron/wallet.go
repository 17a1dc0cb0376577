// Package tron simulates the TRON wallet integration. Address generation and
// settlement are stand-ins for a real node connection; only the TRC20 address
// shape check is meant to survive into production unchanged.
package tron

import (
	"crypto/rand"     // Random bytes for simulated keys
	"encoding/hex"    // Hex encoding of key material
	"math/big"        // Random index into the base58 alphabet
	"regexp"          // Address shape check
	"strings"         // String building
)

// Base58 alphabet used by TRON addresses (no 0, O, I, l)
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Alphanumeric, prefix T, length 34. A loose approximation of a TRC20
// address; a checksum validation should replace it eventually.
var trc20Pattern = regexp.MustCompile(`^T[A-Za-z0-9]{33}$`)

// IsValidTRC20Address reports whether addr has the shape of a TRC20 address
func IsValidTRC20Address(addr string) bool {
	return trc20Pattern.MatchString(addr)
}

// Wallet is a simulated TRON wallet assignment
type Wallet struct {
	Address    string // Generated deposit address
	PrivateKey string // Simulated private key, hex encoded
}

// GenerateWallet produces a simulated TRON wallet. The address is a random
// base58 string with the TRON prefix, the key 32 random bytes; neither is
// derived from the other.
func GenerateWallet() (*Wallet, error) {
	var sb strings.Builder
	sb.WriteByte('T') // TRON mainnet address prefix
	// 33 random base58 characters after the prefix
	for i := 0; i < 33; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base58Alphabet))))
		if err != nil {
			return nil, err // Entropy source failure
		}
		sb.WriteByte(base58Alphabet[n.Int64()])
	}
	key := make([]byte, 32) // Simulated 256-bit private key
	if _, err := rand.Read(key); err != nil {
		return nil, err // Entropy source failure
	}
	return &Wallet{
		Address:    sb.String(),           // Simulated deposit address
		PrivateKey: hex.EncodeToString(key), // Hex-encoded key material
	}, nil
}
