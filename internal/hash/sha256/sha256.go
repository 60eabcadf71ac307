// Package sha256 provides SHA-256 based ID hashing.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// idLength is the stored width of content and rule IDs.
const idLength = 16

// Hasher implements corpus.Hasher using SHA-256.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the first 16 hex characters of the SHA-256 digest of data.
// IDs must stay stable across runs, so the truncation width is part of
// the contract.
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:idLength]
}
