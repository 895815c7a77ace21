package secrets

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SHA256Hasher is a fast unsalted fallback for load tests and local
// development. It is deliberately not the default: without a per-key salt
// and work factor it offers far weaker protection against offline attacks
// on a leaked table.
type SHA256Hasher struct{}

func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

func (h *SHA256Hasher) Hash(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

func (h *SHA256Hasher) Compare(hash, secret string) bool {
	sum := sha256.Sum256([]byte(secret))
	computed := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(computed)) == 1
}
