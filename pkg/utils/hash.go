package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the first 12 hex digits of the SHA-256 of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}
