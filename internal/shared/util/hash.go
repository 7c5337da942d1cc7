package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText returns a stable hex fingerprint for arbitrary text. Cache keys
// and stored analyses use it to identify an email without retaining it.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
