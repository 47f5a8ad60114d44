package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const keyPrefix = "dongcha:analysis:"

// Key derives a deterministic cache key from request text.
// Case and whitespace differences collapse to the same key so
// semantically identical requests collide.
func Key(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(normalized))
	return keyPrefix + hex.EncodeToString(sum[:])
}
