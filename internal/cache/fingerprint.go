package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes the cache key for a query.
//
// The query is normalized (lowercased, interior whitespace collapsed) before
// hashing so trivially reworded duplicates resolve to the same entry.
func Fingerprint(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}
