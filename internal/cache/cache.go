// Package cache stores E-utilities responses so repeated builds for
// the same keyword do not re-hit NCBI.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// RequestKey generates a cache key from a request URL
func RequestKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "biokg:v1:" + hex.EncodeToString(hash[:])
}
