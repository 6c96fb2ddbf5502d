package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache holds OCR extraction results for the duration of one matching run.
// The caller owns the instance and passes it in explicitly; there is no
// ambient process-wide cache, so concurrent runs cannot interfere.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a frame's image path.
func Key(path string) string {
	hash := sha256.Sum256([]byte(path))
	return "stepshot:ocr:v1:" + hex.EncodeToString(hash[:])
}
