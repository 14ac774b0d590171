package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache stores opaque values by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CollectionKey derives a cache key for a tweet collection file. Any change
// to the file's path, size or modification time, or to variant (the
// settings the collection was decoded with), yields a new key.
func CollectionKey(path string, modTime time.Time, size int64, variant string) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(modTime.UnixNano(), 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte{0})
	h.Write([]byte(variant))
	return "tweetlens:v1:" + hex.EncodeToString(h.Sum(nil))
}
