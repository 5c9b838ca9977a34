// Package cache provides pluggable response caching for the discovery client.
//
// Three backends are available:
//   - file: JSON files under a cache directory, for normal CLI usage
//   - redis: shared cache for kiosk or multi-instance deployments
//   - null: no-op cache for tests or --no-cache runs
//
// Entries are opaque byte slices with a per-entry TTL; callers marshal their
// own values. Keys are namespaced and hashed with [Key] so arbitrary URLs and
// query parameters are safe to use as key material.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the storage interface shared by all backends.
//
// Get returns (nil, false, nil) on a miss; expired entries are treated as
// misses. A TTL of 0 passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key generates a cache key by hashing the components under a namespace.
// The key format is: namespace:hash(parts...). Hashing keeps keys filesystem
// and redis safe regardless of what the parts contain.
func Key(namespace string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", namespace, hex.EncodeToString(hash[:]))
}
