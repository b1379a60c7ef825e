// Package cache stores OCR results between runs.
//
// Recognizing a page is by far the slowest step of the pipeline, and the same scan is
// usually aligned many times while a transcript is being corrected. Results are keyed by a
// hash of the page image, the strip layout and the engine settings.
//
// Three backends are provided:
//   - FileCache: one JSON file per entry under a directory, for the CLI
//   - RedisCache: storage shared by several machines aligning the same scans
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry
type Cache interface {
	// Get returns the value stored for key. A miss is reported with hit == false and no error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
