// Package checksum provides content hashing for stored images.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short returns the first 16 hex characters of the digest, used for
// content-addressed image filenames.
func Short(data []byte) string {
	return Sum(data)[:16]
}
