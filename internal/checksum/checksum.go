// Package checksum computes content digests used for change detection and
// HTTP ETags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag quotes a digest for use in an ETag header.
func ETag(sum string) string {
	return `"` + sum + `"`
}

// ParseETag strips quotes and a weak prefix from an If-Match value.
func ParseETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}
