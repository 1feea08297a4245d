// Package hash provides the SHA-256 helpers used for paper checksums and
// short file-safe ids.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	gohash "hash"
	"strings"
)

// IDLength is the number of hex characters used for truncated hash IDs.
const IDLength = 16

// TruncatedSHA256 returns a truncated SHA256 hash of the input string.
// The result is a 16-character hex string.
func TruncatedSHA256(data string) string {
	return SHA256Bytes([]byte(data))[:IDLength]
}

// SHA256Bytes returns the full hex SHA-256 of data.
func SHA256Bytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Digest is a running SHA-256 that can sit behind an io.MultiWriter.
type Digest struct {
	h gohash.Hash
}

// NewDigest starts an empty digest.
func NewDigest() *Digest {
	return &Digest{h: sha256.New()}
}

// Write implements io.Writer.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the hex digest of everything written so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Matches compares a published checksum with a computed hex digest. Case and
// an optional "sha256:" prefix on expected are ignored.
func Matches(expected, sum string) bool {
	expected = strings.TrimSpace(expected)
	if len(expected) >= 7 && strings.EqualFold(expected[:7], "sha256:") {
		expected = expected[7:]
	}
	return strings.EqualFold(expected, sum)
}
