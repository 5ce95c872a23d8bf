// Package hashutil provides the single hashing primitive used everywhere
// on-disk state needs a content identifier: chunk ids, Merkle nodes, and
// audit-log entry and argument hashes. Every hash in this codebase is hex SHA-256;
// no other format is accepted anywhere in the store.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// ZeroHash is the 64-character all-zero hash used as the sentinel "no
// prior value" marker (empty Merkle root, first audit entry's prev hash).
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Bytes returns the lowercase hex SHA-256 digest of data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// String returns the lowercase hex SHA-256 digest of s, treating it as UTF-8.
func String(s string) string {
	return Bytes([]byte(s))
}
