// Package merkle computes the Merkle root over an ordered sequence of
// chunk-id leaves. It has no notion of files or snapshots — it is a pure
// function of the leaf slice it is given, so callers are responsible for
// supplying leaves in manifest order (§3, §4.5 of the design).
package merkle

import "backupvault/internal/hashutil"

// Root computes the Merkle root of leaves using pairwise SHA-256 hashing.
// An odd node at any level is paired with itself. An empty leaf list
// yields the all-zero root.
//
// Leaves are hex chunk-id strings; parent hashes are SHA-256 over the
// UTF-8 bytes of the two child hex strings concatenated without a
// separator. This exact concatenation rule must be preserved byte for
// byte for roots to be reproducible across runs.
func Root(leaves []string) string {
	if len(leaves) == 0 {
		return hashutil.ZeroHash
	}

	level := make([]string, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashutil.String(left+right))
		}
		level = next
	}
	return level[0]
}
