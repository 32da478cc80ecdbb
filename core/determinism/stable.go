// Package determinism provides primitives for guaranteeing deterministic execution.
// Ordering and hashing go through these helpers so repeated runs over the
// same input produce identical output.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// SortSlice sorts a slice in a stable, deterministic manner.
// Elements that compare equal keep their original relative order.
func SortSlice[T any](slice []T, less func(a, b T) bool) {
	sort.SliceStable(slice, func(i, j int) bool {
		return less(slice[i], slice[j])
	})
}

// IndexOf returns the position of each key in first-encounter order
func IndexOf[K comparable](keys []K) map[K]int {
	idx := make(map[K]int, len(keys))
	for i, k := range keys {
		if _, ok := idx[k]; !ok {
			idx[k] = i
		}
	}
	return idx
}
