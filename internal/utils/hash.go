package utils

import (
	"encoding/hex"
	"sync"

	"github.com/zeebo/blake3"
)

// hasherPool is a package-level pool of reusable BLAKE3 hashers.
var hasherPool = sync.Pool{
	New: func() any {
		return blake3.New()
	},
}

// Fingerprint computes a BLAKE3 digest over the given parts and returns it
// hex-encoded. Every part is length-prefixed so that ("ab", "c") and
// ("a", "bc") never collide.
//
// Behavior:
//   - Retrieves a hasher from sync.Pool
//   - Resets it, writes the framed parts, computes the sum
//   - Returns the hasher to the pool
//
// Example usage:
//
//	key := utils.Fingerprint("decryptMetadata", input, masterKey)
func Fingerprint(parts ...string) string {
	h := hasherPool.Get().(*blake3.Hasher)
	h.Reset()

	var frame [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range frame {
			frame[i] = byte(n >> (8 * i))
		}
		_, _ = h.Write(frame[:])
		_, _ = h.Write([]byte(p))
	}
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}
