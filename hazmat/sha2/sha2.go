// Package sha2 implements the SHA-2 family of hash algorithms as specified in FIPS 180-4: SHA-224, SHA-256,
// SHA-384, and SHA-512.
package sha2

import "github.com/codahale/corymb/hazmat/iterhash"

const (
	// BlockSize256 is the compression block size of SHA-224 and SHA-256 in bytes.
	BlockSize256 = 64
	// BlockSize512 is the compression block size of SHA-384 and SHA-512 in bytes.
	BlockSize512 = 128

	// Size224 is the SHA-224 digest size in bytes.
	Size224 = 28
	// Size256 is the SHA-256 digest size in bytes.
	Size256 = 32
	// Size384 is the SHA-384 digest size in bytes.
	Size384 = 48
	// Size512 is the SHA-512 digest size in bytes.
	Size512 = 64
)

// New224 returns a new incremental SHA-224 hasher.
func New224() *iterhash.Hasher { return iterhash.New(newCompressor256(Size224)) }

// New256 returns a new incremental SHA-256 hasher.
func New256() *iterhash.Hasher { return iterhash.New(newCompressor256(Size256)) }

// New384 returns a new incremental SHA-384 hasher.
func New384() *iterhash.Hasher { return iterhash.New(newCompressor512(Size384)) }

// New512 returns a new incremental SHA-512 hasher.
func New512() *iterhash.Hasher { return iterhash.New(newCompressor512(Size512)) }

// Sum224 returns the SHA-224 digest of data.
func Sum224(data []byte) (out [Size224]byte) { sum(New224(), data, out[:]); return }

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) (out [Size256]byte) { sum(New256(), data, out[:]); return }

// Sum384 returns the SHA-384 digest of data.
func Sum384(data []byte) (out [Size384]byte) { sum(New384(), data, out[:]); return }

// Sum512 returns the SHA-512 digest of data.
func Sum512(data []byte) (out [Size512]byte) { sum(New512(), data, out[:]); return }

func sum(h *iterhash.Hasher, data, out []byte) {
	_, _ = h.Write(data)
	copy(out, h.Sum(nil))
}
