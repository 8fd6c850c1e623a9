// Package sha3 implements the SHA-3 fixed-output hash functions and the SHAKE extendable-output functions as
// specified in FIPS 202, on top of the Keccak-f[1600] permutation.
package sha3

import (
	"encoding/binary"

	"github.com/codahale/corymb/hazmat/iterhash"
	"github.com/codahale/corymb/hazmat/keccak"
)

const (
	// Size224 is the SHA3-224 digest size in bytes.
	Size224 = 28
	// Size256 is the SHA3-256 digest size in bytes.
	Size256 = 32
	// Size384 is the SHA3-384 digest size in bytes.
	Size384 = 48
	// Size512 is the SHA3-512 digest size in bytes.
	Size512 = 64

	dsSHA3  = 0x06
	dsSHAKE = 0x1f

	// maxRate is the largest sponge rate used by any FIPS 202 instance (SHAKE128).
	maxRate = 168
)

// New224 returns a new incremental SHA3-224 hasher.
func New224() *iterhash.Hasher { return iterhash.New(&sponge{rate: 144, ds: dsSHA3, size: Size224}) }

// New256 returns a new incremental SHA3-256 hasher.
func New256() *iterhash.Hasher { return iterhash.New(&sponge{rate: 136, ds: dsSHA3, size: Size256}) }

// New384 returns a new incremental SHA3-384 hasher.
func New384() *iterhash.Hasher { return iterhash.New(&sponge{rate: 104, ds: dsSHA3, size: Size384}) }

// New512 returns a new incremental SHA3-512 hasher.
func New512() *iterhash.Hasher { return iterhash.New(&sponge{rate: 72, ds: dsSHA3, size: Size512}) }

// Sum256 returns the SHA3-256 digest of data.
func Sum256(data []byte) [Size256]byte {
	h := New256()
	_, _ = h.Write(data)
	var out [Size256]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Sum512 returns the SHA3-512 digest of data.
func Sum512(data []byte) [Size512]byte {
	h := New512()
	_, _ = h.Write(data)
	var out [Size512]byte
	copy(out[:], h.Sum(nil))
	return out
}

// sponge is the Keccak sponge in absorbing mode. It implements iterhash.Compressor with the rate as the block size;
// the pad10*1 rule plus the domain separation bits take the place of Merkle–Damgård strengthening.
type sponge struct {
	a    [25]uint64
	rate int
	ds   byte
	size int
}

func (s *sponge) BlockSize() int { return s.rate }

func (s *sponge) Size() int { return s.size }

func (s *sponge) Reset() { s.a = [25]uint64{} }

func (s *sponge) Update(blocks []byte) {
	for len(blocks) > 0 {
		s.xorIn(blocks[:s.rate])
		keccak.F1600(&s.a)
		blocks = blocks[s.rate:]
	}
}

func (s *sponge) Final(tail []byte, _ iterhash.Count, dst []byte) {
	// The hasher holds a full final block back. The sponge has no last-block special case, so absorb it and pad
	// an empty tail; pad needs room in the block for the domain separation bits.
	if len(tail) == s.rate {
		s.Update(tail)
		tail = nil
	}
	s.pad(tail)
	for len(dst) > 0 {
		var block [maxRate]byte
		s.squeeze(block[:s.rate])
		n := copy(dst, block[:s.rate])
		dst = dst[n:]
		if len(dst) > 0 {
			keccak.F1600(&s.a)
		}
	}
}

// pad absorbs the final partial block with the domain separation bits and the pad10*1 end bit, then permutes,
// leaving the sponge ready to squeeze.
func (s *sponge) pad(tail []byte) {
	var block [maxRate]byte
	copy(block[:], tail)
	block[len(tail)] ^= s.ds
	block[s.rate-1] ^= 0x80
	s.xorIn(block[:s.rate])
	keccak.F1600(&s.a)
}

// xorIn absorbs one lane-aligned block into the state. All FIPS 202 rates are multiples of eight bytes.
func (s *sponge) xorIn(block []byte) {
	for i := 0; i < len(block); i += 8 {
		s.a[i/8] ^= binary.LittleEndian.Uint64(block[i:])
	}
}

// squeeze serializes the first len(out) bytes of the state. len(out) must be a multiple of eight or the full rate.
func (s *sponge) squeeze(out []byte) {
	for i := 0; i+8 <= len(out); i += 8 {
		binary.LittleEndian.PutUint64(out[i:], s.a[i/8])
	}
}
