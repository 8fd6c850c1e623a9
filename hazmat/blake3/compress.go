package blake3

import (
	"encoding/binary"
	"math/bits"
)

// Domain flags. Exactly one of the keying flags is set for the lifetime of a hasher; the structural flags mark a
// block's position within its chunk and the tree.
const (
	flagChunkStart        = 1 << 0
	flagChunkEnd          = 1 << 1
	flagParent            = 1 << 2
	flagRoot              = 1 << 3
	flagKeyedHash         = 1 << 4
	flagDeriveKeyContext  = 1 << 5
	flagDeriveKeyMaterial = 1 << 6
)

// iv is the BLAKE3 initialization vector, shared with SHA-256.
var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// msgPermutation reorders the message words between rounds.
var msgPermutation = [16]uint8{2, 6, 3, 10, 7, 0, 4, 13, 1, 11, 12, 5, 9, 14, 15, 8}

func g(v *[16]uint32, a, b, c, d int, mx, my uint32) {
	v[a] += v[b] + mx
	v[d] = bits.RotateLeft32(v[d]^v[a], -16)
	v[c] += v[d]
	v[b] = bits.RotateLeft32(v[b]^v[c], -12)
	v[a] += v[b] + my
	v[d] = bits.RotateLeft32(v[d]^v[a], -8)
	v[c] += v[d]
	v[b] = bits.RotateLeft32(v[b]^v[c], -7)
}

func round(v *[16]uint32, m *[16]uint32) {
	g(v, 0, 4, 8, 12, m[0], m[1])
	g(v, 1, 5, 9, 13, m[2], m[3])
	g(v, 2, 6, 10, 14, m[4], m[5])
	g(v, 3, 7, 11, 15, m[6], m[7])
	g(v, 0, 5, 10, 15, m[8], m[9])
	g(v, 1, 6, 11, 12, m[10], m[11])
	g(v, 2, 7, 8, 13, m[12], m[13])
	g(v, 3, 4, 9, 14, m[14], m[15])
}

// compress applies the BLAKE3 compression function and returns the full 16-word state: the first eight words are
// the chaining value, the second eight extend it to a 64-byte output block.
func compress(cv *[8]uint32, block *[16]uint32, counter uint64, blockLen, flags uint32) [16]uint32 {
	v := [16]uint32{
		cv[0], cv[1], cv[2], cv[3],
		cv[4], cv[5], cv[6], cv[7],
		iv[0], iv[1], iv[2], iv[3],
		uint32(counter), uint32(counter >> 32), blockLen, flags,
	}

	m := *block
	for r := range 7 {
		round(&v, &m)
		if r == 6 {
			break
		}
		var p [16]uint32
		for i, s := range msgPermutation {
			p[i] = m[s]
		}
		m = p
	}

	for i := range 8 {
		v[i] ^= v[i+8]
		v[i+8] ^= cv[i]
	}
	return v
}

func wordsFromBlock(block *[BlockSize]byte) [16]uint32 {
	var w [16]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(block[i*4:])
	}
	return w
}

func first8(v [16]uint32) [8]uint32 {
	return [8]uint32{v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7]}
}
