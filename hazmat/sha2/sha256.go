package sha2

import (
	"encoding/binary"
	"math/bits"

	"github.com/codahale/corymb/hazmat/iterhash"
)

type compressor256 struct {
	s    [8]uint32
	size int
}

func newCompressor256(size int) *compressor256 {
	c := &compressor256{size: size}
	c.Reset()
	return c
}

func (c *compressor256) BlockSize() int { return BlockSize256 }

func (c *compressor256) Size() int { return c.size }

func (c *compressor256) Reset() {
	if c.size == Size224 {
		c.s = iv224
	} else {
		c.s = iv256
	}
}

func (c *compressor256) Update(blocks []byte) {
	for len(blocks) > 0 {
		var w [64]uint32
		for i := range 16 {
			w[i] = binary.BigEndian.Uint32(blocks[i*4:])
		}
		for i := 16; i < 64; i++ {
			s0 := bits.RotateLeft32(w[i-15], -7) ^ bits.RotateLeft32(w[i-15], -18) ^ (w[i-15] >> 3)
			s1 := bits.RotateLeft32(w[i-2], -17) ^ bits.RotateLeft32(w[i-2], -19) ^ (w[i-2] >> 10)
			w[i] = w[i-16] + s0 + w[i-7] + s1
		}

		a, b, cc, d, e, f, g, h := c.s[0], c.s[1], c.s[2], c.s[3], c.s[4], c.s[5], c.s[6], c.s[7]
		for i := range 64 {
			s1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
			ch := (e & f) ^ (^e & g)
			t1 := h + s1 + ch + k256[i] + w[i]
			s0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
			maj := (a & b) ^ (a & cc) ^ (b & cc)
			t2 := s0 + maj

			h, g, f, e, d, cc, b, a = g, f, e, d+t1, cc, b, a, t1+t2
		}

		c.s[0] += a
		c.s[1] += b
		c.s[2] += cc
		c.s[3] += d
		c.s[4] += e
		c.s[5] += f
		c.s[6] += g
		c.s[7] += h
		blocks = blocks[BlockSize256:]
	}
}

func (c *compressor256) Final(tail []byte, count iterhash.Count, dst []byte) {
	var buf [2 * BlockSize256]byte
	c.Update(iterhash.Padding{LengthBytes: 8}.Apply(buf[:], BlockSize256, tail, count))
	for i := range c.size / 4 {
		binary.BigEndian.PutUint32(dst[i*4:], c.s[i])
	}
}

var iv256 = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var iv224 = [8]uint32{
	0xc1059ed8, 0x367cd507, 0x3070dd17, 0xf70e5939,
	0xffc00b31, 0x68581511, 0x64f98fa7, 0xbefa4fa4,
}

var k256 = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5,
	0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3,
	0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc,
	0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7,
	0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13,
	0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3,
	0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5,
	0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208,
	0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}
