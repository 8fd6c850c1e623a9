// Package sha1 implements the SHA-1 hash algorithm as specified in FIPS 180-4.
//
// SHA-1 is cryptographically broken and is provided for interoperability with legacy formats only.
package sha1

import (
	"encoding/binary"
	"math/bits"

	"github.com/codahale/corymb/hazmat/iterhash"
)

const (
	// BlockSize is the SHA-1 compression block size in bytes.
	BlockSize = 64
	// Size is the SHA-1 digest size in bytes.
	Size = 20
)

// New returns a new incremental SHA-1 hasher.
func New() *iterhash.Hasher {
	c := new(compressor)
	c.Reset()
	return iterhash.New(c)
}

// Sum returns the SHA-1 digest of data.
func Sum(data []byte) [Size]byte {
	h := New()
	_, _ = h.Write(data)
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

type compressor struct {
	s [5]uint32
}

func (c *compressor) BlockSize() int { return BlockSize }

func (c *compressor) Size() int { return Size }

func (c *compressor) Reset() {
	c.s = [5]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0}
}

func (c *compressor) Update(blocks []byte) {
	h0, h1, h2, h3, h4 := c.s[0], c.s[1], c.s[2], c.s[3], c.s[4]

	for len(blocks) > 0 {
		var w [80]uint32
		for i := range 16 {
			w[i] = binary.BigEndian.Uint32(blocks[i*4:])
		}
		for i := 16; i < 80; i++ {
			w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
		}

		a, b, cc, d, e := h0, h1, h2, h3, h4
		for i := range 80 {
			var f, k uint32
			switch {
			case i < 20:
				f = (b & cc) | (^b & d)
				k = 0x5a827999
			case i < 40:
				f = b ^ cc ^ d
				k = 0x6ed9eba1
			case i < 60:
				f = (b & cc) | (b & d) | (cc & d)
				k = 0x8f1bbcdc
			default:
				f = b ^ cc ^ d
				k = 0xca62c1d6
			}
			t := bits.RotateLeft32(a, 5) + f + e + k + w[i]
			e, d, cc, b, a = d, cc, bits.RotateLeft32(b, 30), a, t
		}

		h0 += a
		h1 += b
		h2 += cc
		h3 += d
		h4 += e
		blocks = blocks[BlockSize:]
	}

	c.s[0], c.s[1], c.s[2], c.s[3], c.s[4] = h0, h1, h2, h3, h4
}

func (c *compressor) Final(tail []byte, count iterhash.Count, dst []byte) {
	var buf [2 * BlockSize]byte
	c.Update(padding.Apply(buf[:], BlockSize, tail, count))
	for i, v := range c.s {
		binary.BigEndian.PutUint32(dst[i*4:], v)
	}
}

var padding = iterhash.Padding{LengthBytes: 8}
