// Package md5 implements the MD5 hash algorithm as specified in RFC 1321.
//
// MD5 is cryptographically broken and is provided for interoperability with legacy formats only.
package md5

import (
	"encoding/binary"
	"math/bits"

	"github.com/codahale/corymb/hazmat/iterhash"
)

const (
	// BlockSize is the MD5 compression block size in bytes.
	BlockSize = 64
	// Size is the MD5 digest size in bytes.
	Size = 16
)

// New returns a new incremental MD5 hasher.
func New() *iterhash.Hasher {
	c := new(compressor)
	c.Reset()
	return iterhash.New(c)
}

// Sum returns the MD5 digest of data.
func Sum(data []byte) [Size]byte {
	h := New()
	_, _ = h.Write(data)
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

type compressor struct {
	s [4]uint32
}

func (c *compressor) BlockSize() int { return BlockSize }

func (c *compressor) Size() int { return Size }

func (c *compressor) Reset() {
	c.s = [4]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476}
}

func (c *compressor) Update(blocks []byte) {
	a0, b0, c0, d0 := c.s[0], c.s[1], c.s[2], c.s[3]

	for len(blocks) > 0 {
		var m [16]uint32
		for i := range m {
			m[i] = binary.LittleEndian.Uint32(blocks[i*4:])
		}

		a, b, cc, d := a0, b0, c0, d0

		for i := range 64 {
			var f uint32
			var g int
			switch {
			case i < 16:
				f = (b & cc) | (^b & d)
				g = i
			case i < 32:
				f = (d & b) | (^d & cc)
				g = (5*i + 1) % 16
			case i < 48:
				f = b ^ cc ^ d
				g = (3*i + 5) % 16
			default:
				f = cc ^ (b | ^d)
				g = (7 * i) % 16
			}
			f += a + sines[i] + m[g]
			a, d, cc = d, cc, b
			b += bits.RotateLeft32(f, int(shifts[i]))
		}

		a0 += a
		b0 += b
		c0 += cc
		d0 += d
		blocks = blocks[BlockSize:]
	}

	c.s[0], c.s[1], c.s[2], c.s[3] = a0, b0, c0, d0
}

func (c *compressor) Final(tail []byte, count iterhash.Count, dst []byte) {
	var buf [2 * BlockSize]byte
	c.Update(padding.Apply(buf[:], BlockSize, tail, count))
	for i, v := range c.s {
		binary.LittleEndian.PutUint32(dst[i*4:], v)
	}
}

var padding = iterhash.Padding{LengthBytes: 8, LittleEndian: true}

// shifts holds the per-step left-rotation amounts, sixteen per round.
var shifts = [64]uint8{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}

// sines holds floor(abs(sin(i+1)) * 2^32) for each step, per RFC 1321.
var sines = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}
