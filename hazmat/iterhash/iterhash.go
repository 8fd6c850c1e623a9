// Package iterhash implements the buffering and finalization contract shared by block-iterated hash functions.
//
// A Hasher owns the partial-block buffer and the message byte count; the per-algorithm compression primitive is
// supplied as a Compressor. The Hasher always holds the most recent block back until more input arrives, so a
// Compressor that treats its final block specially (BLAKE2's final-block flag) sees it only in Final.
package iterhash

// A Compressor is a per-algorithm compression primitive. It owns the chaining state and mutates it one block at a
// time; all buffering and counting happens in the Hasher.
type Compressor interface {
	// BlockSize returns the compression block size in bytes.
	BlockSize() int

	// Size returns the digest size in bytes.
	Size() int

	// Update absorbs blocks into the chaining state. The length of blocks is a positive multiple of BlockSize.
	Update(blocks []byte)

	// Final absorbs the remaining tail (0 <= len(tail) <= BlockSize), applies the algorithm's finalization rule,
	// and writes the digest to dst. The count is the total message length in bytes, including the tail.
	Final(tail []byte, count Count, dst []byte)

	// Reset returns the chaining state to its initial value.
	Reset()
}

// Count is a 128-bit message byte count, Lo + Hi<<64.
type Count struct {
	Lo, Hi uint64
}

func (c Count) add(n int) Count {
	lo := c.Lo + uint64(n)
	if lo < c.Lo {
		c.Hi++
	}
	c.Lo = lo
	return c
}

// Bits returns the count as a 128-bit bit count.
func (c Count) Bits() (lo, hi uint64) {
	return c.Lo << 3, c.Hi<<3 | c.Lo>>61
}

// Hasher is an incremental hash instance over a single Compressor. It implements hash.Hash, with one deviation:
// the first Sum seals the instance. Further Sum calls return the same digest; Write after Sum panics.
type Hasher struct {
	c      Compressor
	buf    []byte
	n      int
	count  Count
	digest []byte
}

// New returns a new Hasher over c.
func New(c Compressor) *Hasher {
	return &Hasher{c: c, buf: make([]byte, c.BlockSize())}
}

// Write absorbs p into the hash state. It panics if called after Sum.
func (h *Hasher) Write(p []byte) (int, error) {
	if h.digest != nil {
		panic("iterhash: update after finalization")
	}

	n := len(p)
	h.count = h.count.add(n)
	bs := len(h.buf)

	if h.n > 0 {
		r := copy(h.buf[h.n:], p)
		h.n += r
		p = p[r:]
		if len(p) == 0 {
			// The buffer may now be exactly full; hold it back until more input or Sum.
			return n, nil
		}
		h.c.Update(h.buf)
		h.n = 0
	}

	if len(p) > bs {
		nn := len(p) / bs * bs
		if len(p) == nn {
			nn -= bs
		}
		h.c.Update(p[:nn])
		p = p[nn:]
	}

	h.n = copy(h.buf, p)
	return n, nil
}

// Sum finalizes the hash on first call and appends the digest to b. Repeated calls append the same digest.
func (h *Hasher) Sum(b []byte) []byte {
	if h.digest == nil {
		h.digest = make([]byte, h.c.Size())
		h.c.Final(h.buf[:h.n], h.count, h.digest)
	}
	return append(b, h.digest...)
}

// Sealed reports whether the hasher has been finalized.
func (h *Hasher) Sealed() bool {
	return h.digest != nil
}

// Reset returns the Hasher to its initial state, unsealing it.
func (h *Hasher) Reset() {
	h.c.Reset()
	h.n = 0
	h.count = Count{}
	h.digest = nil
}

// Size returns the digest size in bytes.
func (h *Hasher) Size() int { return h.c.Size() }

// BlockSize returns the compression block size in bytes.
func (h *Hasher) BlockSize() int { return h.c.BlockSize() }

// Padding describes the Merkle–Damgård strengthening appended at finalization: a 0x80 marker byte, a zero fill,
// and the message bit length in the trailing LengthBytes bytes.
type Padding struct {
	LengthBytes  int  // 8 for a 64-bit length field, 16 for 128-bit
	LittleEndian bool // MD5 encodes the bit length little-endian
}

// Apply writes the padded tail into buf and returns the one or two blocks to compress. The capacity of buf must be
// at least 2*blockSize.
func (p Padding) Apply(buf []byte, blockSize int, tail []byte, count Count) []byte {
	n := copy(buf, tail)
	buf[n] = 0x80
	n++

	total := blockSize
	if n+p.LengthBytes > blockSize {
		total = 2 * blockSize
	}
	out := buf[:total]
	clear(out[n : total-p.LengthBytes])

	lo, hi := count.Bits()
	length := out[total-p.LengthBytes:]
	if p.LittleEndian {
		putUint64LE(length, lo)
		if p.LengthBytes == 16 {
			putUint64LE(length[8:], hi)
		}
	} else {
		if p.LengthBytes == 16 {
			putUint64BE(length, hi)
			putUint64BE(length[8:], lo)
		} else {
			putUint64BE(length, lo)
		}
	}
	return out
}

func putUint64LE(b []byte, v uint64) {
	for i := range 8 {
		b[i] = byte(v >> (8 * i))
	}
}

func putUint64BE(b []byte, v uint64) {
	for i := range 8 {
		b[i] = byte(v >> (8 * (7 - i)))
	}
}
