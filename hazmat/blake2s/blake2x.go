package blake2s

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/codahale/corymb/hazmat/iterhash"
)

// OutputLengthUnknown can be passed to NewXOF to produce an output stream whose length is not known in advance.
// The stream is still bounded by the BLAKE2Xs period.
const OutputLengthUnknown = 0

const (
	// magicUnknownOutputLength is the parameter-block encoding of an unknown XOF length.
	magicUnknownOutputLength = (1 << 16) - 1

	// Period is the BLAKE2Xs output period in bytes: 2^32 output blocks of 32 bytes (128 GiB). Output repeats
	// beyond it, and seeking an unknown-length stream wraps at it.
	Period = (1 << 32) * Size
)

// XOF is a BLAKE2Xs extendable-output stream. Each output block is derived from the root digest and its own block
// index, so any position can be recomputed independently: Seek supports random access in both directions.
type XOF struct {
	outer    *Digest
	length   uint16
	root     [Size]byte
	block    [Size]byte
	blockIdx uint32
	pos      uint64
	haveRoot bool
	haveBlk  bool
}

// NewXOF returns a new BLAKE2Xs instance producing length output bytes, or an unbounded-until-period stream if
// length is OutputLengthUnknown. A non-nil key turns the XOF into a MAC; the key must be at most 32 bytes long.
func NewXOF(length uint16, key []byte) (*XOF, error) {
	if length == magicUnknownOutputLength {
		// The largest representable length doubles as the unknown-length sentinel on the wire.
		return nil, errors.New("blake2s: XOF length too large")
	}
	if length == OutputLengthUnknown {
		length = magicUnknownOutputLength
	}

	c, err := newCompressor(&Config{Size: Size, Key: key})
	if err != nil {
		return nil, err
	}
	// The requested XOF length lives in bytes 12..13 of the root parameter block.
	binary.LittleEndian.PutUint16(c.param[12:], length)
	c.Reset()

	d := &Digest{Hasher: iterhash.New(c), keyLen: len(key)}
	copy(d.key[:], key)
	if d.keyLen > 0 {
		_, _ = d.Hasher.Write(d.key[:])
	}

	return &XOF{outer: d, length: length}, nil
}

// Write absorbs message bytes. It panics if called after Read or Seek.
func (x *XOF) Write(p []byte) (int, error) {
	if x.haveRoot {
		panic("blake2s: write to XOF after read")
	}
	return x.outer.Write(p)
}

func (x *XOF) limit() uint64 {
	if x.length == magicUnknownOutputLength {
		return Period
	}
	return uint64(x.length)
}

// Read produces output bytes at the current position. On the first call (or the first Seek), absorption is
// finalized. Read returns io.EOF once the declared output length is exhausted.
func (x *XOF) Read(p []byte) (int, error) {
	x.finalize()

	total := x.limit()
	var n int
	for len(p) > 0 && x.pos < total {
		b := uint32(x.pos / Size)
		blockLen := Size
		if rem := total - uint64(b)*Size; rem < Size {
			blockLen = int(rem)
		}
		if !x.haveBlk || b != x.blockIdx {
			x.generateBlock(b, blockLen)
			x.blockIdx, x.haveBlk = b, true
		}
		r := copy(p, x.block[int(x.pos%Size):blockLen])
		x.pos += uint64(r)
		n += r
		p = p[r:]
	}

	if len(p) > 0 {
		return n, io.EOF
	}
	return n, nil
}

// Seek repositions the output stream. Any position can be reached in either direction. Unknown-length streams
// wrap at the BLAKE2Xs period; fixed-length streams hit io.EOF past their declared length instead.
func (x *XOF) Seek(offset int64, whence int) (int64, error) {
	x.finalize()

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(x.pos) + offset
	default:
		return int64(x.pos), errors.New("blake2s: seek relative to end of an extendable output stream")
	}
	if abs < 0 {
		return int64(x.pos), errors.New("blake2s: negative seek position")
	}

	if x.length == magicUnknownOutputLength {
		abs %= Period
	}
	x.pos = uint64(abs)
	return abs, nil
}

func (x *XOF) finalize() {
	if x.haveRoot {
		return
	}
	copy(x.root[:], x.outer.Sum(nil))
	x.haveRoot = true
}

// generateBlock computes output block b by hashing the root digest under a per-block parameter set: the block
// index as node offset, the requested XOF length, and the block's own output size.
func (x *XOF) generateBlock(b uint32, blockLen int) {
	c := &compressor{size: blockLen}
	c.param[0] = byte(blockLen)
	binary.LittleEndian.PutUint32(c.param[4:], Size)      // leaf length
	binary.LittleEndian.PutUint32(c.param[8:], b)         // node offset
	binary.LittleEndian.PutUint16(c.param[12:], x.length) // XOF length
	c.param[15] = Size                                    // inner length
	c.Reset()
	c.Final(x.root[:], iterhash.Count{}, x.block[:blockLen])
}
