package sha3

import (
	"errors"
	"io"

	"github.com/codahale/corymb/hazmat/keccak"
)

// SHAKE is an incremental SHAKE128 or SHAKE256 instance that implements io.ReadWriter. Writes absorb data into the
// sponge and reads squeeze output from it. Once Read is called, no further writes are permitted.
//
// SHAKE output is a true sponge continuation: byte p can only be produced after all bytes before p, so Seek is
// forward-only.
type SHAKE struct {
	s         sponge
	buf       [maxRate]byte // input buffer while absorbing, output window while squeezing
	n         int
	pos       int64
	squeezing bool
}

// NewSHAKE128 returns a new SHAKE128 instance.
func NewSHAKE128() *SHAKE { return &SHAKE{s: sponge{rate: 168, ds: dsSHAKE}} }

// NewSHAKE256 returns a new SHAKE256 instance.
func NewSHAKE256() *SHAKE { return &SHAKE{s: sponge{rate: 136, ds: dsSHAKE}} }

// SumSHAKE128 computes SHAKE128(data) with the given output length.
func SumSHAKE128(data []byte, length int) []byte { return sumSHAKE(NewSHAKE128(), data, length) }

// SumSHAKE256 computes SHAKE256(data) with the given output length.
func SumSHAKE256(data []byte, length int) []byte { return sumSHAKE(NewSHAKE256(), data, length) }

func sumSHAKE(h *SHAKE, data []byte, length int) []byte {
	_, _ = h.Write(data)
	out := make([]byte, length)
	_, _ = h.Read(out)
	return out
}

// Write absorbs p into the sponge state. It panics if called after Read.
func (h *SHAKE) Write(p []byte) (int, error) {
	if h.squeezing {
		panic("sha3: write after read")
	}

	n := len(p)
	for len(p) > 0 {
		w := copy(h.buf[h.n:h.s.rate], p)
		h.n += w
		p = p[w:]
		if h.n == h.s.rate {
			h.s.xorIn(h.buf[:h.s.rate])
			keccak.F1600(&h.s.a)
			h.n = 0
		}
	}
	return n, nil
}

// Read squeezes output from the sponge state into p. On the first call, it finalizes absorption by applying
// padding and permuting. Subsequent calls continue squeezing. It never returns an error.
func (h *SHAKE) Read(p []byte) (int, error) {
	if !h.squeezing {
		h.s.pad(h.buf[:h.n])
		h.s.squeeze(h.buf[:h.s.rate])
		h.n = 0
		h.squeezing = true
	}

	n := len(p)
	for len(p) > 0 {
		if h.n == h.s.rate {
			keccak.F1600(&h.s.a)
			h.s.squeeze(h.buf[:h.s.rate])
			h.n = 0
		}
		r := copy(p, h.buf[h.n:h.s.rate])
		h.n += r
		h.pos += int64(r)
		p = p[r:]
	}
	return n, nil
}

// Seek advances the output stream to offset, finalizing absorption if necessary. Sponge output cannot be
// recomputed out of order, so only positions at or past the bytes already produced are reachable; seeking
// backward returns an error. Seeking relative to the end is not supported (the stream is unbounded). A forward
// seek squeezes and discards the skipped bytes, so its cost grows with the distance.
func (h *SHAKE) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = h.pos + offset
	default:
		return h.pos, errors.New("sha3: seek relative to end of an unbounded stream")
	}
	if abs < h.pos {
		return h.pos, errors.New("sha3: cannot seek backward in a sponge stream")
	}

	var scratch [512]byte
	for h.pos < abs {
		n := min(int64(len(scratch)), abs-h.pos)
		_, _ = h.Read(scratch[:n])
	}
	return h.pos, nil
}

// Pos returns the number of output bytes produced so far.
func (h *SHAKE) Pos() int64 { return h.pos }
