package corymb

import (
	"fmt"
	"io"

	"github.com/codahale/corymb/hazmat/blake3"
	"github.com/codahale/corymb/hazmat/sha3"
)

// XOF is an extendable-output stream: a reader over the digest bytes with a seekable position.
//
// Seek semantics vary by mechanism. SHAKE output is a sponge continuation, so seeks are monotonic: positions
// before already-produced output fail with ErrSequence. BLAKE2Xb/Xs output blocks are independently computable,
// so seeks are random access; unknown-length streams wrap at the variant's period. BLAKE3 output is likewise
// random access but bounded at 2^53 bytes; seeks past the bound fail with ErrUnsupportedLength.
type XOF interface {
	io.Reader
	io.Seeker
}

// shakeXOF enforces the monotonic seek contract with the facade's error taxonomy; the sponge itself is the
// position of record.
type shakeXOF struct {
	s *sha3.SHAKE
}

func (x *shakeXOF) Read(p []byte) (int, error) { return x.s.Read(p) }

func (x *shakeXOF) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = x.s.Pos() + offset
	default:
		return x.s.Pos(), fmt.Errorf("corymb: shake output has no end to seek from: %w",
			ErrInvalidParameter)
	}
	if abs < x.s.Pos() {
		return x.s.Pos(), fmt.Errorf("corymb: shake output supports only forward seeks: %w",
			ErrSequence)
	}
	return x.s.Seek(abs, io.SeekStart)
}

// blake2xXOF translates seek misuse on a BLAKE2Xb/Xs reader into the facade's error taxonomy. The reader itself
// handles random access and period wrap and reports the wrapped position back.
type blake2xXOF struct {
	r   XOF
	pos int64
}

func (x *blake2xXOF) Read(p []byte) (int, error) {
	n, err := x.r.Read(p)
	x.pos += int64(n)
	return n, err
}

func (x *blake2xXOF) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = x.pos + offset
	default:
		return x.pos, fmt.Errorf("corymb: blake2x output has no end to seek from: %w",
			ErrInvalidParameter)
	}
	if abs < 0 {
		return x.pos, fmt.Errorf("corymb: negative seek position: %w", ErrInvalidParameter)
	}

	pos, err := x.r.Seek(abs, io.SeekStart)
	if err != nil {
		return x.pos, err
	}
	x.pos = pos
	return pos, nil
}

// blake3XOF tracks the cursor so out-of-range seeks can be rejected with the facade's error taxonomy before
// they reach the reader.
type blake3XOF struct {
	r   *blake3.OutputReader
	pos int64
}

func (x *blake3XOF) Read(p []byte) (int, error) {
	n, err := x.r.Read(p)
	x.pos += int64(n)
	return n, err
}

func (x *blake3XOF) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = x.pos + offset
	case io.SeekEnd:
		abs = blake3.MaxOutput + offset
	default:
		return x.pos, fmt.Errorf("corymb: invalid seek whence %d: %w", whence, ErrInvalidParameter)
	}
	switch {
	case abs < 0:
		return x.pos, fmt.Errorf("corymb: negative seek position: %w", ErrInvalidParameter)
	case abs > blake3.MaxOutput:
		return x.pos, fmt.Errorf("corymb: seek beyond the 2^53-byte output bound: %w", ErrUnsupportedLength)
	}

	if _, err := x.r.Seek(abs, io.SeekStart); err != nil {
		return x.pos, err
	}
	x.pos = abs
	return abs, nil
}
