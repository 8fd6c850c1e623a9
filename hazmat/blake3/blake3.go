// Package blake3 implements the BLAKE3 cryptographic hash function in its three modes: plain hashing, keyed
// hashing, and key derivation. Input is split into 1 KiB chunks arranged as a binary tree; an incremental stack
// of subtree chaining values keeps the state logarithmic in the input length. Output is an extendable stream
// with random access: any 64-byte output block can be recomputed from the root alone.
package blake3

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	// Size is the default digest size in bytes. Longer output is available through XOF.
	Size = 32
	// KeySize is the keyed-mode key size in bytes.
	KeySize = 32
	// BlockSize is the compression block size in bytes.
	BlockSize = 64
	// ChunkSize is the leaf chunk size in bytes.
	ChunkSize = 1024

	// MaxOutput bounds the extendable output stream at 2^53 bytes. Reads stop with io.EOF there and seeks past
	// it fail.
	MaxOutput = 1 << 53

	blocksPerChunk = ChunkSize / BlockSize

	// 54 stack slots cover 2^54 chunks, enough for any input shorter than 2^64 bytes.
	stackSize = 54
)

var errKeySize = errors.New("blake3: key must be 32 bytes")

// chunkState absorbs up to 1 KiB of input one 64-byte block at a time. A block is only compressed once a byte
// beyond it arrives, so the final block of the chunk can carry the chunk-end flag.
type chunkState struct {
	cv           [8]uint32
	chunkCounter uint64
	block        [BlockSize]byte
	blockLen     int
	blocks       int
	flags        uint32
}

func newChunkState(key [8]uint32, counter uint64, flags uint32) chunkState {
	return chunkState{cv: key, chunkCounter: counter, flags: flags}
}

func (cs *chunkState) length() int {
	return cs.blocks*BlockSize + cs.blockLen
}

func (cs *chunkState) startFlag() uint32 {
	if cs.blocks == 0 {
		return flagChunkStart
	}
	return 0
}

func (cs *chunkState) update(input []byte) {
	for len(input) > 0 {
		if cs.blockLen == BlockSize {
			words := wordsFromBlock(&cs.block)
			cs.cv = first8(compress(&cs.cv, &words, cs.chunkCounter, BlockSize, cs.flags|cs.startFlag()))
			cs.blocks++
			cs.block = [BlockSize]byte{}
			cs.blockLen = 0
		}

		n := copy(cs.block[cs.blockLen:], input)
		cs.blockLen += n
		input = input[n:]
	}
}

// output captures the input to one final compression, deferred so the root flag (and, for the root, the output
// block counter) can be chosen at read time.
func (cs *chunkState) output() output {
	return output{
		cv:       cs.cv,
		block:    wordsFromBlock(&cs.block),
		counter:  cs.chunkCounter,
		blockLen: uint32(cs.blockLen),
		flags:    cs.flags | cs.startFlag() | flagChunkEnd,
	}
}

type output struct {
	cv       [8]uint32
	block    [16]uint32
	counter  uint64
	blockLen uint32
	flags    uint32
}

func (o *output) chainingValue() [8]uint32 {
	return first8(compress(&o.cv, &o.block, o.counter, o.blockLen, o.flags))
}

// rootBlock computes the 64-byte root output block with the given block index as the compression counter.
func (o *output) rootBlock(index uint64, dst *[BlockSize]byte) {
	v := compress(&o.cv, &o.block, index, o.blockLen, o.flags|flagRoot)
	for i, w := range v {
		binary.LittleEndian.PutUint32(dst[i*4:], w)
	}
}

func parentOutput(left, right, key [8]uint32, flags uint32) output {
	var block [16]uint32
	copy(block[:8], left[:])
	copy(block[8:], right[:])
	return output{cv: key, block: block, blockLen: BlockSize, flags: flags | flagParent}
}

// Hasher is an incremental BLAKE3 instance. Unlike the block-iterated hashes in this module, finalization is
// non-destructive: Sum and XOF read the current state without consuming it, and Write may continue afterward.
type Hasher struct {
	cs       chunkState
	key      [8]uint32
	cvStack  [stackSize][8]uint32
	stackLen int
	flags    uint32
}

// New returns a new unkeyed BLAKE3 hasher.
func New() *Hasher {
	return newHasher(iv, 0)
}

// NewKeyed returns a new keyed BLAKE3 hasher. The key must be exactly 32 bytes.
func NewKeyed(key []byte) (*Hasher, error) {
	if len(key) != KeySize {
		return nil, errKeySize
	}
	return newHasher(keyWords(key), flagKeyedHash), nil
}

// NewDeriveKey returns a new BLAKE3 hasher in key-derivation mode: the context string is hashed into a context
// key, and the bytes written to the hasher are the key material. The context should be hardcoded, globally
// unique, and application-specific.
func NewDeriveKey(context string) *Hasher {
	ctx := newHasher(iv, flagDeriveKeyContext)
	_, _ = ctx.Write([]byte(context))
	var contextKey [KeySize]byte
	o := ctx.finalize()
	o.rootBytes(contextKey[:])
	return newHasher(keyWords(contextKey[:]), flagDeriveKeyMaterial)
}

func newHasher(key [8]uint32, flags uint32) *Hasher {
	return &Hasher{cs: newChunkState(key, 0, flags), key: key, flags: flags}
}

func keyWords(key []byte) [8]uint32 {
	var w [8]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(key[i*4:])
	}
	return w
}

// Write absorbs message bytes.
func (h *Hasher) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		if h.cs.length() == ChunkSize {
			o := h.cs.output()
			cv := o.chainingValue()
			totalChunks := h.cs.chunkCounter + 1
			h.addChunkChainingValue(cv, totalChunks)
			h.cs = newChunkState(h.key, totalChunks, h.flags)
		}

		n := ChunkSize - h.cs.length()
		if n > len(p) {
			n = len(p)
		}
		h.cs.update(p[:n])
		p = p[n:]
	}
	return written, nil
}

// addChunkChainingValue merges completed subtrees. After chunk N completes, each trailing zero bit of N is a
// completed subtree whose chaining value sits on the stack and pairs with the new one.
func (h *Hasher) addChunkChainingValue(cv [8]uint32, totalChunks uint64) {
	for totalChunks&1 == 0 {
		h.stackLen--
		o := parentOutput(h.cvStack[h.stackLen], cv, h.key, h.flags)
		cv = o.chainingValue()
		totalChunks >>= 1
	}
	h.cvStack[h.stackLen] = cv
	h.stackLen++
}

// finalize folds the stack into the root node without modifying the hasher.
func (h *Hasher) finalize() output {
	o := h.cs.output()
	for i := h.stackLen - 1; i >= 0; i-- {
		o = parentOutput(h.cvStack[i], o.chainingValue(), h.key, h.flags)
	}
	return o
}

// Sum appends the 32-byte digest to b. The hasher remains usable: a digest over an extended message is the
// digest of the whole stream, not of the suffix.
func (h *Hasher) Sum(b []byte) []byte {
	var out [Size]byte
	o := h.finalize()
	o.rootBytes(out[:])
	return append(b, out[:]...)
}

// Reset returns the Hasher to its initial state, preserving the mode and key.
func (h *Hasher) Reset() {
	h.cs = newChunkState(h.key, 0, h.flags)
	h.stackLen = 0
}

// Size returns the default digest size in bytes.
func (h *Hasher) Size() int { return Size }

// BlockSize returns the compression block size in bytes.
func (h *Hasher) BlockSize() int { return BlockSize }

// XOF returns an extendable-output reader over the current state. The first Size bytes of the stream equal the
// Sum digest; the hasher itself remains usable.
func (h *Hasher) XOF() *OutputReader {
	return &OutputReader{o: h.finalize()}
}

// rootBytes fills dst with output stream bytes starting at position zero.
func (o *output) rootBytes(dst []byte) {
	var block [BlockSize]byte
	for i := uint64(0); len(dst) > 0; i++ {
		o.rootBlock(i, &block)
		n := copy(dst, block[:])
		dst = dst[n:]
	}
}

// OutputReader is a seekable BLAKE3 output stream. Every 64-byte output block depends only on the root node and
// the block index, so Seek is random access in both directions. The stream ends at MaxOutput.
type OutputReader struct {
	o        output
	block    [BlockSize]byte
	blockIdx uint64
	pos      uint64
	haveBlk  bool
}

// Read produces output bytes at the current position. It returns io.EOF at the MaxOutput boundary.
func (r *OutputReader) Read(p []byte) (int, error) {
	var n int
	for len(p) > 0 && r.pos < MaxOutput {
		b := r.pos / BlockSize
		if !r.haveBlk || b != r.blockIdx {
			r.o.rootBlock(b, &r.block)
			r.blockIdx, r.haveBlk = b, true
		}
		c := copy(p, r.block[r.pos%BlockSize:])
		r.pos += uint64(c)
		n += c
		p = p[c:]
	}

	if len(p) > 0 {
		return n, io.EOF
	}
	return n, nil
}

// Seek repositions the output stream. Positions up to MaxOutput are valid.
func (r *OutputReader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(r.pos) + offset
	case io.SeekEnd:
		abs = MaxOutput + offset
	default:
		return int64(r.pos), errors.New("blake3: invalid seek whence")
	}
	switch {
	case abs < 0:
		return int64(r.pos), errors.New("blake3: negative seek position")
	case abs > MaxOutput:
		return int64(r.pos), errors.New("blake3: seek position beyond output bound")
	}

	r.pos = uint64(abs)
	return abs, nil
}

// Sum256 returns the BLAKE3 digest of data.
func Sum256(data []byte) [Size]byte {
	h := New()
	_, _ = h.Write(data)
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// DeriveKey derives len(out) bytes of key material from the given context string and key material.
func DeriveKey(context string, material, out []byte) {
	h := NewDeriveKey(context)
	_, _ = h.Write(material)
	o := h.finalize()
	o.rootBytes(out)
}
