// Package blake2bp implements the BLAKE2bp parallel hash: four BLAKE2b leaves fed round-robin in 128-byte
// blocks, combined by a keyless BLAKE2b root node. The digest is independent of how input is chunked across
// Write calls and matches the reference implementation for all digest sizes and key lengths.
package blake2bp

import (
	"errors"

	"github.com/codahale/corymb/hazmat/blake2b"
)

const (
	// BlockSize is the size of the blocks distributed round-robin to the leaves.
	BlockSize = blake2b.BlockSize
	// Size is the maximum (and default) digest size in bytes.
	Size = blake2b.Size
	// KeySize is the maximum key size in bytes.
	KeySize = blake2b.KeySize

	fanout = 4
)

// Digest is an incremental BLAKE2bp instance. Like the other hashers in this module, the first Sum seals it;
// Reset returns it to the initial keyed state.
type Digest struct {
	leaves [fanout]*blake2b.Digest
	root   *blake2b.Digest
	size   int
	off    uint64 // total bytes absorbed; selects the leaf for the next block
	digest []byte
}

// New returns a new BLAKE2bp hasher with the given digest size, between 1 and 64 bytes. A non-nil key turns the
// hash into a MAC; the key is absorbed by every leaf but never by the root.
func New(size int, key []byte) (*Digest, error) {
	if size < 1 || size > Size {
		return nil, errors.New("blake2bp: digest size out of range")
	}
	if len(key) > KeySize {
		return nil, errors.New("blake2bp: key longer than 64 bytes")
	}

	d := &Digest{size: size}
	for i := range d.leaves {
		leaf, err := blake2b.NewConfig(&blake2b.Config{
			Size: size,
			Key:  key,
			Tree: &blake2b.Tree{
				Fanout:     fanout,
				Depth:      2,
				NodeOffset: uint64(i),
				InnerSize:  Size,
				IsLastNode: i == fanout-1,
				OutputSize: Size, // leaves emit full-width chaining values
			},
		})
		if err != nil {
			return nil, err
		}
		d.leaves[i] = leaf
	}

	root, err := blake2b.NewConfig(&blake2b.Config{
		Size: size,
		Tree: &blake2b.Tree{
			Fanout:     fanout,
			Depth:      2,
			NodeDepth:  1,
			InnerSize:  Size,
			IsLastNode: true,
			KeyLength:  uint8(len(key)),
		},
	})
	if err != nil {
		return nil, err
	}
	d.root = root

	return d, nil
}

// New512 returns a new BLAKE2bp-512 hasher. A non-nil key turns the hash into a MAC.
func New512(key []byte) (*Digest, error) { return New(Size, key) }

// Write absorbs message bytes, distributing consecutive 128-byte blocks to the four leaves in round-robin
// order. It panics if called after Sum.
func (d *Digest) Write(p []byte) (int, error) {
	if d.digest != nil {
		panic("blake2bp: update after finalization")
	}

	written := len(p)
	for len(p) > 0 {
		leaf := d.leaves[(d.off/BlockSize)%fanout]
		n := BlockSize - int(d.off%BlockSize)
		if n > len(p) {
			n = len(p)
		}
		_, _ = leaf.Write(p[:n])
		d.off += uint64(n)
		p = p[n:]
	}
	return written, nil
}

// Sum finalizes the leaves in order, combines their chaining values in the root node, and appends the digest to
// b. The first call seals the Digest; later calls return the same digest.
func (d *Digest) Sum(b []byte) []byte {
	if d.digest == nil {
		for _, leaf := range d.leaves {
			_, _ = d.root.Write(leaf.Sum(nil))
		}
		d.digest = d.root.Sum(nil)
	}
	return append(b, d.digest...)
}

// Reset returns the Digest to its initial keyed state, unsealing it.
func (d *Digest) Reset() {
	for _, leaf := range d.leaves {
		leaf.Reset()
	}
	d.root.Reset()
	d.off = 0
	d.digest = nil
}

// Size returns the digest size in bytes.
func (d *Digest) Size() int { return d.size }

// BlockSize returns the distribution block size in bytes.
func (d *Digest) BlockSize() int { return BlockSize }

// Sum512 returns the BLAKE2bp-512 digest of data.
func Sum512(data []byte) [Size]byte {
	d, _ := New512(nil)
	_, _ = d.Write(data)
	var out [Size]byte
	copy(out[:], d.Sum(nil))
	return out
}
