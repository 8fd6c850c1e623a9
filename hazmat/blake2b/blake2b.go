// Package blake2b implements the BLAKE2b hash algorithm as specified in RFC 7693, including keyed hashing,
// salting, personalization, the full tree-hashing parameter block, and the BLAKE2Xb extendable-output function.
package blake2b

import (
	"encoding/binary"
	"errors"

	"github.com/codahale/corymb/hazmat/iterhash"
)

const (
	// BlockSize is the BLAKE2b compression block size in bytes.
	BlockSize = 128
	// Size is the maximum (and default) BLAKE2b digest size in bytes.
	Size = 64
	// KeySize is the maximum key size in bytes.
	KeySize = 64
	// SaltSize is the size of the parameter-block salt field in bytes.
	SaltSize = 16
	// PersonalSize is the size of the parameter-block personalization field in bytes.
	PersonalSize = 16
)

var (
	errSizeRange = errors.New("blake2b: digest size out of range")
	errKeySize   = errors.New("blake2b: key longer than 64 bytes")
	errSaltSize  = errors.New("blake2b: salt longer than 16 bytes")
	errPersonal  = errors.New("blake2b: personalization longer than 16 bytes")
)

// Config parameterizes a BLAKE2b instance. It mirrors the RFC 7693 parameter block; zero values select the
// sequential-mode defaults.
type Config struct {
	Size     int    // digest size in bytes, 1..64; 0 means 64
	Key      []byte // up to 64 bytes; a non-empty key is absorbed as one zero-padded prepended block
	Salt     []byte // up to 16 bytes, XORed into the initial state via the parameter block
	Personal []byte // up to 16 bytes, likewise
	Tree     *Tree  // tree-hashing fields; nil selects sequential mode
}

// Tree holds the tree-hashing fields of the parameter block, used by the parallel BLAKE2bp construction and by
// BLAKE2Xb output blocks.
type Tree struct {
	Fanout     uint8
	Depth      uint8
	LeafSize   uint32
	NodeOffset uint64
	NodeDepth  uint8
	InnerSize  uint8
	IsLastNode bool // sets the last-node finalization flag

	// KeyLength, if nonzero, is recorded in the parameter block without a key block being absorbed. The root
	// node of a parallel tree carries the key length in its parameters but is fed leaf digests, never the key.
	KeyLength uint8

	// OutputSize, if nonzero, overrides the number of bytes the digest produces without changing the
	// digest-length parameter field. Parallel modes finalize leaves at full width while the parameter block
	// carries the caller's requested length.
	OutputSize int
}

// Digest is an incremental BLAKE2b instance. It implements hash.Hash, with one deviation inherited from
// iterhash.Hasher: the first Sum seals the instance.
type Digest struct {
	*iterhash.Hasher
	key    [BlockSize]byte
	keyLen int
}

// New returns a new BLAKE2b hasher with the given digest size. A non-nil key turns the hash into a MAC; the key
// must be between zero and 64 bytes long.
func New(size int, key []byte) (*Digest, error) {
	return NewConfig(&Config{Size: size, Key: key})
}

// New512 returns a new BLAKE2b-512 hasher. A non-nil key turns the hash into a MAC.
func New512(key []byte) (*Digest, error) { return New(Size, key) }

// NewConfig returns a new BLAKE2b hasher with a fully specified parameter block.
func NewConfig(cfg *Config) (*Digest, error) {
	c, err := newCompressor(cfg)
	if err != nil {
		return nil, err
	}

	d := &Digest{Hasher: iterhash.New(c), keyLen: len(cfg.Key)}
	copy(d.key[:], cfg.Key)
	if d.keyLen > 0 {
		_, _ = d.Hasher.Write(d.key[:])
	}
	return d, nil
}

// Reset returns the Digest to its initial keyed state, unsealing it.
func (d *Digest) Reset() {
	d.Hasher.Reset()
	if d.keyLen > 0 {
		_, _ = d.Hasher.Write(d.key[:])
	}
}

// Sum512 returns the BLAKE2b-512 digest of data.
func Sum512(data []byte) [Size]byte {
	d, _ := New512(nil)
	_, _ = d.Write(data)
	var out [Size]byte
	copy(out[:], d.Sum(nil))
	return out
}

// Sum256 returns the BLAKE2b-256 digest of data.
func Sum256(data []byte) [32]byte {
	d, _ := New(32, nil)
	_, _ = d.Write(data)
	var out [32]byte
	copy(out[:], d.Sum(nil))
	return out
}

type compressor struct {
	h     [8]uint64
	c     [2]uint64
	param [64]byte
	size  int // bytes serialized by Final
	last  bool
}

func newCompressor(cfg *Config) (*compressor, error) {
	size := cfg.Size
	if size == 0 {
		size = Size
	}
	switch {
	case size < 1 || size > Size:
		return nil, errSizeRange
	case len(cfg.Key) > KeySize:
		return nil, errKeySize
	case len(cfg.Salt) > SaltSize:
		return nil, errSaltSize
	case len(cfg.Personal) > PersonalSize:
		return nil, errPersonal
	}

	c := &compressor{size: size}
	c.param[0] = byte(size)
	c.param[1] = byte(len(cfg.Key))
	c.param[2] = 1 // fanout
	c.param[3] = 1 // depth
	copy(c.param[32:48], cfg.Salt)
	copy(c.param[48:64], cfg.Personal)

	if t := cfg.Tree; t != nil {
		c.param[2] = t.Fanout
		c.param[3] = t.Depth
		binary.LittleEndian.PutUint32(c.param[4:], t.LeafSize)
		binary.LittleEndian.PutUint64(c.param[8:], t.NodeOffset)
		c.param[16] = t.NodeDepth
		c.param[17] = t.InnerSize
		c.last = t.IsLastNode
		if t.KeyLength != 0 {
			c.param[1] = t.KeyLength
		}
		if t.OutputSize != 0 {
			c.size = t.OutputSize
		}
	}

	c.Reset()
	return c, nil
}

func (c *compressor) BlockSize() int { return BlockSize }

func (c *compressor) Size() int { return c.size }

func (c *compressor) Reset() {
	for i := range c.h {
		c.h[i] = iv[i] ^ binary.LittleEndian.Uint64(c.param[i*8:])
	}
	c.c = [2]uint64{}
}

func (c *compressor) Update(blocks []byte) {
	for len(blocks) > 0 {
		c.c[0] += BlockSize
		if c.c[0] < BlockSize {
			c.c[1]++
		}
		c.compress((*[BlockSize]byte)(blocks), 0, 0)
		blocks = blocks[BlockSize:]
	}
}

func (c *compressor) Final(tail []byte, _ iterhash.Count, dst []byte) {
	var block [BlockSize]byte
	copy(block[:], tail)

	c.c[0] += uint64(len(tail))
	if c.c[0] < uint64(len(tail)) {
		c.c[1]++
	}

	var f1 uint64
	if c.last {
		f1 = ^uint64(0)
	}
	c.compress(&block, ^uint64(0), f1)

	var sum [Size]byte
	for i, v := range c.h {
		binary.LittleEndian.PutUint64(sum[i*8:], v)
	}
	copy(dst, sum[:c.size])
}

var iv = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}
