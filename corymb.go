// Package corymb provides a uniform facade over the hash algorithms in hazmat: incremental hashing for the
// MD/SHA families and BLAKE2, parallel BLAKE2bp/sp, and extendable output for SHAKE, BLAKE2X, and BLAKE3 behind
// one seekable reader contract.
//
// A Hasher moves through three states: accepting input, sealed with a digest, or handed off to an XOF reader.
// Misuse (writing after finalization, finalizing twice in conflicting ways) returns ErrSequence rather than
// panicking; parameter problems are reported by New before any input is absorbed. The hazmat packages underneath
// are sharper-edged and panic on misuse; use them directly only when the facade's checks are in the way.
package corymb

import (
	"fmt"
	"io"

	"github.com/codahale/corymb/hazmat/blake2b"
	"github.com/codahale/corymb/hazmat/blake2bp"
	"github.com/codahale/corymb/hazmat/blake2s"
	"github.com/codahale/corymb/hazmat/blake2sp"
	"github.com/codahale/corymb/hazmat/blake3"
	"github.com/codahale/corymb/hazmat/md5"
	"github.com/codahale/corymb/hazmat/sha1"
	"github.com/codahale/corymb/hazmat/sha2"
	"github.com/codahale/corymb/hazmat/sha3"
)

// Error taxonomy. All errors returned by this package wrap one of these sentinels; match with errors.Is.
var (
	// ErrInvalidParameter reports an out-of-range digest size, an oversized key, salt, or personalization, or
	// an option the algorithm does not accept. Detected by New, never mid-stream.
	ErrInvalidParameter = fmt.Errorf("invalid parameter")

	// ErrSequence reports a state-machine violation: writing after finalization, or requesting a digest and an
	// XOF reader from the same Hasher.
	ErrSequence = fmt.Errorf("operation out of sequence")

	// ErrUnsupportedLength reports a digest or XOF length beyond the algorithm's representable range.
	ErrUnsupportedLength = fmt.Errorf("unsupported output length")
)

// Algorithm names a supported hash algorithm.
type Algorithm string

const (
	MD5      Algorithm = "md5"
	SHA1     Algorithm = "sha1"
	SHA224   Algorithm = "sha224"
	SHA256   Algorithm = "sha256"
	SHA384   Algorithm = "sha384"
	SHA512   Algorithm = "sha512"
	SHA3_224 Algorithm = "sha3-224"
	SHA3_256 Algorithm = "sha3-256"
	SHA3_384 Algorithm = "sha3-384"
	SHA3_512 Algorithm = "sha3-512"
	SHAKE128 Algorithm = "shake128"
	SHAKE256 Algorithm = "shake256"
	BLAKE2b  Algorithm = "blake2b"
	BLAKE2s  Algorithm = "blake2s"
	BLAKE2bp Algorithm = "blake2bp"
	BLAKE2sp Algorithm = "blake2sp"
	BLAKE2Xb Algorithm = "blake2xb"
	BLAKE2Xs Algorithm = "blake2xs"
	BLAKE3   Algorithm = "blake3"
)

// Algorithms returns all supported algorithms in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{
		MD5, SHA1, SHA224, SHA256, SHA384, SHA512,
		SHA3_224, SHA3_256, SHA3_384, SHA3_512, SHAKE128, SHAKE256,
		BLAKE2b, BLAKE2s, BLAKE2bp, BLAKE2sp, BLAKE2Xb, BLAKE2Xs, BLAKE3,
	}
}

// Option adjusts algorithm parameters at construction time.
type Option func(*options)

type options struct {
	key, salt, personal []byte
	size                int
	sizeSet             bool
}

// WithKey turns keyed-capable algorithms (BLAKE2 family and BLAKE3) into MACs.
func WithKey(key []byte) Option {
	return func(o *options) { o.key = key }
}

// WithSalt sets the BLAKE2b/BLAKE2s salt. Bytes beyond the algorithm's salt field spill into the
// personalization field unless WithPersonal is also given.
func WithSalt(salt []byte) Option {
	return func(o *options) { o.salt = salt }
}

// WithPersonal sets the BLAKE2b/BLAKE2s personalization.
func WithPersonal(personal []byte) Option {
	return func(o *options) { o.personal = personal }
}

// WithSize sets the digest size in bytes. For BLAKE2Xb/BLAKE2Xs it declares the total XOF output length, where
// zero means unknown; for SHAKE and BLAKE3 it sets the number of bytes Sum returns.
func WithSize(size int) Option {
	return func(o *options) { o.size, o.sizeSet = size, true }
}

// Hasher is an incremental hash computation. Write absorbs input; Sum or XOF finalizes. The first Sum seals the
// Hasher and caches the digest; later Sums return the cached digest and later Writes return ErrSequence.
type Hasher struct {
	alg    Algorithm
	size   int
	w      io.Writer
	sumFn  func() []byte
	xofFn  func() XOF
	digest []byte
	gone   bool // XOF handed off
}

// New returns a Hasher for the given algorithm. It returns an error wrapping ErrInvalidParameter or
// ErrUnsupportedLength if the options do not fit the algorithm.
func New(alg Algorithm, opts ...Option) (*Hasher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch alg {
	case MD5:
		return newFixed(alg, &o, 16, md5.New())
	case SHA1:
		return newFixed(alg, &o, 20, sha1.New())
	case SHA224:
		return newFixed(alg, &o, 28, sha2.New224())
	case SHA256:
		return newFixed(alg, &o, 32, sha2.New256())
	case SHA384:
		return newFixed(alg, &o, 48, sha2.New384())
	case SHA512:
		return newFixed(alg, &o, 64, sha2.New512())
	case SHA3_224:
		return newFixed(alg, &o, 28, sha3.New224())
	case SHA3_256:
		return newFixed(alg, &o, 32, sha3.New256())
	case SHA3_384:
		return newFixed(alg, &o, 48, sha3.New384())
	case SHA3_512:
		return newFixed(alg, &o, 64, sha3.New512())
	case SHAKE128:
		return newSHAKE(alg, &o, 32, sha3.NewSHAKE128())
	case SHAKE256:
		return newSHAKE(alg, &o, 64, sha3.NewSHAKE256())
	case BLAKE2b:
		return newBLAKE2b(&o)
	case BLAKE2s:
		return newBLAKE2s(&o)
	case BLAKE2bp:
		return newBLAKE2bp(&o)
	case BLAKE2sp:
		return newBLAKE2sp(&o)
	case BLAKE2Xb:
		return newBLAKE2Xb(&o)
	case BLAKE2Xs:
		return newBLAKE2Xs(&o)
	case BLAKE3:
		return newBLAKE3(&o)
	default:
		return nil, fmt.Errorf("corymb: unknown algorithm %q: %w", alg, ErrInvalidParameter)
	}
}

// Algorithm returns the Hasher's algorithm.
func (h *Hasher) Algorithm() Algorithm { return h.alg }

// Size returns the number of bytes Sum will return.
func (h *Hasher) Size() int { return h.size }

// Write absorbs message bytes. It returns ErrSequence once the Hasher is finalized.
func (h *Hasher) Write(p []byte) (int, error) {
	if h.digest != nil || h.gone {
		return 0, fmt.Errorf("corymb: write after finalization: %w", ErrSequence)
	}
	return h.w.Write(p)
}

// Sum finalizes the hash and returns the digest. It is idempotent: the first call seals the Hasher and caches
// the digest, later calls return a copy of the same bytes. Sum fails with ErrSequence after XOF.
func (h *Hasher) Sum() ([]byte, error) {
	if h.gone {
		return nil, fmt.Errorf("corymb: digest requested after XOF handoff: %w", ErrSequence)
	}
	if h.digest == nil {
		h.digest = h.sumFn()
	}
	return append([]byte(nil), h.digest...), nil
}

// XOF finalizes the hash and returns its extendable-output reader. It fails with ErrInvalidParameter for
// fixed-output algorithms and with ErrSequence if the Hasher was already finalized.
func (h *Hasher) XOF() (XOF, error) {
	if h.xofFn == nil {
		return nil, fmt.Errorf("corymb: %s has no extendable output: %w", h.alg, ErrInvalidParameter)
	}
	if h.digest != nil || h.gone {
		return nil, fmt.Errorf("corymb: XOF requested after finalization: %w", ErrSequence)
	}
	h.gone = true
	return h.xofFn(), nil
}

// Sum computes the digest of data in one call.
func Sum(alg Algorithm, data []byte, opts ...Option) ([]byte, error) {
	h, err := New(alg, opts...)
	if err != nil {
		return nil, err
	}
	_, _ = h.Write(data)
	return h.Sum()
}

type fixedHash interface {
	io.Writer
	Sum(b []byte) []byte
}

func newFixed(alg Algorithm, o *options, size int, fh fixedHash) (*Hasher, error) {
	switch {
	case len(o.key) > 0 || len(o.salt) > 0 || len(o.personal) > 0:
		return nil, fmt.Errorf("corymb: %s takes no key, salt, or personalization: %w", alg, ErrInvalidParameter)
	case o.sizeSet && o.size != size:
		return nil, fmt.Errorf("corymb: %s digest is fixed at %d bytes: %w", alg, size, ErrInvalidParameter)
	}
	return &Hasher{alg: alg, size: size, w: fh, sumFn: func() []byte { return fh.Sum(nil) }}, nil
}

func newSHAKE(alg Algorithm, o *options, defaultSize int, s *sha3.SHAKE) (*Hasher, error) {
	if len(o.key) > 0 || len(o.salt) > 0 || len(o.personal) > 0 {
		return nil, fmt.Errorf("corymb: %s takes no key, salt, or personalization: %w", alg, ErrInvalidParameter)
	}
	size := defaultSize
	if o.sizeSet {
		if o.size < 1 {
			return nil, fmt.Errorf("corymb: %s digest size must be positive: %w", alg, ErrInvalidParameter)
		}
		size = o.size
	}
	return &Hasher{
		alg:   alg,
		size:  size,
		w:     s,
		sumFn: func() []byte { return readN(s, size) },
		xofFn: func() XOF { return &shakeXOF{s: s} },
	}, nil
}

// splitSalt applies the BLAKE2 salt-spill rule: salt bytes beyond the salt field fill the personalization
// field, but only when no explicit personalization was given.
func splitSalt(o *options, saltSize, personalSize int) (salt, personal []byte, err error) {
	salt, personal = o.salt, o.personal
	if len(salt) > saltSize {
		if len(personal) > 0 {
			return nil, nil, fmt.Errorf("corymb: salt longer than %d bytes with explicit personalization: %w",
				saltSize, ErrInvalidParameter)
		}
		if len(salt) > saltSize+personalSize {
			return nil, nil, fmt.Errorf("corymb: salt longer than %d bytes: %w", saltSize+personalSize,
				ErrInvalidParameter)
		}
		salt, personal = salt[:saltSize], salt[saltSize:]
	}
	if len(personal) > personalSize {
		return nil, nil, fmt.Errorf("corymb: personalization longer than %d bytes: %w", personalSize,
			ErrInvalidParameter)
	}
	return salt, personal, nil
}

func newBLAKE2b(o *options) (*Hasher, error) {
	size := blake2b.Size
	if o.sizeSet {
		size = o.size
	}
	if size < 1 || size > blake2b.Size {
		return nil, fmt.Errorf("corymb: blake2b digest size must be 1..%d bytes: %w", blake2b.Size,
			ErrInvalidParameter)
	}
	if len(o.key) > blake2b.KeySize {
		return nil, fmt.Errorf("corymb: blake2b key longer than %d bytes: %w", blake2b.KeySize,
			ErrInvalidParameter)
	}
	salt, personal, err := splitSalt(o, blake2b.SaltSize, blake2b.PersonalSize)
	if err != nil {
		return nil, err
	}

	d, err := blake2b.NewConfig(&blake2b.Config{Size: size, Key: o.key, Salt: salt, Personal: personal})
	if err != nil {
		return nil, fmt.Errorf("corymb: %w: %w", err, ErrInvalidParameter)
	}
	return &Hasher{alg: BLAKE2b, size: size, w: d, sumFn: func() []byte { return d.Sum(nil) }}, nil
}

func newBLAKE2s(o *options) (*Hasher, error) {
	size := blake2s.Size
	if o.sizeSet {
		size = o.size
	}
	if size < 1 || size > blake2s.Size {
		return nil, fmt.Errorf("corymb: blake2s digest size must be 1..%d bytes: %w", blake2s.Size,
			ErrInvalidParameter)
	}
	if len(o.key) > blake2s.KeySize {
		return nil, fmt.Errorf("corymb: blake2s key longer than %d bytes: %w", blake2s.KeySize,
			ErrInvalidParameter)
	}
	salt, personal, err := splitSalt(o, blake2s.SaltSize, blake2s.PersonalSize)
	if err != nil {
		return nil, err
	}

	d, err := blake2s.NewConfig(&blake2s.Config{Size: size, Key: o.key, Salt: salt, Personal: personal})
	if err != nil {
		return nil, fmt.Errorf("corymb: %w: %w", err, ErrInvalidParameter)
	}
	return &Hasher{alg: BLAKE2s, size: size, w: d, sumFn: func() []byte { return d.Sum(nil) }}, nil
}

func newBLAKE2bp(o *options) (*Hasher, error) {
	if len(o.salt) > 0 || len(o.personal) > 0 {
		return nil, fmt.Errorf("corymb: blake2bp takes no salt or personalization: %w", ErrInvalidParameter)
	}
	size := blake2bp.Size
	if o.sizeSet {
		size = o.size
	}
	d, err := blake2bp.New(size, o.key)
	if err != nil {
		return nil, fmt.Errorf("corymb: %w: %w", err, ErrInvalidParameter)
	}
	return &Hasher{alg: BLAKE2bp, size: size, w: d, sumFn: func() []byte { return d.Sum(nil) }}, nil
}

func newBLAKE2sp(o *options) (*Hasher, error) {
	if len(o.salt) > 0 || len(o.personal) > 0 {
		return nil, fmt.Errorf("corymb: blake2sp takes no salt or personalization: %w", ErrInvalidParameter)
	}
	size := blake2sp.Size
	if o.sizeSet {
		size = o.size
	}
	d, err := blake2sp.New(size, o.key)
	if err != nil {
		return nil, fmt.Errorf("corymb: %w: %w", err, ErrInvalidParameter)
	}
	return &Hasher{alg: BLAKE2sp, size: size, w: d, sumFn: func() []byte { return d.Sum(nil) }}, nil
}

func newBLAKE2Xb(o *options) (*Hasher, error) {
	if len(o.salt) > 0 || len(o.personal) > 0 {
		return nil, fmt.Errorf("corymb: blake2xb takes no salt or personalization: %w", ErrInvalidParameter)
	}
	length := 0
	if o.sizeSet {
		length = o.size
	}
	switch {
	case length < 0:
		return nil, fmt.Errorf("corymb: blake2xb output length must not be negative: %w", ErrInvalidParameter)
	case length >= (1<<32)-1:
		return nil, fmt.Errorf("corymb: blake2xb output length must be below 2^32-1 bytes: %w",
			ErrUnsupportedLength)
	}

	x, err := blake2b.NewXOF(uint32(length), o.key)
	if err != nil {
		return nil, fmt.Errorf("corymb: %w: %w", err, ErrInvalidParameter)
	}
	size := length
	if size == 0 {
		size = blake2b.Size
	}
	return &Hasher{
		alg:   BLAKE2Xb,
		size:  size,
		w:     x,
		sumFn: func() []byte { return readN(x, size) },
		xofFn: func() XOF { return &blake2xXOF{r: x} },
	}, nil
}

func newBLAKE2Xs(o *options) (*Hasher, error) {
	if len(o.salt) > 0 || len(o.personal) > 0 {
		return nil, fmt.Errorf("corymb: blake2xs takes no salt or personalization: %w", ErrInvalidParameter)
	}
	length := 0
	if o.sizeSet {
		length = o.size
	}
	switch {
	case length < 0:
		return nil, fmt.Errorf("corymb: blake2xs output length must not be negative: %w", ErrInvalidParameter)
	case length >= (1<<16)-1:
		return nil, fmt.Errorf("corymb: blake2xs output length must be below 2^16-1 bytes: %w",
			ErrUnsupportedLength)
	}

	x, err := blake2s.NewXOF(uint16(length), o.key)
	if err != nil {
		return nil, fmt.Errorf("corymb: %w: %w", err, ErrInvalidParameter)
	}
	size := length
	if size == 0 {
		size = blake2s.Size
	}
	return &Hasher{
		alg:   BLAKE2Xs,
		size:  size,
		w:     x,
		sumFn: func() []byte { return readN(x, size) },
		xofFn: func() XOF { return &blake2xXOF{r: x} },
	}, nil
}

func newBLAKE3(o *options) (*Hasher, error) {
	if len(o.salt) > 0 || len(o.personal) > 0 {
		// BLAKE3 has no salt field; salted keyless hashing passes the salt as the key.
		return nil, fmt.Errorf("corymb: blake3 takes no salt or personalization: %w", ErrInvalidParameter)
	}
	size := blake3.Size
	if o.sizeSet {
		size = o.size
	}
	switch {
	case size < 1:
		return nil, fmt.Errorf("corymb: blake3 digest size must be positive: %w", ErrInvalidParameter)
	case size > blake3.MaxOutput:
		return nil, fmt.Errorf("corymb: blake3 digest size must be at most 2^53 bytes: %w",
			ErrUnsupportedLength)
	}

	var h *blake3.Hasher
	if len(o.key) > 0 {
		if len(o.key) > blake3.KeySize {
			return nil, fmt.Errorf("corymb: blake3 key longer than %d bytes: %w", blake3.KeySize,
				ErrInvalidParameter)
		}
		// Short keys are zero-padded to the full key width.
		key := make([]byte, blake3.KeySize)
		copy(key, o.key)
		var err error
		if h, err = blake3.NewKeyed(key); err != nil {
			return nil, fmt.Errorf("corymb: %w: %w", err, ErrInvalidParameter)
		}
	} else {
		h = blake3.New()
	}

	return &Hasher{
		alg:  BLAKE3,
		size: size,
		w:    h,
		sumFn: func() []byte {
			out := make([]byte, size)
			_, _ = h.XOF().Read(out)
			return out
		},
		xofFn: func() XOF { return &blake3XOF{r: h.XOF()} },
	}, nil
}

func readN(r io.Reader, n int) []byte {
	out := make([]byte, n)
	_, _ = io.ReadFull(r, out)
	return out
}
