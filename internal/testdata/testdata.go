// Package testdata generates deterministic message material for tests and benchmarks.
package testdata

import "crypto/sha3"

// DRBG is a deterministic byte stream. Distinct customization strings yield independent streams, so tests can
// share vectors without coupling to each other's read order.
type DRBG struct {
	shake *sha3.SHAKE
}

// New returns a DRBG domain-separated by the customization string.
func New(customization string) *DRBG {
	s := sha3.NewCSHAKE128(nil, []byte(customization))
	return &DRBG{shake: s}
}

// Data returns the next n bytes of the stream.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.shake.Read(b)
	return b
}
