package sha3

import (
	"bytes"
	stdsha3 "crypto/sha3"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/codahale/corymb/internal/testdata"
)

// FIPS 202 empty-message test vectors.
var vectors = []struct {
	name string
	sum  func([]byte) []byte
	want string
}{
	{"sha3-224", func(b []byte) []byte { h := New224(); _, _ = h.Write(b); return h.Sum(nil) },
		"6b4e03423667dbb73b6e15454f0eb1abd4597f9a1b078e3f5b5a6bc7"},
	{"sha3-256", func(b []byte) []byte { s := Sum256(b); return s[:] },
		"a7ffc6f8bf1ed76651c14756a061d6662f580ff4de43b49fa82d80a4b80f8434"},
	{"sha3-384", func(b []byte) []byte { h := New384(); _, _ = h.Write(b); return h.Sum(nil) },
		"0c63a75b845e4f7d01107d852e4c2485c51a50aaaa94fc61995e71bbee983a2a" +
			"c3713831264adb47fb6bd1e058d5f004"},
	{"sha3-512", func(b []byte) []byte { s := Sum512(b); return s[:] },
		"a69f73cca23a9ac5c8b567dc185a756e97c982164fe25859e0d1dcc1475c80a6" +
			"15b2123af1f5f94c11e3e9402c3ac558f500199d95b6d3e301758586281dcd26"},
}

func TestEmptyVectors(t *testing.T) {
	for _, tc := range vectors {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.sum(nil)
			if hex.EncodeToString(got) != tc.want {
				t.Errorf("got  %x", got)
				t.Errorf("want %s", tc.want)
			}
		})
	}
}

func TestAgainstStdlib(t *testing.T) {
	drbg := testdata.New("sha3 oracle")
	// Rates are not powers of two, so sweep across every alignment of one sponge block.
	for n := range 300 {
		msg := drbg.Data(n)

		if got, want := Sum256(msg), stdsha3.Sum256(msg); got != want {
			t.Fatalf("sha3-256 n=%d: got %x, want %x", n, got, want)
		}
		if got, want := Sum512(msg), stdsha3.Sum512(msg); got != want {
			t.Fatalf("sha3-512 n=%d: got %x, want %x", n, got, want)
		}
	}

	big := drbg.Data(1 << 20)
	if got, want := Sum256(big), stdsha3.Sum256(big); got != want {
		t.Errorf("sha3-256 1MiB: got %x, want %x", got, want)
	}
}

// TestRateAlignedMessages pins the case where the message fills the final sponge block exactly and the padding
// block carries nothing but the domain separation and end bits.
func TestRateAlignedMessages(t *testing.T) {
	drbg := testdata.New("sha3 rate aligned")
	for _, n := range []int{72, 104, 136, 144, 168, 208, 272, 288} {
		msg := drbg.Data(n)

		h := New224()
		_, _ = h.Write(msg)
		if got, want := h.Sum(nil), stdsha3.Sum224(msg); !bytes.Equal(got, want[:]) {
			t.Errorf("sha3-224 n=%d: got %x, want %x", n, got, want)
		}

		if got, want := Sum256(msg), stdsha3.Sum256(msg); got != want {
			t.Errorf("sha3-256 n=%d: got %x, want %x", n, got, want)
		}

		h = New384()
		_, _ = h.Write(msg)
		if got, want := h.Sum(nil), stdsha3.Sum384(msg); !bytes.Equal(got, want[:]) {
			t.Errorf("sha3-384 n=%d: got %x, want %x", n, got, want)
		}

		if got, want := Sum512(msg), stdsha3.Sum512(msg); got != want {
			t.Errorf("sha3-512 n=%d: got %x, want %x", n, got, want)
		}
	}
}

func TestIncremental(t *testing.T) {
	msg := testdata.New("sha3 incremental").Data(10000)

	h := New256()
	_, _ = h.Write(msg)
	want := h.Sum(nil)

	for _, chunkSize := range []int{1, 7, 135, 136, 137, 1000} {
		t.Run(fmt.Sprintf("%d", chunkSize), func(t *testing.T) {
			h := New256()
			for i := 0; i < len(msg); i += chunkSize {
				end := min(i+chunkSize, len(msg))
				_, _ = h.Write(msg[i:end])
			}
			if got := h.Sum(nil); !bytes.Equal(got, want) {
				t.Errorf("chunk=%d: mismatch", chunkSize)
			}
		})
	}
}
