package blake3

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"testing"

	zeebo "github.com/zeebo/blake3"

	"github.com/codahale/corymb/internal/testdata"
)

func TestEmptyVector(t *testing.T) {
	got := Sum256(nil)
	want := "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if hex.EncodeToString(got[:]) != want {
		t.Errorf("got  %x", got)
		t.Errorf("want %s", want)
	}
}

// Lengths around block (64), chunk (1024), and subtree-merge boundaries.
var lengths = []int{
	0, 1, 63, 64, 65, 127, 128, 129, 1023, 1024, 1025,
	2047, 2048, 2049, 3072, 4096, 5000, 8192, 16384, 31744, 102400,
}

func TestAgainstZeebo(t *testing.T) {
	drbg := testdata.New("blake3 oracle")
	for _, n := range lengths {
		t.Run(fmt.Sprintf("%d", n), func(t *testing.T) {
			msg := drbg.Data(n)
			got := Sum256(msg)
			want := zeebo.Sum256(msg)
			if got != want {
				t.Errorf("got  %x", got)
				t.Errorf("want %x", want)
			}
		})
	}
}

func TestKeyedAgainstZeebo(t *testing.T) {
	drbg := testdata.New("blake3 keyed oracle")
	key := drbg.Data(KeySize)

	for _, n := range []int{0, 1, 1024, 5000} {
		msg := drbg.Data(n)

		h, err := NewKeyed(key)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = h.Write(msg)
		got := h.Sum(nil)

		oracle, err := zeebo.NewKeyed(key)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = oracle.Write(msg)
		want := oracle.Sum(nil)

		if !bytes.Equal(got, want[:Size]) {
			t.Fatalf("n=%d: got %x, want %x", n, got, want)
		}
	}
}

func TestDeriveKeyAgainstZeebo(t *testing.T) {
	drbg := testdata.New("blake3 derive oracle")
	const context = "corymb 2026-08-23 test derivation"

	for _, n := range []int{0, 32, 1024, 5000} {
		material := drbg.Data(n)

		got := make([]byte, 64)
		DeriveKey(context, material, got)

		want := make([]byte, 64)
		zeebo.DeriveKey(context, material, want)

		if !bytes.Equal(got, want) {
			t.Fatalf("n=%d: got %x, want %x", n, got, want)
		}
	}
}

func TestXOFAgainstZeebo(t *testing.T) {
	drbg := testdata.New("blake3 xof oracle")
	msg := drbg.Data(3000)

	h := New()
	_, _ = h.Write(msg)
	got := make([]byte, 10000)
	_, _ = io.ReadFull(h.XOF(), got)

	oracle := zeebo.New()
	_, _ = oracle.Write(msg)
	want := make([]byte, 10000)
	_, _ = io.ReadFull(oracle.Digest(), want)

	if !bytes.Equal(got, want) {
		t.Error("XOF output diverged from oracle")
	}
}

func TestIncremental(t *testing.T) {
	msg := testdata.New("blake3 incremental").Data(100000)
	want := Sum256(msg)

	for _, chunkSize := range []int{1, 63, 64, 65, 1023, 1024, 1025, 4096, 10000} {
		t.Run(fmt.Sprintf("%d", chunkSize), func(t *testing.T) {
			h := New()
			for i := 0; i < len(msg); i += chunkSize {
				end := min(i+chunkSize, len(msg))
				_, _ = h.Write(msg[i:end])
			}
			var got [Size]byte
			copy(got[:], h.Sum(nil))
			if got != want {
				t.Errorf("chunk=%d: mismatch", chunkSize)
			}
		})
	}
}

func TestPrefixProperty(t *testing.T) {
	msg := testdata.New("blake3 prefix").Data(2000)

	h := New()
	_, _ = h.Write(msg)
	long := make([]byte, 1000)
	_, _ = io.ReadFull(h.XOF(), long)

	for _, n := range []int{1, 32, 64, 65, 500} {
		h := New()
		_, _ = h.Write(msg)
		short := make([]byte, n)
		_, _ = io.ReadFull(h.XOF(), short)
		if !bytes.Equal(short, long[:n]) {
			t.Errorf("n=%d: shorter output is not a prefix of longer output", n)
		}
	}
}

func TestSumNonDestructive(t *testing.T) {
	drbg := testdata.New("blake3 nondestructive")
	first, second := drbg.Data(1500), drbg.Data(1500)

	h := New()
	_, _ = h.Write(first)
	a := h.Sum(nil)
	if !bytes.Equal(h.Sum(nil), a) {
		t.Error("repeated Sum returned a different digest")
	}

	_, _ = h.Write(second)
	got := h.Sum(nil)

	h2 := New()
	_, _ = h2.Write(first)
	_, _ = h2.Write(second)
	if !bytes.Equal(got, h2.Sum(nil)) {
		t.Error("Write after Sum did not continue the stream")
	}
}

func TestKeyedIndependence(t *testing.T) {
	drbg := testdata.New("blake3 keys")
	msg := drbg.Data(1000)
	k1, k2 := drbg.Data(KeySize), drbg.Data(KeySize)

	h1, _ := NewKeyed(k1)
	h2, _ := NewKeyed(k2)
	_, _ = h1.Write(msg)
	_, _ = h2.Write(msg)

	if bytes.Equal(h1.Sum(nil), h2.Sum(nil)) {
		t.Error("distinct keys produced the same digest")
	}
	if _, err := NewKeyed(drbg.Data(16)); err == nil {
		t.Error("NewKeyed accepted a short key")
	}
}

func TestOutputReaderSeek(t *testing.T) {
	msg := testdata.New("blake3 seek").Data(3000)

	h := New()
	_, _ = h.Write(msg)
	full := make([]byte, 8192)
	_, _ = io.ReadFull(h.XOF(), full)

	r := h.XOF()
	for _, pos := range []int64{0, 1, 63, 64, 65, 8000, 100, 4096} {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			t.Fatal(err)
		}
		got := make([]byte, 96)
		_, _ = io.ReadFull(r, got)
		if !bytes.Equal(got, full[pos:pos+96]) {
			t.Errorf("pos=%d: read after seek diverged from sequential read", pos)
		}
	}
}

func TestOutputReaderSeekAgainstZeebo(t *testing.T) {
	msg := testdata.New("blake3 seek oracle").Data(3000)

	h := New()
	_, _ = h.Write(msg)
	r := h.XOF()

	oracle := zeebo.New()
	_, _ = oracle.Write(msg)
	od := oracle.Digest()

	// Deep positions are O(1) for counter-addressed output.
	for _, pos := range []int64{0, 1 << 20, 1 << 32, 1 << 40, MaxOutput - 64} {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			t.Fatal(err)
		}
		if _, err := od.Seek(pos, io.SeekStart); err != nil {
			t.Fatal(err)
		}

		got := make([]byte, 64)
		_, _ = io.ReadFull(r, got)
		want := make([]byte, 64)
		_, _ = io.ReadFull(od, want)

		if !bytes.Equal(got, want) {
			t.Errorf("pos=%d: output diverged from oracle", pos)
		}
	}
}

func TestOutputBound(t *testing.T) {
	h := New()
	_, _ = h.Write([]byte("input"))
	r := h.XOF()

	if _, err := r.Seek(MaxOutput+1, io.SeekStart); err == nil {
		t.Error("Seek past the output bound did not fail")
	}
	if _, err := r.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative seek did not fail")
	}

	if _, err := r.Seek(MaxOutput-16, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	out := make([]byte, 32)
	n, err := r.Read(out)
	if n != 16 || err != io.EOF {
		t.Errorf("Read at the bound = (%d, %v), want (16, EOF)", n, err)
	}
}
