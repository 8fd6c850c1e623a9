package blake2s

import (
	"bytes"
	"io"
	"testing"

	xblake2s "golang.org/x/crypto/blake2s"

	"github.com/codahale/corymb/internal/testdata"
)

func TestXOFAgainstXCrypto(t *testing.T) {
	drbg := testdata.New("blake2xs oracle")
	keys := [][]byte{nil, drbg.Data(32)}
	lengths := []uint16{1, 31, 32, 33, 1000}

	for _, key := range keys {
		for _, length := range lengths {
			msg := drbg.Data(500)

			x, err := NewXOF(length, key)
			if err != nil {
				t.Fatal(err)
			}
			_, _ = x.Write(msg)
			got := make([]byte, length)
			_, _ = io.ReadFull(x, got)

			oracle, err := xblake2s.NewXOF(length, key)
			if err != nil {
				t.Fatal(err)
			}
			_, _ = oracle.Write(msg)
			want := make([]byte, length)
			_, _ = io.ReadFull(oracle, want)

			if !bytes.Equal(got, want) {
				t.Fatalf("key=%d length=%d: got %x, want %x", len(key), length, got, want)
			}
		}
	}
}

func TestXOFSeek(t *testing.T) {
	msg := testdata.New("blake2xs seek").Data(500)

	fresh := func() *XOF {
		x, err := NewXOF(OutputLengthUnknown, nil)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = x.Write(msg)
		return x
	}

	x := fresh()
	full := make([]byte, 4096)
	_, _ = io.ReadFull(x, full)

	for _, pos := range []int64{0, 1, 31, 32, 33, 4000, 50, 2048} {
		x := fresh()
		if _, err := x.Seek(pos, io.SeekStart); err != nil {
			t.Fatal(err)
		}
		got := make([]byte, 96)
		_, _ = io.ReadFull(x, got)
		if !bytes.Equal(got, full[pos:pos+96]) {
			t.Errorf("pos=%d: read after seek diverged from sequential read", pos)
		}
	}

	x = fresh()
	if _, err := x.Seek(Period+50, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 96)
	_, _ = io.ReadFull(x, got)
	if !bytes.Equal(got, full[50:50+96]) {
		t.Error("seek past the period did not wrap")
	}
}

func TestXOFDeclaredLengthEOF(t *testing.T) {
	x, err := NewXOF(100, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = x.Write([]byte("input"))

	out := make([]byte, 150)
	n, err := x.Read(out)
	if n != 100 || err != io.EOF {
		t.Errorf("Read = (%d, %v), want (100, EOF)", n, err)
	}
}

func TestXOFRejectsMagicLength(t *testing.T) {
	if _, err := NewXOF((1<<16)-1, nil); err == nil {
		t.Error("NewXOF accepted the unknown-length sentinel as an explicit length")
	}
}
