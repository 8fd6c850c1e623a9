package md5

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	md5simd "github.com/minio/md5-simd"

	"github.com/codahale/corymb/internal/testdata"
)

// RFC 1321 Appendix A.5 test vectors.
var vectors = []struct {
	msg  string
	want string
}{
	{"", "d41d8cd98f00b204e9800998ecf8427e"},
	{"abc", "900150983cd24fb0d6963f7d28e17f72"},
}

func TestVectors(t *testing.T) {
	for _, tc := range vectors {
		t.Run(fmt.Sprintf("%q", tc.msg), func(t *testing.T) {
			got := Sum([]byte(tc.msg))
			if hex.EncodeToString(got[:]) != tc.want {
				t.Errorf("got  %x", got)
				t.Errorf("want %s", tc.want)
			}
		})
	}
}

func TestAgainstSIMD(t *testing.T) {
	server := md5simd.NewServer()
	defer server.Close()

	drbg := testdata.New("md5 oracle")
	for _, n := range []int{0, 1, 55, 56, 63, 64, 65, 127, 128, 129, 1000, 65536} {
		t.Run(fmt.Sprintf("%d", n), func(t *testing.T) {
			msg := drbg.Data(n)

			h := New()
			_, _ = h.Write(msg)
			got := h.Sum(nil)

			oracle := server.NewHash()
			defer oracle.Close()
			_, _ = oracle.Write(msg)
			want := oracle.Sum(nil)

			if !bytes.Equal(got, want) {
				t.Errorf("got  %x", got)
				t.Errorf("want %x", want)
			}
		})
	}
}

func TestIncremental(t *testing.T) {
	msg := testdata.New("md5 incremental").Data(10000)

	h := New()
	_, _ = h.Write(msg)
	want := h.Sum(nil)

	for _, chunkSize := range []int{1, 7, 63, 64, 65, 1000} {
		t.Run(fmt.Sprintf("%d", chunkSize), func(t *testing.T) {
			h := New()
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
