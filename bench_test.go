package corymb_test

import (
	stdsha256 "crypto/sha256"
	"testing"

	md5simd "github.com/minio/md5-simd"
	sha256simd "github.com/minio/sha256-simd"
	zeebo "github.com/zeebo/blake3"
	xblake2b "golang.org/x/crypto/blake2b"

	"github.com/codahale/corymb"
	"github.com/codahale/corymb/internal/testdata"
)

func BenchmarkSum(b *testing.B) {
	drbg := testdata.New("corymb bench")
	for _, alg := range corymb.Algorithms() {
		b.Run(string(alg), func(b *testing.B) {
			for _, size := range testdata.Sizes {
				b.Run(size.Name, func(b *testing.B) {
					msg := drbg.Data(size.N)
					b.SetBytes(int64(size.N))
					b.ReportAllocs()
					for b.Loop() {
						h, err := corymb.New(alg)
						if err != nil {
							b.Fatal(err)
						}
						_, _ = h.Write(msg)
						if _, err := h.Sum(); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

func BenchmarkXOFRead(b *testing.B) {
	msg := testdata.New("corymb xof bench").Data(1 << 10)
	for _, alg := range []corymb.Algorithm{corymb.SHAKE128, corymb.SHAKE256, corymb.BLAKE2Xb, corymb.BLAKE2Xs, corymb.BLAKE3} {
		b.Run(string(alg), func(b *testing.B) {
			for _, size := range testdata.Sizes {
				b.Run(size.Name, func(b *testing.B) {
					out := make([]byte, size.N)
					b.SetBytes(int64(size.N))
					b.ReportAllocs()
					for b.Loop() {
						h, err := corymb.New(alg)
						if err != nil {
							b.Fatal(err)
						}
						_, _ = h.Write(msg)
						x, err := h.XOF()
						if err != nil {
							b.Fatal(err)
						}
						_, _ = x.Read(out)
					}
				})
			}
		})
	}
}

// BenchmarkPeers compares the portable implementations in this module with the tuned third-party and standard
// library implementations of the same algorithms.
func BenchmarkPeers(b *testing.B) {
	drbg := testdata.New("corymb peers")
	msg := drbg.Data(1 << 20)

	b.Run("sha256/corymb", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_, _ = corymb.Sum(corymb.SHA256, msg)
		}
	})
	b.Run("sha256/stdlib", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_ = stdsha256.Sum256(msg)
		}
	})
	b.Run("sha256/minio-simd", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_ = sha256simd.Sum256(msg)
		}
	})

	b.Run("md5/corymb", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_, _ = corymb.Sum(corymb.MD5, msg)
		}
	})
	b.Run("md5/minio-simd", func(b *testing.B) {
		server := md5simd.NewServer()
		defer server.Close()
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			h := server.NewHash()
			_, _ = h.Write(msg)
			_ = h.Sum(nil)
			h.Close()
		}
	})

	b.Run("blake2b/corymb", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_, _ = corymb.Sum(corymb.BLAKE2b, msg)
		}
	})
	b.Run("blake2b/x-crypto", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_ = xblake2b.Sum512(msg)
		}
	})

	b.Run("blake3/corymb", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_, _ = corymb.Sum(corymb.BLAKE3, msg)
		}
	})
	b.Run("blake3/zeebo", func(b *testing.B) {
		b.SetBytes(int64(len(msg)))
		for b.Loop() {
			_ = zeebo.Sum256(msg)
		}
	})
}
