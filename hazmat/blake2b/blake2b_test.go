package blake2b

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	xblake2b "golang.org/x/crypto/blake2b"

	"github.com/codahale/corymb/internal/testdata"
)

// RFC 7693 test vectors.
var vectors = []struct {
	msg  string
	want string
}{
	{"", "786a02f742015903c6c6fd852552d272912f4740e15847618a86e217f71f5419" +
		"d25e1031afee585313896444934eb04b903a685b1448b755d56f701afe9be2ce"},
	{"abc", "ba80a53f981c4d0d6a2797b69f12f6e94c212f14685ac4b74b12bb6fdbffa2d1" +
		"7d87c5392aab792dc252d5de4533cc9518d38aa8dbf1925ab92386edd4009923"},
}

func TestVectors(t *testing.T) {
	for _, tc := range vectors {
		t.Run(fmt.Sprintf("%q", tc.msg), func(t *testing.T) {
			got := Sum512([]byte(tc.msg))
			if hex.EncodeToString(got[:]) != tc.want {
				t.Errorf("got  %x", got)
				t.Errorf("want %s", tc.want)
			}
		})
	}
}

func TestAgainstXCrypto(t *testing.T) {
	drbg := testdata.New("blake2b oracle")
	keys := [][]byte{nil, drbg.Data(1), drbg.Data(32), drbg.Data(64)}
	sizes := []int{1, 16, 32, 63, 64}
	lengths := []int{0, 1, 127, 128, 129, 255, 256, 257, 4096}

	for _, key := range keys {
		for _, size := range sizes {
			for _, n := range lengths {
				msg := drbg.Data(n)

				d, err := New(size, key)
				if err != nil {
					t.Fatal(err)
				}
				_, _ = d.Write(msg)
				got := d.Sum(nil)

				oracle, err := xblake2b.New(size, key)
				if err != nil {
					t.Fatal(err)
				}
				_, _ = oracle.Write(msg)
				want := oracle.Sum(nil)

				if !bytes.Equal(got, want) {
					t.Fatalf("key=%d size=%d n=%d: got %x, want %x", len(key), size, n, got, want)
				}
			}
		}
	}
}

func TestIncremental(t *testing.T) {
	msg := testdata.New("blake2b incremental").Data(10000)
	want := Sum512(msg)

	for _, chunkSize := range []int{1, 7, 127, 128, 129, 1000} {
		t.Run(fmt.Sprintf("%d", chunkSize), func(t *testing.T) {
			d, _ := New512(nil)
			for i := 0; i < len(msg); i += chunkSize {
				end := min(i+chunkSize, len(msg))
				_, _ = d.Write(msg[i:end])
			}
			if got := d.Sum(nil); !bytes.Equal(got, want[:]) {
				t.Errorf("chunk=%d: mismatch", chunkSize)
			}
		})
	}
}

func TestSaltAndPersonal(t *testing.T) {
	drbg := testdata.New("blake2b salt")
	msg := drbg.Data(300)
	salt, personal := drbg.Data(SaltSize), drbg.Data(PersonalSize)

	sum := func(cfg *Config) []byte {
		d, err := NewConfig(cfg)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = d.Write(msg)
		return d.Sum(nil)
	}

	plain := sum(&Config{})
	salted := sum(&Config{Salt: salt})
	personalized := sum(&Config{Personal: personal})
	both := sum(&Config{Salt: salt, Personal: personal})

	for name, pair := range map[string][2][]byte{
		"salted vs plain":            {salted, plain},
		"personalized vs plain":      {personalized, plain},
		"salted vs personalized":     {salted, personalized},
		"both vs salted":             {both, salted},
		"short salt vs shorter salt": {sum(&Config{Salt: salt[:8]}), sum(&Config{Salt: salt[:7]})},
	} {
		if bytes.Equal(pair[0], pair[1]) {
			t.Errorf("%s: digests are equal", name)
		}
	}

	// Same parameters, same digest.
	if !bytes.Equal(sum(&Config{Salt: salt, Personal: personal}), both) {
		t.Error("salted digest is not deterministic")
	}
}

func TestParameterValidation(t *testing.T) {
	drbg := testdata.New("blake2b params")
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero size", Config{Size: -1}},
		{"oversized digest", Config{Size: Size + 1}},
		{"oversized key", Config{Key: drbg.Data(KeySize + 1)}},
		{"oversized salt", Config{Salt: drbg.Data(SaltSize + 1)}},
		{"oversized personalization", Config{Personal: drbg.Data(PersonalSize + 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewConfig(&tt.cfg); err == nil {
				t.Error("NewConfig accepted an invalid config")
			}
		})
	}
}

func TestKeyedReset(t *testing.T) {
	key := testdata.New("blake2b reset").Data(32)
	d, err := New512(key)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = d.Write([]byte("first message"))
	first := d.Sum(nil)

	d.Reset()
	_, _ = d.Write([]byte("first message"))
	if !bytes.Equal(d.Sum(nil), first) {
		t.Error("Reset did not restore the keyed state")
	}
}
