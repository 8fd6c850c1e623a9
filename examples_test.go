package corymb_test

import (
	"fmt"
	"io"

	"github.com/codahale/corymb"
)

func ExampleSum() {
	digest, err := corymb.Sum(corymb.SHA256, []byte("abc"))
	if err != nil {
		panic(err)
	}
	fmt.Printf("%x\n", digest)
	// Output:
	// ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad
}

func ExampleNew() {
	h, err := corymb.New(corymb.BLAKE2b)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write([]byte("a"))
	_, _ = h.Write([]byte("bc"))

	digest, err := h.Sum()
	if err != nil {
		panic(err)
	}
	fmt.Printf("%x\n", digest)
	// Output:
	// ba80a53f981c4d0d6a2797b69f12f6e94c212f14685ac4b74b12bb6fdbffa2d17d87c5392aab792dc252d5de4533cc9518d38aa8dbf1925ab92386edd4009923
}

func ExampleHasher_XOF() {
	h, err := corymb.New(corymb.SHAKE128)
	if err != nil {
		panic(err)
	}

	x, err := h.XOF()
	if err != nil {
		panic(err)
	}
	out := make([]byte, 32)
	_, _ = io.ReadFull(x, out)
	fmt.Printf("%x\n", out)
	// Output:
	// 7f9c2ba4e88f827d616045507605853ed73b8093f6efbc88eb1a6eacfa66ef26
}

func ExampleXOF_seek() {
	h, err := corymb.New(corymb.BLAKE3)
	if err != nil {
		panic(err)
	}

	x, err := h.XOF()
	if err != nil {
		panic(err)
	}
	// BLAKE3 output is counter addressed: any position is O(1) away.
	if _, err := x.Seek(0, io.SeekStart); err != nil {
		panic(err)
	}
	out := make([]byte, 32)
	_, _ = io.ReadFull(x, out)
	fmt.Printf("%x\n", out)
	// Output:
	// af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262
}
