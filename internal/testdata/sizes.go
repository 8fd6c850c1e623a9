package testdata

// Size is a named message length for benchmark tables.
type Size struct {
	Name string
	N    int
}

// Sizes covers the interesting boundaries: sub-block, one 64-byte block, one 128-byte block, one 1 KiB tree
// chunk, and bulk throughput lengths.
var Sizes = []Size{
	{"1B", 1},
	{"64B", 64},
	{"128B", 128},
	{"1KiB", 1024},
	{"8KiB", 8 * 1024},
	{"64KiB", 64 * 1024},
	{"1MiB", 1024 * 1024},
	{"16MiB", 16 * 1024 * 1024},
}
