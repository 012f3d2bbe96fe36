package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tammam1998/fastmem/heap/arena"
)

func Test_BinFor_Mapping(t *testing.T) {
	h := newTestHeap(t)

	cases := []struct {
		total uint64
		bin   int
	}{
		{24, 0}, // below 2^5, clamped into bin 0
		{32, 0},
		{63, 0},
		{64, 1},
		{127, 1},
		{128, 2},
		{1032, 5},
		{4104, 7},
		{1 << 20, 15},
		{1 << 31, 26},   // top bin
		{1<<32 - 8, 26}, // largest aligned total, still the top bin
	}
	for _, c := range cases {
		assert.Equalf(t, c.bin, h.binFor(c.total), "binFor(%d)", c.total)
	}
}

func Test_BinBounds(t *testing.T) {
	h := newTestHeap(t)

	lo, hi := h.binBounds(0)
	assert.Equal(t, uint64(24), lo, "bin 0 starts at the minimum block size")
	assert.Equal(t, uint64(64), hi)

	lo, hi = h.binBounds(1)
	assert.Equal(t, uint64(64), lo)
	assert.Equal(t, uint64(128), hi)

	lo, hi = h.binBounds(len(h.bins) - 1)
	assert.Equal(t, uint64(1)<<31, lo)
	assert.Equal(t, ^uint64(0), hi, "top bin is unbounded above")
}

// Test_BinFor_Monotonicity checks the property the cross-class search
// relies on: every bin above a request's class holds only blocks large
// enough for it.
func Test_BinFor_Monotonicity(t *testing.T) {
	h := newTestHeap(t)

	for _, want := range []uint64{24, 57, 64, 100, 1000, 5000, 1 << 16, 1 << 24} {
		k := h.binFor(want)
		for i := k + 1; i < len(h.bins); i++ {
			lo, _ := h.binBounds(i)
			require.GreaterOrEqualf(t, lo, want,
				"bin %d lower bound below request %d (class %d)", i, want, k)
		}
	}
}

func Test_BinFor_RespectsConfig(t *testing.T) {
	h, err := New(arena.NewSlice(0), &ConfigCoarseBins)
	require.NoError(t, err)

	assert.Equal(t, ConfigCoarseBins.binCount(), len(h.bins))
	assert.Equal(t, 0, h.binFor(64), "2^6 lands in bin 0 with MinSizeExp 6")
	assert.Equal(t, 1, h.binFor(128))
}
