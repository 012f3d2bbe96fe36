package alloc

import "math/bits"

// Size classes index the segregated free lists. Bin i holds free blocks
// whose total size (header plus payload) falls in
// [2^(i+MinSizeExp), 2^(i+MinSizeExp+1)), with bin 0 and the top bin
// absorbing the clamped extremes.
//
// The property the allocator search relies on: a block stored in bin i
// has total size >= 2^(i+MinSizeExp), so when a request maps to bin k,
// every block in bins k+1 and above is large enough without a size
// recheck.

// binFor maps a total block size to its bin index. Constant time via the
// position of the most significant set bit.
func (h *Heap) binFor(total uint64) int {
	idx := bits.Len32(uint32(total)) - 1 - h.cfg.MinSizeExp
	if idx < 0 {
		return 0
	}
	if idx >= len(h.bins) {
		return len(h.bins) - 1
	}
	return idx
}

// binBounds returns the [lo, hi) total-size range bin i may hold,
// accounting for the clamping at both ends of the index.
func (h *Heap) binBounds(i int) (lo, hi uint64) {
	lo = 1 << uint(i+h.cfg.MinSizeExp)
	hi = lo << 1
	if i == 0 {
		lo = h.cfg.MinBlockSize
	}
	if i == len(h.bins)-1 {
		hi = ^uint64(0)
	}
	return lo, hi
}
