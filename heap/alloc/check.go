package alloc

import (
	"fmt"

	"github.com/tammam1998/fastmem/internal/format"
)

// ValidationError reports a structural invariant violation found by Check.
type ValidationError struct {
	Type    string
	Message string
	Offset  uint64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
}

// Check walks the region and the free lists and certifies the structural
// invariants:
//
//  1. Walking headers from the heap start lands exactly on the sentinel.
//  2. Every boundary tag agrees with its block's own header.
//  3. No two physically adjacent blocks are both free.
//  4. Every free-marked block is filed in exactly one bin, inside that
//     bin's size range, with intact list links, and nothing else is.
//  5. Every stored size is a multiple of the alignment.
//
// Check never repairs; it reports the first violation found.
func (h *Heap) Check() error {
	free, err := h.checkWalk()
	if err != nil {
		return err
	}
	return h.checkBins(free)
}

// checkWalk performs the linear physical walk and returns the set of
// free-marked payload offsets it saw.
func (h *Heap) checkWalk() (map[uint64]bool, error) {
	free := make(map[uint64]bool)
	top := h.top()
	lastFree := false

	cur := h.start
	for cur != top {
		size := h.size(cur)
		if size == 0 {
			return nil, &ValidationError{"walk", "zero-size block before the sentinel", cur}
		}
		if size%h.cfg.Alignment != 0 {
			return nil, &ValidationError{"walk",
				fmt.Sprintf("size %d not a multiple of alignment %d", size, h.cfg.Alignment), cur}
		}
		if size < h.cfg.minPayload() {
			return nil, &ValidationError{"walk",
				fmt.Sprintf("payload %d below minimum %d", size, h.cfg.minPayload()), cur}
		}
		succ := cur + size + format.HeaderSize
		if succ > top {
			return nil, &ValidationError{"walk", "block chain overruns the region end", cur}
		}
		if got := uint64(format.PrevSize(h.mem, succ)); got != size {
			return nil, &ValidationError{"walk",
				fmt.Sprintf("boundary tag %d disagrees with block size %d", got, size), cur}
		}
		isFree := format.PrevFree(h.mem, succ)
		if isFree && lastFree {
			return nil, &ValidationError{"walk", "two adjacent free blocks", cur}
		}
		if isFree {
			free[cur] = true
		}
		lastFree = isFree
		cur = succ
	}

	if format.BlockSize(h.mem, top) != 0 {
		return nil, &ValidationError{"walk", "sentinel size is not zero", top}
	}
	return free, nil
}

// checkBins scans every bin and reconciles it against the free-marked
// blocks the walk found.
func (h *Heap) checkBins(free map[uint64]bool) error {
	seen := make(map[uint64]bool)

	for i := range h.bins {
		lo, hi := h.binBounds(i)
		prev := uint64(0)
		for b := h.bins[i]; b != 0; b = format.NodeNext(h.mem, b) {
			if seen[b] {
				return &ValidationError{"freelist",
					fmt.Sprintf("block filed twice (reached via bin %d)", i), b}
			}
			seen[b] = true
			if !free[b] {
				return &ValidationError{"freelist", "bin entry is not a free block", b}
			}
			if format.NodePrev(h.mem, b) != prev {
				return &ValidationError{"freelist", "broken prev link", b}
			}
			total := h.total(b)
			if total < lo || total >= hi {
				return &ValidationError{"freelist",
					fmt.Sprintf("total %d outside bin %d range [%d, %d)", total, i, lo, hi), b}
			}
			if succ := h.next(b); succ != h.top() && h.isFree(succ) {
				return &ValidationError{"freelist", "free block has a free successor", b}
			}
			if b != h.start && format.PrevFree(h.mem, b) {
				return &ValidationError{"freelist", "free block has a free predecessor", b}
			}
			prev = b
		}
	}

	if len(seen) != len(free) {
		return &ValidationError{"freelist",
			fmt.Sprintf("%d free blocks in region, %d filed in bins", len(free), len(seen)),
			h.start}
	}
	return nil
}
