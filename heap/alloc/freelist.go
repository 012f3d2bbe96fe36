package alloc

import "github.com/tammam1998/fastmem/internal/format"

// Segregated free lists. Each bin is an unordered doubly linked list
// threaded through the first 16 payload bytes of its free blocks; the
// bins slice holds the head payload offset per size class, 0 for empty.
// There is no size ordering or aging discipline within a bin.

// insertBlock files a free block at the head of its bin. O(1).
func (h *Heap) insertBlock(p uint64) {
	i := h.binFor(h.total(p))
	head := h.bins[i]
	format.SetNodePrev(h.mem, p, 0)
	format.SetNodeNext(h.mem, p, head)
	if head != 0 {
		format.SetNodePrev(h.mem, head, p)
	}
	h.bins[i] = p
}

// removeBlock unlinks a free block from its bin. O(1); the bin index is
// recomputed from the block's current size, so callers must remove a
// block before rewriting its header.
func (h *Heap) removeBlock(p uint64) {
	i := h.binFor(h.total(p))
	prev := format.NodePrev(h.mem, p)
	next := format.NodeNext(h.mem, p)
	if prev != 0 {
		format.SetNodeNext(h.mem, prev, next)
	} else {
		h.bins[i] = next
	}
	if next != 0 {
		format.SetNodePrev(h.mem, next, prev)
	}
}
