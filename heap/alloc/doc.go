// Package alloc implements a serial, general-purpose heap allocator over
// a single contiguous, monotonically growing region.
//
// # Overview
//
// The allocator supplies the three classical operations - Alloc, Free,
// and Resize - on top of a grow-only page provider (heap/arena). It is
// built around boundary-tag block headers and segregated free lists:
//
//   - Every block carries an 8-byte header holding its own payload size
//     and the size-plus-free-flag of its physical predecessor, so a
//     block's free bit lives in its successor's header and no footer is
//     needed.
//   - Free blocks thread an intrusive doubly linked list through their
//     first 16 payload bytes; lists are segregated by power-of-two size
//     class (27 bins at the default tunables).
//   - Free merges a released block with free physical neighbors before
//     filing it; Alloc splits oversized blocks when the remainder can
//     stand on its own.
//   - A zero-size sentinel header terminates the region and is preserved
//     across every grow, so boundary reads on the last real block stay
//     well-defined.
//
// # Allocation policy
//
// Alloc scans the request's own size class first-fit, then takes the
// head of the first non-empty class above it; those heads need no size
// recheck. When no bin can serve, a free block ending at the top of the
// region is extended in place by the shortfall, and only as a last
// resort does the region grow by a whole fresh block. Resize prefers
// shrinking or extending in place (into a free successor or at the top)
// and falls back to allocate-copy-free.
//
// # Usage Example
//
//	ar := arena.NewSlice(0)
//	h, err := alloc.New(ar, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, buf, err := h.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, shrink in place or release.
//	p, buf, err = h.Resize(p, 64)
//	err = h.Free(p)
//
// # Validation
//
// (*Heap).Check walks the physical block chain and every bin and
// certifies the structural invariants (contiguity, boundary-tag
// agreement, no adjacent free blocks, free-list membership and range).
// It is meant for tests and debugging, not for production paths.
//
// # Thread Safety
//
// A Heap is not thread-safe. All operations mutate the bins and the
// region; callers requiring concurrency must serialize externally.
package alloc
