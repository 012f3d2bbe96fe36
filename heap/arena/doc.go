// Package arena provides the page providers the allocator draws its
// region from.
//
// # Overview
//
// An arena is a single contiguous, monotonically growing byte region.
// The allocator only ever asks for three things: the current bytes, the
// current size, and Grow(n) to extend the region by exactly n bytes.
// The region never shrinks and is never returned to the operating
// system.
//
// Offsets are the address space: the low bound of the region is offset
// 0, the high bound is Size()-1 inclusive, and Grow returns the offset
// of the first newly added byte.
//
// # Implementations
//
// SliceArena: append-backed in-memory provider
//
//   - Grows by reslicing; the backing array may move on Grow
//   - Optional capacity cap for exercising out-of-memory paths
//
// MmapArena (unix builds): anonymous-mapping provider
//
//   - Reserves the full capacity up front with PROT_NONE
//   - Commits pages on Grow via mprotect, so the base address is stable
//     across growth
//   - Falls back to SliceArena semantics on non-unix platforms
//
// # Thread Safety
//
// Arenas are not thread-safe. Callers must serialize access externally.
package arena
