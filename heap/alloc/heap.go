package alloc

import (
	"fmt"
	"os"

	"github.com/tammam1998/fastmem/heap/arena"
	"github.com/tammam1998/fastmem/internal/format"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime debug flag for allocation logging - controlled by FASTMEM_LOG_ALLOC env var.
var logAlloc = os.Getenv("FASTMEM_LOG_ALLOC") != ""

// maxBlockPayload caps a single block's payload so that header size
// fields and bin arithmetic stay within uint32 for every supported
// alignment. The region itself may exceed 4GB; individual blocks may not.
const maxBlockPayload = 1<<32 - 4096

// Heap is a serial general-purpose allocator over a grow-only arena.
//
//   - Segregated free lists indexed by power-of-two size class
//   - First-fit within the request's class, head of the first non-empty
//     class above it otherwise
//   - Boundary-tag headers: a block's free bit lives in its physical
//     successor's header, so coalescing needs no footer
//   - Free last block extended in place by the shortfall before any
//     fresh growth
//
// A Heap is not thread-safe; callers must serialize access externally.
type Heap struct {
	ar  arena.Arena
	cfg Config

	// mem caches the arena region; refreshed after every grow.
	mem []byte

	// bins holds the head payload offset of each size-class list, 0 when
	// the bin is empty.
	bins []uint64

	// start is the first payload address; the byte before start-HeaderSize
	// is dead padding from init alignment.
	start uint64

	// Statistics for testing and instrumentation
	stats Stats
}

// New creates an allocator over the given arena. Passing nil cfg selects
// DefaultConfig. The arena's current end is aligned upward, the sentinel
// header is written, and all bins start empty.
func New(ar arena.Arena, cfg *Config) (*Heap, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	h := &Heap{ar: ar, cfg: *cfg}
	if err := h.Reset(); err != nil {
		return nil, err
	}
	return h, nil
}

// Reset rewinds the allocator: clears every bin, re-aligns the region
// end, and writes a fresh sentinel. Blocks handed out before the call
// are abandoned where they lie.
func (h *Heap) Reset() error {
	h.bins = make([]uint64, h.cfg.binCount())
	h.stats = Stats{}
	h.mem = h.ar.Bytes()

	base := h.ar.Size()
	if base < format.HeaderSize {
		base = format.HeaderSize
	}
	base = format.AlignUp(base, h.cfg.Alignment)
	if short := base - h.ar.Size(); short > 0 {
		if _, err := h.growRegion(short); err != nil {
			return err
		}
	}
	h.start = base

	// Sentinel: zero-size terminating header occupying the top HeaderSize
	// bytes. Its prev field tracks the last real block from here on.
	format.SetBlockSize(h.mem, base, 0)
	format.SetPrevField(h.mem, base, 0)
	return nil
}

// Config returns the tunables the allocator was built with.
func (h *Heap) Config() Config { return h.cfg }

// Stats returns a snapshot of the allocator counters.
func (h *Heap) Stats() Stats { return h.stats }

// Alloc returns the payload offset of a block with at least n writable
// bytes (possibly more), 8-byte aligned (see Config.Alignment), plus a
// slice view of the payload. The slice is invalidated by any later call
// that grows the region. Returns arena.ErrOutOfMemory when the provider
// refuses to grow; no state changes in that case.
func (h *Heap) Alloc(n uint64) (uint64, []byte, error) {
	h.stats.AllocCalls++
	if n > maxBlockPayload || h.payloadFor(n) > maxBlockPayload {
		return 0, nil, ErrTooLarge
	}
	payload := h.payloadFor(n)
	want := payload + format.HeaderSize

	p := h.findFit(want)
	if p == 0 {
		return h.allocTop(payload)
	}

	h.removeBlock(p)
	if h.total(p)-want >= h.cfg.MinBlockSize {
		h.split(p, payload)
	}
	size := h.size(p)
	h.markLive(p, size)
	h.stats.AllocFastPath++
	h.noteAlloc(size)
	return p, h.payload(p), nil
}

// Free returns a block to the allocator. The block is merged with any
// free physical neighbor and filed into the bin for the merged total.
func (h *Heap) Free(p uint64) error {
	h.stats.FreeCalls++
	if p == 0 {
		return nil
	}
	if p < h.start || p >= h.top() {
		return ErrBadRef
	}
	size := h.size(p)
	h.stats.BytesFreed += size
	h.stats.LiveBytes -= size
	h.insertBlock(h.coalesce(p))
	return nil
}

// Resize changes the payload of a live block to at least n bytes,
// preserving the first min(old, n) bytes of contents. The returned
// offset is p itself whenever the block can shrink or extend in place;
// otherwise the block moves. Resize(0, n) allocates and Resize(p, 0)
// frees and returns the null offset.
func (h *Heap) Resize(p, n uint64) (uint64, []byte, error) {
	if n == 0 {
		return 0, nil, h.Free(p)
	}
	if p == 0 {
		return h.Alloc(n)
	}
	h.stats.ResizeCalls++
	if p < h.start || p >= h.top() {
		return 0, nil, ErrBadRef
	}
	if n > maxBlockPayload || h.payloadFor(n) > maxBlockPayload {
		return 0, nil, ErrTooLarge
	}

	payload := h.payloadFor(n)
	cur := h.size(p)

	// Shrink. The shed tail is filed as its own free block; it is not
	// coalesced with a free right neighbor.
	if cur >= payload {
		if cur-payload >= h.cfg.MinBlockSize {
			h.split(p, payload)
			h.markLive(p, payload)
			h.stats.ResizeShrinks++
			h.stats.BytesFreed += cur - payload
			h.stats.LiveBytes -= cur - payload
		}
		return p, h.payload(p), nil
	}

	q := p + cur + format.HeaderSize

	// Extend into a free successor in place.
	if q < h.top() && h.isFree(q) {
		combined := cur + h.total(q)
		if combined >= payload {
			h.removeBlock(q)
			format.SetBlockSize(h.mem, p, uint32(combined))
			final := combined
			if combined-payload >= h.cfg.MinBlockSize {
				h.split(p, payload)
				final = payload
			}
			h.markLive(p, final)
			h.stats.ResizeInPlace++
			h.noteAlloc(final - cur)
			return p, h.payload(p), nil
		}
		// Successor is free but short. When it ends at the top of the
		// region, merge it and grow by the remaining shortfall only.
		if h.next(q) == h.top() {
			h.removeBlock(q)
			if _, err := h.growRegion(payload - combined); err != nil {
				h.insertBlock(q)
				return 0, nil, err
			}
			h.sealTop(p, payload)
			h.stats.ResizeInPlace++
			h.noteAlloc(payload - cur)
			return p, h.payload(p), nil
		}
	}

	// Extend at the top of the region.
	if q == h.top() {
		if _, err := h.growRegion(payload - cur); err != nil {
			return 0, nil, err
		}
		h.sealTop(p, payload)
		h.stats.ResizeInPlace++
		h.noteAlloc(payload - cur)
		return p, h.payload(p), nil
	}

	// Move: allocate elsewhere, copy the old payload, release it.
	np, buf, err := h.Alloc(n)
	if err != nil {
		return 0, nil, err
	}
	copy(buf, h.mem[p:p+cur])
	if err := h.Free(p); err != nil {
		return 0, nil, err
	}
	h.stats.ResizeMoves++
	return np, buf, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

func (h *Heap) top() uint64           { return uint64(len(h.mem)) }
func (h *Heap) size(p uint64) uint64  { return uint64(format.BlockSize(h.mem, p)) }
func (h *Heap) total(p uint64) uint64 { return h.size(p) + format.HeaderSize }
func (h *Heap) next(p uint64) uint64  { return p + h.total(p) }

// isFree reports whether the block at p is free, read from the boundary
// tag in its physical successor's header. Never called on the sentinel.
func (h *Heap) isFree(p uint64) bool {
	return format.PrevFree(h.mem, h.next(p))
}

// payload returns the current payload view of the block at p.
func (h *Heap) payload(p uint64) []byte {
	return h.mem[p : p+h.size(p)]
}

// payloadFor rounds a request up to alignment and the free-node floor.
func (h *Heap) payloadFor(n uint64) uint64 {
	p := format.AlignUp(n, h.cfg.Alignment)
	if m := h.cfg.minPayload(); p < m {
		p = m
	}
	return p
}

// markLive stamps size into the block header and clears the free bit in
// the successor's boundary tag.
func (h *Heap) markLive(p, size uint64) {
	format.SetBlockSize(h.mem, p, uint32(size))
	format.SetPrevField(h.mem, p+size+format.HeaderSize, uint32(size))
}

// markFree stamps size into the block header and sets the free bit in
// the successor's boundary tag.
func (h *Heap) markFree(p, size uint64) {
	format.SetBlockSize(h.mem, p, uint32(size))
	format.SetPrevField(h.mem, p+size+format.HeaderSize, uint32(size)|format.FreeBit)
}

// findFit returns a free block whose total size is at least want, or 0.
// First fit within the request's own class; the unordered lists make
// that an effectively random pick, and the factor-of-two class width
// bounds the internal fragmentation it can cost. Above the class, heads
// are large enough unconditionally.
func (h *Heap) findFit(want uint64) uint64 {
	k := h.binFor(want)
	for b := h.bins[k]; b != 0; b = format.NodeNext(h.mem, b) {
		if h.total(b) >= want {
			return b
		}
	}
	for i := k + 1; i < len(h.bins); i++ {
		if h.bins[i] != 0 {
			return h.bins[i]
		}
	}
	return 0
}

// split carves the tail off a free block of payload size keep, files the
// remainder into its bin, and leaves the head's boundary tag for the
// caller's markLive/markFree to stamp.
func (h *Heap) split(p, keep uint64) {
	h.stats.Splits++
	have := h.size(p)
	format.SetBlockSize(h.mem, p, uint32(keep))
	r := p + keep + format.HeaderSize
	h.markFree(r, have-keep-format.HeaderSize)
	h.insertBlock(r)
}

// coalesce merges the block at p with its free physical neighbors and
// stamps the merged block free. Forward before backward: the backward
// step rebases p, so the successor reads must come first. The result is
// not inserted into any bin.
func (h *Heap) coalesce(p uint64) uint64 {
	size := h.size(p)

	if q := p + size + format.HeaderSize; q < h.top() && h.isFree(q) {
		h.stats.CoalesceForward++
		h.removeBlock(q)
		size += h.total(q)
	}

	if format.PrevFree(h.mem, p) {
		h.stats.CoalesceBackward++
		prevTotal := uint64(format.PrevSize(h.mem, p)) + format.HeaderSize
		p -= prevTotal
		h.removeBlock(p)
		size += prevTotal
	}

	h.markFree(p, size)
	return p
}

// allocTop satisfies a request no bin could: extend a free last block by
// the shortfall, or grow a whole fresh block whose header recycles the
// old sentinel.
func (h *Heap) allocTop(payload uint64) (uint64, []byte, error) {
	want := payload + format.HeaderSize
	top := h.top()

	if top > h.start && format.PrevFree(h.mem, top) {
		lastSize := uint64(format.PrevSize(h.mem, top))
		last := top - lastSize - format.HeaderSize
		shortfall := want - (lastSize + format.HeaderSize)
		h.removeBlock(last)
		if _, err := h.growRegion(shortfall); err != nil {
			h.insertBlock(last)
			return 0, nil, err
		}
		h.stats.AllocSlowPath++
		h.sealTop(last, payload)
		h.noteAlloc(payload)
		return last, h.payload(last), nil
	}

	p := top
	if _, err := h.growRegion(want); err != nil {
		return 0, nil, err
	}
	debugLogf("Alloc: fresh top block payload=%d at %d", payload, p)
	h.stats.AllocSlowPath++
	h.sealTop(p, payload)
	h.noteAlloc(payload)
	return p, h.payload(p), nil
}

// sealTop stamps a live block that now ends at the top of the region and
// rebuilds the sentinel above it.
func (h *Heap) sealTop(p, payload uint64) {
	format.SetBlockSize(h.mem, h.top(), 0)
	h.markLive(p, payload)
}

// growRegion extends the arena by exactly n bytes and refreshes the
// cached region.
func (h *Heap) growRegion(n uint64) (uint64, error) {
	off, err := h.ar.Grow(n)
	if err != nil {
		return 0, err
	}
	h.mem = h.ar.Bytes()
	h.stats.GrowCalls++
	h.stats.GrowBytes += n

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[GROW] #%d: +%d bytes, region now %d\n",
			h.stats.GrowCalls, n, len(h.mem))
	}
	return off, nil
}

func (h *Heap) noteAlloc(size uint64) {
	h.stats.BytesAllocated += size
	h.stats.LiveBytes += size
	if h.stats.LiveBytes > h.stats.PeakLiveBytes {
		h.stats.PeakLiveBytes = h.stats.LiveBytes
	}
}

// debugLogf prints debug messages if debugAlloc is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
	}
}
