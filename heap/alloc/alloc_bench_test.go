package alloc

import (
	"testing"

	"github.com/bytedance/gopkg/lang/fastrand"

	"github.com/tammam1998/fastmem/heap/arena"
)

func newBenchHeap(b *testing.B) *Heap {
	b.Helper()
	h, err := New(arena.NewSlice(0), nil)
	if err != nil {
		b.Fatal(err)
	}
	return h
}

// BenchmarkAllocFree measures the fixed-size reuse fast path: after the
// first iteration every allocation is served from bin 1.
func BenchmarkAllocFree(b *testing.B) {
	h := newBenchHeap(b)

	b.ResetTimer()
	for range b.N {
		p, _, err := h.Alloc(64)
		if err != nil {
			b.Fatal(err)
		}
		if err := h.Free(p); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAllocFreeRandom drives a 1024-slot working set with random
// sizes, mixing splits, coalesces and occasional growth.
func BenchmarkAllocFreeRandom(b *testing.B) {
	h := newBenchHeap(b)
	slots := make([]uint64, 1024)

	b.ResetTimer()
	for range b.N {
		j := fastrand.Uint32n(uint32(len(slots)))
		if slots[j] != 0 {
			if err := h.Free(slots[j]); err != nil {
				b.Fatal(err)
			}
		}
		p, _, err := h.Alloc(uint64(1 + fastrand.Uint32n(4096)))
		if err != nil {
			b.Fatal(err)
		}
		slots[j] = p
	}
}

// BenchmarkResizeGrowInPlace measures the free-successor fast path.
func BenchmarkResizeGrowInPlace(b *testing.B) {
	h := newBenchHeap(b)

	b.ResetTimer()
	for range b.N {
		p, _, err := h.Alloc(64)
		if err != nil {
			b.Fatal(err)
		}
		q, _, err := h.Resize(p, 256)
		if err != nil {
			b.Fatal(err)
		}
		if err := h.Free(q); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCheck measures the validator on a fragmented heap.
func BenchmarkCheck(b *testing.B) {
	h := newBenchHeap(b)
	ps := make([]uint64, 2048)
	for i := range ps {
		p, _, err := h.Alloc(uint64(16 + fastrand.Uint32n(512)))
		if err != nil {
			b.Fatal(err)
		}
		ps[i] = p
	}
	// Free every other block so the walk crosses live/free transitions.
	for i := 1; i < len(ps); i += 2 {
		if err := h.Free(ps[i]); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for range b.N {
		if err := h.Check(); err != nil {
			b.Fatal(err)
		}
	}
}
