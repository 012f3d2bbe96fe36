package alloc

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds internal allocator statistics.
type Stats struct {
	AllocCalls  int // Total Alloc() calls
	FreeCalls   int // Total Free() calls
	ResizeCalls int // Total Resize() calls (excluding delegated alloc/free)

	AllocFastPath int // Allocations served from the free lists
	AllocSlowPath int // Allocations that grew the region

	Splits           int // Number of block splits
	CoalesceForward  int // Forward coalesce operations
	CoalesceBackward int // Backward coalesce operations

	ResizeInPlace int // Growing resizes served without moving the block
	ResizeShrinks int // Resizes that shed a tail block
	ResizeMoves   int // Resizes that fell back to allocate-copy-free

	GrowCalls int    // Number of page provider grow calls
	GrowBytes uint64 // Total bytes ever requested from the page provider

	BytesAllocated uint64 // Total payload bytes handed out (including slack)
	BytesFreed     uint64 // Total payload bytes returned
	LiveBytes      uint64 // Currently live payload bytes
	PeakLiveBytes  uint64 // High-water mark of LiveBytes
}

// Utilization is the ratio of peak live bytes to total bytes ever
// requested from the page provider. Higher means more reuse of freed
// space instead of region growth.
func (s Stats) Utilization() float64 {
	if s.GrowBytes == 0 {
		return 0
	}
	return float64(s.PeakLiveBytes) / float64(s.GrowBytes)
}

// Report renders a human-readable summary of the counters.
func (s Stats) Report() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	p.Fprintf(&b, "ops:      %d alloc (%d fast, %d slow), %d free, %d resize\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath, s.FreeCalls, s.ResizeCalls)
	p.Fprintf(&b, "resize:   %d in place, %d shrunk, %d moved\n",
		s.ResizeInPlace, s.ResizeShrinks, s.ResizeMoves)
	p.Fprintf(&b, "blocks:   %d splits, %d forward / %d backward coalesces\n",
		s.Splits, s.CoalesceForward, s.CoalesceBackward)
	p.Fprintf(&b, "region:   %d grows, %d bytes total\n", s.GrowCalls, s.GrowBytes)
	p.Fprintf(&b, "payload:  %d allocated, %d freed, %d live (peak %d)\n",
		s.BytesAllocated, s.BytesFreed, s.LiveBytes, s.PeakLiveBytes)
	p.Fprintf(&b, "util:     %.2f%%\n", s.Utilization()*100)
	return b.String()
}
