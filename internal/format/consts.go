// Package format houses the low-level block layout of the heap region.
// The goal is to keep the byte-level encoding focused and allocation-free
// so higher-level packages can orchestrate the data in a more ergonomic
// form.
package format

const (
	// HeaderSize is the number of bytes used by the block header preceding
	// every payload (free or in-use) within the region. It matches the
	// 64-bit word width; payload addresses are HeaderSize-aligned.
	HeaderSize = 8

	// NodeSize is the number of payload bytes a free block reuses for its
	// intrusive list links (two 8-byte offsets: prev, next).
	NodeSize = 16

	// MinBlockSize is the smallest legal total block size (header plus
	// payload). A free block must be able to hold its list links, so the
	// floor is HeaderSize + NodeSize.
	MinBlockSize = HeaderSize + NodeSize

	// CellAlignment is the required alignment of payload addresses and
	// stored payload sizes.
	CellAlignment = 8

	// CellAlignmentMask is CellAlignment - 1, for align-up arithmetic.
	CellAlignmentMask = CellAlignment - 1

	// FreeBit is the low bit of the prev_size_and_flag header field. Sizes
	// are always a multiple of CellAlignment, so the bit carries the
	// "preceding block is free" flag without losing size information.
	FreeBit = 1

	// sizeFieldOffset and prevFieldOffset locate the two uint32 header
	// fields relative to the start of the header (payload minus HeaderSize).
	sizeFieldOffset = 0
	prevFieldOffset = 4
)
