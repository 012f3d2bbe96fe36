package format

// Block header layout (little-endian), stored in the 8 bytes immediately
// before every payload address p:
//
//	Offset  Size  Description
//	0x00    4     size: payload byte count, multiple of CellAlignment.
//	0x04    4     prev_size_and_flag: payload size of the physically
//	              preceding block, low bit set when that block is free.
//
// The free bit of a block therefore lives in the header of its physical
// successor. A zero-size header terminates the region (the sentinel); its
// prev_size_and_flag records the last real block.
//
// All accessors take the backing region and a payload address. Bounds are
// the caller's responsibility; every caller has already established the
// block exists.

// BlockSize returns the payload size of the block at payload address p.
func BlockSize(mem []byte, p uint64) uint32 {
	return ReadU32(mem, p-HeaderSize+sizeFieldOffset)
}

// SetBlockSize stores the payload size of the block at payload address p.
func SetBlockSize(mem []byte, p uint64, size uint32) {
	PutU32(mem, p-HeaderSize+sizeFieldOffset, size)
}

// PrevField returns the raw prev_size_and_flag header field of the block
// at payload address p.
func PrevField(mem []byte, p uint64) uint32 {
	return ReadU32(mem, p-HeaderSize+prevFieldOffset)
}

// SetPrevField stores the raw prev_size_and_flag header field of the block
// at payload address p.
func SetPrevField(mem []byte, p uint64, v uint32) {
	PutU32(mem, p-HeaderSize+prevFieldOffset, v)
}

// PrevSize returns the payload size of the block physically preceding p.
func PrevSize(mem []byte, p uint64) uint32 {
	return PrevField(mem, p) &^ FreeBit
}

// PrevFree reports whether the block physically preceding p is free.
func PrevFree(mem []byte, p uint64) bool {
	return PrevField(mem, p)&FreeBit != 0
}

// Free blocks reinterpret their first NodeSize payload bytes as two
// uint64 offsets forming a doubly linked list. Offset 0 is never a valid
// payload address and serves as the nil link.

// NodePrev returns the prev link of the free block at payload address p.
func NodePrev(mem []byte, p uint64) uint64 {
	return ReadU64(mem, p)
}

// NodeNext returns the next link of the free block at payload address p.
func NodeNext(mem []byte, p uint64) uint64 {
	return ReadU64(mem, p+8)
}

// SetNodePrev stores the prev link of the free block at payload address p.
func SetNodePrev(mem []byte, p uint64, v uint64) {
	PutU64(mem, p, v)
}

// SetNodeNext stores the next link of the free block at payload address p.
func SetNodeNext(mem []byte, p uint64, v uint64) {
	PutU64(mem, p+8, v)
}
