package format

import "encoding/binary"

// Binary encoding utilities for little-endian integers.
//
// Implementation: encoding/binary.LittleEndian. The standard library
// implementation is already compiled to single loads and stores; unsafe
// pointer variants provide no measurable benefit here.

// PutU32 writes a uint32 value to the buffer at the specified offset in
// little-endian format.
func PutU32(b []byte, off uint64, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in
// little-endian format.
func ReadU32(b []byte, off uint64) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// PutU64 writes a uint64 value to the buffer at the specified offset in
// little-endian format.
func PutU64(b []byte, off uint64, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in
// little-endian format.
func ReadU64(b []byte, off uint64) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
