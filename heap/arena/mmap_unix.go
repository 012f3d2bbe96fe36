//go:build unix

package arena

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapArena is an anonymous-mapping arena. The full capacity is reserved
// up front with PROT_NONE and pages are committed on Grow, so Bytes()
// stays at a stable base address for the lifetime of the arena.
type MmapArena struct {
	reserved  []byte // full PROT_NONE reservation
	size      uint64 // bytes handed out via Grow
	committed uint64 // page-aligned readable/writable prefix
	pageSize  uint64
}

// NewMmap reserves an anonymous mapping of up to max bytes and returns an
// arena over it. max is rounded up to the page size.
func NewMmap(max uint64) (*MmapArena, error) {
	pageSize := uint64(unix.Getpagesize())
	reserve := (max + pageSize - 1) &^ (pageSize - 1)
	if reserve == 0 {
		reserve = pageSize
	}
	mem, err := unix.Mmap(-1, 0, int(reserve), unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", reserve, err)
	}
	return &MmapArena{reserved: mem, pageSize: pageSize}, nil
}

// Bytes returns the current region.
func (a *MmapArena) Bytes() []byte { return a.reserved[:a.size] }

// Size returns the current region length.
func (a *MmapArena) Size() uint64 { return a.size }

// Grow commits n more bytes and returns the offset of the first new byte.
// Returns ErrOutOfMemory when the reservation is exhausted.
func (a *MmapArena) Grow(n uint64) (uint64, error) {
	if a.size+n > uint64(len(a.reserved)) {
		return 0, ErrOutOfMemory
	}
	newEnd := (a.size + n + a.pageSize - 1) &^ (a.pageSize - 1)
	if newEnd > uint64(len(a.reserved)) {
		newEnd = uint64(len(a.reserved))
	}
	if newEnd > a.committed {
		err := unix.Mprotect(a.reserved[a.committed:newEnd],
			unix.PROT_READ|unix.PROT_WRITE)
		if err != nil {
			return 0, fmt.Errorf("arena: commit pages: %w", err)
		}
		a.committed = newEnd
	}
	off := a.size
	a.size += n
	return off, nil
}

// Close unmaps the reservation. The arena must not be used afterwards.
func (a *MmapArena) Close() error {
	if a.reserved == nil {
		return nil
	}
	err := unix.Munmap(a.reserved)
	a.reserved = nil
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
