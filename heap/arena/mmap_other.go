//go:build !unix

package arena

// MmapArena degrades to slice-backed growth when anonymous mappings are
// not available. The capacity cap is preserved.
type MmapArena struct {
	SliceArena
}

// NewMmap returns a capped slice-backed arena on platforms without mmap.
func NewMmap(max uint64) (*MmapArena, error) {
	return &MmapArena{SliceArena{max: max}}, nil
}

// Close releases nothing on this platform.
func (a *MmapArena) Close() error { return nil }
