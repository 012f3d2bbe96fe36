package alloc

import (
	"fmt"

	"github.com/tammam1998/fastmem/internal/format"
)

// Config defines the allocator tunables. Different configurations trade
// bin granularity against per-operation work; the defaults match the
// reference behavior and are what the invariants in this package are
// tested against.
type Config struct {
	// Name for this configuration (for benchmarking)
	Name string

	// Alignment of payload sizes and of the first payload address. Must be
	// a power of two and at least 8. Payload addresses are always
	// multiples of 8; with an Alignment above 8, the 8-byte header between
	// blocks leaves later payload addresses off the Alignment boundary.
	Alignment uint64

	// MinSizeExp is the exponent of the smallest bin's lower bound: bin 0
	// collects free blocks with total size below 2^(MinSizeExp+1).
	MinSizeExp int

	// SizeLimitExp is the exponent of the largest bin's upper bound. The
	// bin count is SizeLimitExp - MinSizeExp.
	SizeLimitExp int

	// MinBlockSize is the smallest total block the splitter may produce.
	// Must be at least header plus free-node size (24).
	MinBlockSize uint64
}

// Predefined configurations for testing and benchmarking.
var (
	// DefaultConfig matches the reference tunables: 27 bins covering
	// totals from 32 bytes to 4GB, split threshold 24.
	DefaultConfig = Config{
		Name:         "Default",
		Alignment:    8,
		MinSizeExp:   5,
		SizeLimitExp: 32,
		MinBlockSize: 24,
	}

	// ConfigFineBins starts the classes one power of two lower, giving
	// small allocations their own bins at the cost of one extra list.
	ConfigFineBins = Config{
		Name:         "FineBins",
		Alignment:    8,
		MinSizeExp:   4,
		SizeLimitExp: 32,
		MinBlockSize: 24,
	}

	// ConfigCoarseBins halves the bin count for workloads dominated by
	// mid-sized blocks; more cross-class splitting, fewer empty lists.
	ConfigCoarseBins = Config{
		Name:         "CoarseBins",
		Alignment:    8,
		MinSizeExp:   6,
		SizeLimitExp: 20,
		MinBlockSize: 24,
	}
)

// binCount returns the number of segregated free lists.
func (c *Config) binCount() int {
	return c.SizeLimitExp - c.MinSizeExp
}

// minPayload returns the smallest payload a block may carry.
func (c *Config) minPayload() uint64 {
	return c.MinBlockSize - format.HeaderSize
}

// validate rejects tunable combinations the block layout cannot support.
func (c *Config) validate() error {
	if c.Alignment < 8 || c.Alignment&(c.Alignment-1) != 0 {
		return fmt.Errorf("%w: alignment %d must be a power of two >= 8",
			ErrBadConfig, c.Alignment)
	}
	if c.MinSizeExp < 1 || c.SizeLimitExp <= c.MinSizeExp || c.SizeLimitExp > 32 {
		return fmt.Errorf("%w: size class exponents [%d, %d]",
			ErrBadConfig, c.MinSizeExp, c.SizeLimitExp)
	}
	if c.MinBlockSize < format.MinBlockSize {
		return fmt.Errorf("%w: min block size %d below header+node floor %d",
			ErrBadConfig, c.MinBlockSize, format.MinBlockSize)
	}
	return nil
}
