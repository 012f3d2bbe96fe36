package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tammam1998/fastmem/heap/arena"
)

func Test_Config_PresetsValidate(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig, ConfigFineBins, ConfigCoarseBins} {
		assert.NoErrorf(t, cfg.validate(), "preset %s", cfg.Name)
	}
	assert.Equal(t, 27, DefaultConfig.binCount())
	assert.Equal(t, 28, ConfigFineBins.binCount())
	assert.Equal(t, 14, ConfigCoarseBins.binCount())
}

// Test_Config_AlternateBinsEndToEnd runs the basic lifecycle under the
// non-default presets and validates after every phase.
func Test_Config_AlternateBinsEndToEnd(t *testing.T) {
	for _, cfg := range []Config{ConfigFineBins, ConfigCoarseBins} {
		t.Run(cfg.Name, func(t *testing.T) {
			h, err := New(arena.NewSlice(0), &cfg)
			require.NoError(t, err)

			var ps []uint64
			for _, n := range []uint64{16, 100, 1000, 4096} {
				p, _, aerr := h.Alloc(n)
				require.NoError(t, aerr)
				ps = append(ps, p)
			}
			require.NoError(t, h.Check())

			for _, p := range ps {
				require.NoError(t, h.Free(p))
			}
			require.NoError(t, h.Check())

			p, _, err := h.Alloc(64)
			require.NoError(t, err)
			assert.Equal(t, ps[0], p, "drained heap reuses from the front")
			require.NoError(t, h.Check())
		})
	}
}
