package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
	"github.com/argonne-lcf/lbm-cfd/internal/lbm"
	"github.com/argonne-lcf/lbm-cfd/internal/tile"
)

// TestUpdateFluidMatchesEquilibrium verifies scenario E: after updateFluid
// with a new speed, the tile's outermost ring equals the equilibrium for
// (scale*new_speed, 0, 1).
func TestUpdateFluidMatchesEquilibrium(t *testing.T) {
	tl := tile.New(6, 5, 0, 0, 6, 5, 0, 0)
	lbm.InitFluid(tl, 1.0, 0.1)

	UpdateFluid(tl, 1.0, 0.4)

	want := tile.New(6, 5, 0, 0, 6, 5, 0, 0)
	lbm.SetEquilibrium(want, 0, 0, 0.4, 0, 1.0)

	for x := 0; x < tl.DimX; x++ {
		assert.InDelta(t, want.F0[0], tl.F0[tl.Index(x, 0)], 1e-12)
		assert.InDelta(t, 0.4, tl.VelocityX[tl.Index(x, 0)], 1e-12)
		assert.InDelta(t, 0.4, tl.VelocityX[tl.Index(x, tl.DimY-1)], 1e-12)
	}
	for y := 1; y < tl.DimY-1; y++ {
		assert.InDelta(t, 0.4, tl.VelocityX[tl.Index(0, y)], 1e-12)
		assert.InDelta(t, 0.4, tl.VelocityX[tl.Index(tl.DimX-1, y)], 1e-12)
	}

	// the interior must be untouched.
	assert.InDelta(t, 0.1, tl.VelocityX[tl.Index(2, 2)], 1e-12)
}

func TestInitBarrierTranslatesGlobalToLocalCoordinates(t *testing.T) {
	layout, err := decomp.Plan(16, 8, 2, 1) // rank 1 = east half, has a west ghost
	require.NoError(t, err)

	tl := tile.New(layout.DimX, layout.DimY, layout.StartX, layout.StartY, layout.NumX, layout.NumY, layout.OffsetX, layout.OffsetY)

	segments := []decomp.Segment{decomp.NewVertical(2, 5, 8)}
	InitBarrier(tl, layout, segments)

	sx := layout.OffsetX - layout.StartX
	for y := 2; y <= 5; y++ {
		localY := y - (layout.OffsetY - layout.StartY)
		assert.True(t, tl.Barrier[tl.Index(8-sx, localY)])
	}
	assert.False(t, tl.Barrier[tl.Index(8-sx, 0)])
}

func TestInitBarrierClearsPreviousMask(t *testing.T) {
	tl := tile.New(5, 5, 0, 0, 5, 5, 0, 0)
	layout, err := decomp.Plan(5, 5, 1, 0)
	require.NoError(t, err)

	InitBarrier(tl, layout, []decomp.Segment{decomp.NewHorizontal(0, 4, 2)})
	assert.True(t, tl.Barrier[tl.Index(2, 2)])

	InitBarrier(tl, layout, nil)
	assert.False(t, tl.Barrier[tl.Index(2, 2)])
}
