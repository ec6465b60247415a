// Package boundary implements the two tile-mutating operations the core
// exposes specifically for its driver/steering collaborators: re-imposing
// inflow equilibrium on a tile's outer ring, and rasterizing barrier
// segments into a tile's barrier mask.
package boundary

import (
	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
	"github.com/argonne-lcf/lbm-cfd/internal/lbm"
	"github.com/argonne-lcf/lbm-cfd/internal/tile"
)

// UpdateFluid re-imposes equilibrium at density 1 and velocity
// (speedScale*physicalSpeed, 0) on the tile's outermost ring -- top row,
// bottom row, and left/right columns excluding the four corners already
// covered by the rows. It never touches the interior, so steering can
// change the inflow speed without re-initializing the simulated fluid.
func UpdateFluid(t *tile.Tile, speedScale, physicalSpeed float64) {
	speed := speedScale * physicalSpeed

	for x := 0; x < t.DimX; x++ {
		lbm.SetEquilibrium(t, x, 0, speed, 0.0, 1.0)
		lbm.SetEquilibrium(t, x, t.DimY-1, speed, 0.0, 1.0)
	}
	for y := 1; y < t.DimY-1; y++ {
		lbm.SetEquilibrium(t, 0, y, speed, 0.0, 1.0)
		lbm.SetEquilibrium(t, t.DimX-1, y, speed, 0.0, 1.0)
	}
}

// InitBarrier clears the tile's barrier mask and sets it according to the
// given list of global-coordinate segments, translating each into the
// tile's local ghost-aware coordinate space.
func InitBarrier(t *tile.Tile, layout *decomp.Layout, segments []decomp.Segment) {
	for i := range t.Barrier {
		t.Barrier[i] = false
	}

	sx := layout.OffsetX - layout.StartX
	sy := layout.OffsetY - layout.StartY

	for _, seg := range segments {
		switch seg.Kind {
		case decomp.Horizontal:
			y := seg.Y1 - sy
			if y < 0 || y >= t.DimY {
				continue
			}
			for gx := seg.X1; gx <= seg.X2; gx++ {
				x := gx - sx
				if x >= 0 && x < t.DimX {
					t.Barrier[t.Index(x, y)] = true
				}
			}
		case decomp.Vertical:
			x := seg.X1 - sx
			if x < 0 || x >= t.DimX {
				continue
			}
			for gy := seg.Y1; gy <= seg.Y2; gy++ {
				y := gy - sy
				if y >= 0 && y < t.DimY {
					t.Barrier[t.Index(x, y)] = true
				}
			}
		}
	}
}
