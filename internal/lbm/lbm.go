// Package lbm implements the D2Q9 lattice-Boltzmann numerical kernels:
// equilibrium initialization, BGK collision, streaming, bounce-back, and
// the derived-field/stability diagnostics. Every kernel operates on a
// *tile.Tile in place; none of them communicate with other ranks -- that is
// internal/halo's job, invoked by the caller between kernel calls.
package lbm

import (
	"math"

	"github.com/argonne-lcf/lbm-cfd/internal/tile"
)

const (
	w0        = 4.0 / 9.0
	wCardinal = 1.0 / 9.0
	wDiagonal = 1.0 / 36.0
)

// SetEquilibrium overwrites all nine distribution channels at local cell
// (x, y) with the D2Q9 equilibrium for the given macroscopic velocity and
// density, and stores rho/ux/uy into the macroscopic fields.
func SetEquilibrium(t *tile.Tile, x, y int, ux, uy, rho float64) {
	idx := t.Index(x, y)

	ux3 := 3.0 * ux
	uy3 := 3.0 * uy
	ux2 := ux * ux
	uy2 := uy * uy
	uxuy2 := 2.0 * ux * uy
	u2 := ux2 + uy2
	u215 := 1.5 * u2

	t.F0[idx] = w0 * rho * (1.0 - u215)
	t.FE[idx] = wCardinal * rho * (1.0 + ux3 + 4.5*ux2 - u215)
	t.FW[idx] = wCardinal * rho * (1.0 - ux3 + 4.5*ux2 - u215)
	t.FN[idx] = wCardinal * rho * (1.0 + uy3 + 4.5*uy2 - u215)
	t.FS[idx] = wCardinal * rho * (1.0 - uy3 + 4.5*uy2 - u215)
	t.FNE[idx] = wDiagonal * rho * (1.0 + ux3 + uy3 + 4.5*(u2+uxuy2) - u215)
	t.FSE[idx] = wDiagonal * rho * (1.0 + ux3 - uy3 + 4.5*(u2-uxuy2) - u215)
	t.FNW[idx] = wDiagonal * rho * (1.0 - ux3 + uy3 + 4.5*(u2-uxuy2) - u215)
	t.FSW[idx] = wDiagonal * rho * (1.0 - ux3 - uy3 + 4.5*(u2+uxuy2) - u215)

	t.Density[idx] = rho
	t.VelocityX[idx] = ux
	t.VelocityY[idx] = uy
}

// InitFluid sets the entire tile, including its ghost border, to
// equilibrium at density 1 and velocity (speedScale*physicalSpeed, 0), and
// zeroes vorticity everywhere.
func InitFluid(t *tile.Tile, speedScale, physicalSpeed float64) {
	speed := speedScale * physicalSpeed
	for y := 0; y < t.DimY; y++ {
		for x := 0; x < t.DimX; x++ {
			SetEquilibrium(t, x, y, speed, 0.0, 1.0)
			t.Vorticity[t.Index(x, y)] = 0.0
		}
	}
}

// Collide performs one BGK relaxation step over every interior cell of the
// tile (excluding the one-cell ghost/boundary ring).
func Collide(t *tile.Tile, viscosity float64) {
	omega := 1.0 / (3.0*viscosity + 0.5)

	for y := 1; y < t.DimY-1; y++ {
		for x := 1; x < t.DimX-1; x++ {
			idx := t.Index(x, y)

			rho := t.F0[idx] + t.FN[idx] + t.FS[idx] + t.FE[idx] + t.FW[idx] +
				t.FNW[idx] + t.FNE[idx] + t.FSW[idx] + t.FSE[idx]
			t.Density[idx] = rho

			ux := (t.FE[idx] + t.FNE[idx] + t.FSE[idx] - t.FW[idx] - t.FNW[idx] - t.FSW[idx]) / rho
			uy := (t.FN[idx] + t.FNE[idx] + t.FNW[idx] - t.FS[idx] - t.FSE[idx] - t.FSW[idx]) / rho
			t.VelocityX[idx] = ux
			t.VelocityY[idx] = uy

			oneNinthRho := wCardinal * rho
			fourNinthsRho := w0 * rho
			oneThirtysixthRho := wDiagonal * rho

			ux3 := 3.0 * ux
			uy3 := 3.0 * uy
			ux2 := ux * ux
			uy2 := uy * uy
			uxuy2 := 2.0 * ux * uy
			u2 := ux2 + uy2
			u215 := 1.5 * u2

			t.F0[idx] += omega * (fourNinthsRho*(1-u215) - t.F0[idx])
			t.FE[idx] += omega * (oneNinthRho*(1+ux3+4.5*ux2-u215) - t.FE[idx])
			t.FW[idx] += omega * (oneNinthRho*(1-ux3+4.5*ux2-u215) - t.FW[idx])
			t.FN[idx] += omega * (oneNinthRho*(1+uy3+4.5*uy2-u215) - t.FN[idx])
			t.FS[idx] += omega * (oneNinthRho*(1-uy3+4.5*uy2-u215) - t.FS[idx])
			t.FNE[idx] += omega * (oneThirtysixthRho*(1+ux3+uy3+4.5*(u2+uxuy2)-u215) - t.FNE[idx])
			t.FSE[idx] += omega * (oneThirtysixthRho*(1+ux3-uy3+4.5*(u2-uxuy2)-u215) - t.FSE[idx])
			t.FNW[idx] += omega * (oneThirtysixthRho*(1-ux3+uy3+4.5*(u2-uxuy2)-u215) - t.FNW[idx])
			t.FSW[idx] += omega * (oneThirtysixthRho*(1-ux3-uy3+4.5*(u2+uxuy2)-u215) - t.FSW[idx])
		}
	}
}

// Stream shifts each directional channel one cell along its lattice
// velocity, scanning in the order that lets a single in-place pass avoid
// overwriting a value it still needs to read. f_0 is never shifted.
func Stream(t *tile.Tile) {
	dimX, dimY := t.DimX, t.DimY

	// N and NW: read from the row below, scan top-down, x ascending.
	for y := dimY - 2; y >= 1; y-- {
		row := y * dimX
		rowBelow := (y - 1) * dimX
		for x := 1; x < dimX-1; x++ {
			t.FN[row+x] = t.FN[rowBelow+x]
			t.FNW[row+x] = t.FNW[rowBelow+x+1]
		}
	}

	// E and NE: read from the column to the left, scan top-down, x descending.
	for y := dimY - 2; y >= 1; y-- {
		row := y * dimX
		rowBelow := (y - 1) * dimX
		for x := dimX - 2; x >= 1; x-- {
			t.FE[row+x] = t.FE[row+x-1]
			t.FNE[row+x] = t.FNE[rowBelow+x-1]
		}
	}

	// S and SE: read from the row above, scan bottom-up, x descending.
	for y := 1; y <= dimY-2; y++ {
		row := y * dimX
		rowAbove := (y + 1) * dimX
		for x := dimX - 2; x >= 1; x-- {
			t.FS[row+x] = t.FS[rowAbove+x]
			t.FSE[row+x] = t.FSE[rowAbove+x-1]
		}
	}

	// W and SW: read from the column to the right, scan bottom-up, x ascending.
	for y := 1; y <= dimY-2; y++ {
		row := y * dimX
		rowAbove := (y + 1) * dimX
		for x := 1; x < dimX-1; x++ {
			t.FW[row+x] = t.FW[row+x+1]
			t.FSW[row+x] = t.FSW[rowAbove+x+1]
		}
	}
}

// BounceBackStream applies no-slip reflection: for every interior cell
// adjacent to a barrier, the channel that would have arrived from the
// barrier is replaced by the opposite-direction channel at the barrier
// cell.
func BounceBackStream(t *tile.Tile) {
	dimX, dimY := t.DimX, t.DimY

	for y := 1; y < dimY-1; y++ {
		row := y * dimX
		rowAbove := (y - 1) * dimX
		rowBelow := (y + 1) * dimX
		for x := 1; x < dimX-1; x++ {
			idx := row + x

			if t.Barrier[row+x-1] {
				t.FE[idx] = t.FW[row+x-1]
			}
			if t.Barrier[row+x+1] {
				t.FW[idx] = t.FE[row+x+1]
			}
			if t.Barrier[rowAbove+x] {
				t.FN[idx] = t.FS[rowAbove+x]
			}
			if t.Barrier[rowBelow+x] {
				t.FS[idx] = t.FN[rowBelow+x]
			}
			if t.Barrier[rowAbove+x-1] {
				t.FNE[idx] = t.FSW[rowAbove+x-1]
			}
			if t.Barrier[rowAbove+x+1] {
				t.FNW[idx] = t.FSE[rowAbove+x+1]
			}
			if t.Barrier[rowBelow+x-1] {
				t.FSE[idx] = t.FNW[rowBelow+x-1]
			}
			if t.Barrier[rowBelow+x+1] {
				t.FSW[idx] = t.FNE[rowBelow+x+1]
			}
		}
	}
}

// CheckStability scans the tile's middle row (y = dim_y/2, full width
// including any ghost columns) and reports false if any density there has
// gone non-positive -- the simulation needs more time steps to resolve.
func CheckStability(t *tile.Tile) bool {
	row := (t.DimY / 2) * t.DimX
	for x := 0; x < t.DimX; x++ {
		if t.Density[row+x] <= 0 {
			return false
		}
	}
	return true
}

// ComputeSpeed fills Speed with the velocity magnitude over interior cells.
func ComputeSpeed(t *tile.Tile) {
	for y := 1; y < t.DimY-1; y++ {
		row := y * t.DimX
		for x := 1; x < t.DimX-1; x++ {
			idx := row + x
			t.Speed[idx] = math.Sqrt(t.VelocityX[idx]*t.VelocityX[idx] + t.VelocityY[idx]*t.VelocityY[idx])
		}
	}
}

// ComputeVorticity fills Vorticity with the central-difference discrete
// curl of the velocity field over interior cells.
func ComputeVorticity(t *tile.Tile) {
	dimX := t.DimX
	for y := 1; y < t.DimY-1; y++ {
		row := y * dimX
		rowAbove := (y - 1) * dimX
		rowBelow := (y + 1) * dimX
		for x := 1; x < dimX-1; x++ {
			idx := row + x
			t.Vorticity[idx] = t.VelocityY[idx+1] - t.VelocityY[idx-1] - t.VelocityX[rowBelow+x] + t.VelocityX[rowAbove+x]
		}
	}
}
