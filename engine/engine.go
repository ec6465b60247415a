// Package engine is the public façade composing internal/decomp,
// internal/tile, internal/lbm, internal/boundary, internal/halo and
// internal/gather into the contract a driver needs: construct, initialize,
// step, and observe a single rank's piece of a distributed D2Q9
// lattice-Boltzmann simulation.
package engine

import (
	"fmt"

	"github.com/argonne-lcf/lbm-cfd/internal/boundary"
	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
	"github.com/argonne-lcf/lbm-cfd/internal/gather"
	"github.com/argonne-lcf/lbm-cfd/internal/halo"
	"github.com/argonne-lcf/lbm-cfd/internal/lbm"
	"github.com/argonne-lcf/lbm-cfd/internal/tile"
)

// Transport is the message-passing fabric this rank's halo exchange and
// gather calls run over. *transport.Comm and *transport/faketransport.Comm
// both satisfy it.
type Transport interface {
	Rank() int
	Size() int
	Send(data []float64, dest, tag int) error
	Receive(buf []float64, src, tag int) error
	SendBool(data []bool, dest, tag int) error
	ReceiveBool(buf []bool, src, tag int) error
}

// Engine is one rank's view of the distributed simulation: its tile, its
// decomposition geometry, and the transport it exchanges boundaries and
// gathers over.
type Engine struct {
	layout    *decomp.Layout
	tile      *tile.Tile
	transport Transport

	speedScale float64

	gathered *gather.Result
}

// New constructs and allocates this rank's tile. w, h is the global grid
// size, speedScale the dimensionless lattice-to-physical speed ratio used
// by InitFluid/UpdateFluid, and tr the transport this rank communicates
// over (tr.Rank()/tr.Size() supply rank and P).
func New(w, h int, speedScale float64, tr Transport) (*Engine, error) {
	layout, err := decomp.Plan(w, h, tr.Size(), tr.Rank())
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	t := tile.New(layout.DimX, layout.DimY, layout.StartX, layout.StartY, layout.NumX, layout.NumY, layout.OffsetX, layout.OffsetY)

	return &Engine{
		layout:     layout,
		tile:       t,
		transport:  tr,
		speedScale: speedScale,
	}, nil
}

// InitBarrier rasterizes the given global-coordinate segments into the
// tile's barrier mask, replacing whatever was there before.
func (e *Engine) InitBarrier(segments []decomp.Segment) {
	boundary.InitBarrier(e.tile, e.layout, segments)
}

// InitFluid sets the whole tile, ghost border included, to equilibrium at
// density 1 and velocity (speedScale*physicalSpeed, 0).
func (e *Engine) InitFluid(physicalSpeed float64) {
	lbm.InitFluid(e.tile, e.speedScale, physicalSpeed)
}

// UpdateFluid re-imposes that same equilibrium on the tile's outermost
// ring, without touching the interior -- the operation steering uses to
// change inflow speed mid-run.
func (e *Engine) UpdateFluid(physicalSpeed float64) {
	boundary.UpdateFluid(e.tile, e.speedScale, physicalSpeed)
}

// Collide performs one BGK relaxation step over the tile's interior.
func (e *Engine) Collide(viscosity float64) {
	lbm.Collide(e.tile, viscosity)
}

// Stream shifts every distribution channel one cell along its lattice
// velocity.
func (e *Engine) Stream() {
	lbm.Stream(e.tile)
}

// BounceBackStream applies no-slip reflection at barrier-adjacent cells.
func (e *Engine) BounceBackStream() {
	lbm.BounceBackStream(e.tile)
}

// ComputeSpeed recomputes the interior's velocity-magnitude field.
func (e *Engine) ComputeSpeed() {
	lbm.ComputeSpeed(e.tile)
}

// ComputeVorticity recomputes the interior's discrete-curl field.
func (e *Engine) ComputeVorticity() {
	lbm.ComputeVorticity(e.tile)
}

// CheckStability reports whether every density on the tile's probed mid-row
// remains positive.
func (e *Engine) CheckStability() bool {
	return lbm.CheckStability(e.tile)
}

// ExchangeBoundaries performs the eight-neighbor halo exchange of all
// twelve synced fields with whatever neighbors this rank actually has.
func (e *Engine) ExchangeBoundaries() error {
	return halo.Exchange(e.tile, e.layout, e.transport)
}

// GatherOnRoot collects property from every rank's owned interior
// rectangle, plus the barrier mask, into a global buffer on rank 0. On
// every other rank this only sends; GatheredDensity/GatheredSpeed/
// GatheredVorticity/GatheredBarrier are valid only on rank 0, and only
// after a matching GatherOnRoot call for that property.
func (e *Engine) GatherOnRoot(property gather.Property) error {
	result, err := gather.OnRoot(e.tile, e.layout, property, e.transport)
	if err != nil {
		return err
	}
	if e.Rank() == 0 {
		e.gathered = result
	}
	return nil
}

// GatheredDensity returns the last gathered density buffer. Valid only on
// rank 0, only after GatherOnRoot(gather.Density).
func (e *Engine) GatheredDensity() *gather.Result { return e.gathered }

// GatheredSpeed returns the last gathered speed buffer. Valid only on rank
// 0, only after GatherOnRoot(gather.Speed).
func (e *Engine) GatheredSpeed() *gather.Result { return e.gathered }

// GatheredVorticity returns the last gathered vorticity buffer. Valid only
// on rank 0, only after GatherOnRoot(gather.Vorticity).
func (e *Engine) GatheredVorticity() *gather.Result { return e.gathered }

// GatheredBarrier returns the barrier mask gathered alongside the last
// property, as a W*H row-major []bool. Valid only on rank 0.
func (e *Engine) GatheredBarrier() []bool {
	if e.gathered == nil {
		return nil
	}
	return e.gathered.Barrier
}

// Rank returns this engine's rank within the collective.
func (e *Engine) Rank() int { return e.transport.Rank() }

// Size returns the number of ranks in the collective.
func (e *Engine) Size() int { return e.transport.Size() }

// DimX/DimY are the tile's full ghost-inflated extents.
func (e *Engine) DimX() int { return e.tile.DimX }
func (e *Engine) DimY() int { return e.tile.DimY }

// NumX/NumY are the tile's owned-interior extents, excluding ghosts.
func (e *Engine) NumX() int { return e.tile.NumX }
func (e *Engine) NumY() int { return e.tile.NumY }

// OffsetX/OffsetY are this tile's owned-interior origin in global
// coordinates.
func (e *Engine) OffsetX() int { return e.tile.OffsetX }
func (e *Engine) OffsetY() int { return e.tile.OffsetY }

// Layout exposes the full decomposition geometry, including every rank's
// size/start table, for collaborators (steering, rendering) that need more
// than the per-axis accessors above.
func (e *Engine) Layout() *decomp.Layout { return e.layout }

// The following return the local tile's raw fields. None of them copy;
// callers must not retain a slice past the next kernel call that mutates
// it.

func (e *Engine) F0() []float64  { return e.tile.F0 }
func (e *Engine) FN() []float64  { return e.tile.FN }
func (e *Engine) FE() []float64  { return e.tile.FE }
func (e *Engine) FS() []float64  { return e.tile.FS }
func (e *Engine) FW() []float64  { return e.tile.FW }
func (e *Engine) FNE() []float64 { return e.tile.FNE }
func (e *Engine) FNW() []float64 { return e.tile.FNW }
func (e *Engine) FSE() []float64 { return e.tile.FSE }
func (e *Engine) FSW() []float64 { return e.tile.FSW }

func (e *Engine) Density() []float64   { return e.tile.Density }
func (e *Engine) VelocityX() []float64 { return e.tile.VelocityX }
func (e *Engine) VelocityY() []float64 { return e.tile.VelocityY }
func (e *Engine) Vorticity() []float64 { return e.tile.Vorticity }
func (e *Engine) Speed() []float64     { return e.tile.Speed }
func (e *Engine) Barrier() []bool      { return e.tile.Barrier }

// Index returns the flat backing-array offset for local cell (x, y).
func (e *Engine) Index(x, y int) int { return e.tile.Index(x, y) }
