// Package gather assembles one scalar property plus the barrier mask from
// every rank's owned interior rectangle into a single W x H buffer on rank
// 0.
package gather

import (
	"fmt"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
	"github.com/argonne-lcf/lbm-cfd/internal/tile"
)

// Property selects which scalar field a GatherOnRoot call collects.
type Property int

const (
	None Property = iota
	Density
	Speed
	Vorticity
)

// Transport is the subset of transport.Transport the gather engine needs.
type Transport interface {
	Send(data []float64, dest, tag int) error
	Receive(buf []float64, src, tag int) error
	SendBool(data []bool, dest, tag int) error
	ReceiveBool(buf []bool, src, tag int) error
}

const (
	gatherTag     = 1 << 12
	gatherBoolTag = gatherTag + 1
)

// Result is the global W x H buffer rank 0 owns after a GatherOnRoot call.
// It is nil on every rank but 0.
type Result struct {
	W, H    int
	Field   []float64
	Barrier []bool
}

func selectField(t *tile.Tile, property Property) ([]float64, error) {
	switch property {
	case Density:
		return t.Density, nil
	case Speed:
		return t.Speed, nil
	case Vorticity:
		return t.Vorticity, nil
	}
	return nil, fmt.Errorf("gather: property %d is not a gatherable field", property)
}

// OnRoot collects property (and the barrier mask) from every rank's owned
// interior rectangle into a Result on rank 0. On every other rank it sends
// its own rectangle and returns a nil Result. Selector None is a no-op that
// returns (nil, nil) everywhere, per spec.
func OnRoot(t *tile.Tile, layout *decomp.Layout, property Property, tr Transport) (*Result, error) {
	if property == None {
		return nil, nil
	}

	field, err := selectField(t, property)
	if err != nil {
		return nil, err
	}

	if layout.Rank != 0 {
		buf := packRect(field, t.DimX, t.StartX, t.StartY, t.NumX, t.NumY)
		if err := tr.Send(buf, 0, gatherTag); err != nil {
			return nil, fmt.Errorf("gather: send scalar rectangle to rank 0 failed: %w", err)
		}
		bbuf := packBoolRect(t.Barrier, t.DimX, t.StartX, t.StartY, t.NumX, t.NumY)
		if err := tr.SendBool(bbuf, 0, gatherBoolTag); err != nil {
			return nil, fmt.Errorf("gather: send barrier rectangle to rank 0 failed: %w", err)
		}
		return nil, nil
	}

	result := &Result{
		W:       layout.W,
		H:       layout.H,
		Field:   make([]float64, layout.W*layout.H),
		Barrier: make([]bool, layout.W*layout.H),
	}

	// Rank 0's own rectangle is already local; placing it directly plays the
	// role the original's self-Sendrecv plays, without an actual round trip.
	own := layout.AllRanks[0]
	placeRect(result.Field, layout.W, packRect(field, t.DimX, t.StartX, t.StartY, own.NumX, own.NumY), own.NumX, own.NumY, own.OffsetX, own.OffsetY)
	placeBoolRect(result.Barrier, layout.W, packBoolRect(t.Barrier, t.DimX, t.StartX, t.StartY, own.NumX, own.NumY), own.NumX, own.NumY, own.OffsetX, own.OffsetY)

	for src := 1; src < layout.NumRanks; src++ {
		g := layout.AllRanks[src]

		buf := make([]float64, g.NumX*g.NumY)
		if err := tr.Receive(buf, src, gatherTag); err != nil {
			return nil, fmt.Errorf("gather: receive scalar rectangle from rank %d failed: %w", src, err)
		}
		placeRect(result.Field, layout.W, buf, g.NumX, g.NumY, g.OffsetX, g.OffsetY)

		bbuf := make([]bool, g.NumX*g.NumY)
		if err := tr.ReceiveBool(bbuf, src, gatherBoolTag); err != nil {
			return nil, fmt.Errorf("gather: receive barrier rectangle from rank %d failed: %w", src, err)
		}
		placeBoolRect(result.Barrier, layout.W, bbuf, g.NumX, g.NumY, g.OffsetX, g.OffsetY)
	}

	return result, nil
}

// packRect copies a tile's owned interior rectangle (numX x numY, starting
// at local (startX, startY), row stride dimX) into a freshly allocated,
// row-major, densely packed buffer.
func packRect(field []float64, dimX, startX, startY, numX, numY int) []float64 {
	out := make([]float64, numX*numY)
	for y := 0; y < numY; y++ {
		row := (startY+y)*dimX + startX
		copy(out[y*numX:(y+1)*numX], field[row:row+numX])
	}
	return out
}

func packBoolRect(field []bool, dimX, startX, startY, numX, numY int) []bool {
	out := make([]bool, numX*numY)
	for y := 0; y < numY; y++ {
		row := (startY+y)*dimX + startX
		copy(out[y*numX:(y+1)*numX], field[row:row+numX])
	}
	return out
}

// placeRect scatters a densely packed numX x numY buffer into dst (a w-wide
// global buffer) at global origin (offsetX, offsetY).
func placeRect(dst []float64, w int, buf []float64, numX, numY, offsetX, offsetY int) {
	for y := 0; y < numY; y++ {
		row := (offsetY+y)*w + offsetX
		copy(dst[row:row+numX], buf[y*numX:(y+1)*numX])
	}
}

func placeBoolRect(dst []bool, w int, buf []bool, numX, numY, offsetX, offsetY int) {
	for y := 0; y < numY; y++ {
		row := (offsetY+y)*w + offsetX
		copy(dst[row:row+numX], buf[y*numX:(y+1)*numX])
	}
}
