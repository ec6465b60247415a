// Package halo implements the per-step boundary synchronization between a
// tile and its up-to-eight neighbors: nine distribution channels plus
// density, velocity_x and velocity_y, exchanged over strided column views
// for east/west neighbors and contiguous row/point views everywhere else.
package halo

import (
	"fmt"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
	"github.com/argonne-lcf/lbm-cfd/internal/tile"
)

// numFields is the count of fields synchronized on every pairing: the nine
// distribution channels, density, velocity_x, velocity_y.
const numFields = 12

// Transport is the subset of transport.Transport the halo engine needs.
// Defined locally so this package never imports the transport package
// directly, keeping the dependency direction inward.
type Transport interface {
	Send(data []float64, dest, tag int) error
	Receive(buf []float64, src, tag int) error
}

// tagBase reserves sixteen tag values per direction, enough room for the
// twelve synced fields with slack to spare, so one direction's messages
// can never collide with another's on the wire.
const tagBase = 16

func fieldTag(d decomp.Direction, fieldIdx int) int {
	return int(d)*tagBase + fieldIdx
}

// Exchange performs the eight-neighbor, fixed-order (N,E,S,W,NE,NW,SE,SW)
// halo exchange described in SPEC_FULL.md §4.3. It blocks until every
// paired send/receive with an existing neighbor has completed.
func Exchange(t *tile.Tile, layout *decomp.Layout, tr Transport) error {
	directions := []decomp.Direction{
		decomp.North, decomp.East, decomp.South, decomp.West,
		decomp.Northeast, decomp.Northwest, decomp.Southeast, decomp.Southwest,
	}

	for _, d := range directions {
		neighbor := layout.Neighbors[d]
		if neighbor == decomp.NoNeighbor {
			continue
		}
		if err := exchangeDirection(t, d, neighbor, tr); err != nil {
			return fmt.Errorf("halo: exchange with rank %d (direction %d) failed: %w", neighbor, d, err)
		}
	}
	return nil
}

func exchangeDirection(t *tile.Tile, d decomp.Direction, neighbor int, tr Transport) error {
	sendTagDir := decomp.Opposite(d)

	fields := t.Fields()
	for i, field := range fields {
		sendTag := fieldTag(sendTagDir, i)
		recvTag := fieldTag(d, i)

		sendBuf := packSend(t, d, field)
		if err := tr.Send(sendBuf, neighbor, sendTag); err != nil {
			return err
		}

		recvBuf := make([]float64, len(sendBuf))
		if err := tr.Receive(recvBuf, neighbor, recvTag); err != nil {
			return err
		}
		unpackRecv(t, d, field, recvBuf)
	}
	return nil
}

// packSend copies one field's outgoing region for direction d into a fresh
// contiguous buffer: the view is strided for E/W, a single cell for the
// diagonals, and already contiguous for N/S, but a copy is taken in every
// case so the wire buffer never aliases the tile's backing array.
func packSend(t *tile.Tile, d decomp.Direction, field []float64) []float64 {
	dimX, dimY := t.DimX, t.DimY
	sx, sy := t.StartX, t.StartY
	numX, numY := t.NumX, t.NumY

	switch d {
	case decomp.North:
		row := (dimY - 2) * dimX
		return append([]float64(nil), field[row+sx:row+sx+numX]...)
	case decomp.South:
		row := sy * dimX
		return append([]float64(nil), field[row+sx:row+sx+numX]...)
	case decomp.East:
		return packColumn(field, dimX, sx+numX-1, sy, numY)
	case decomp.West:
		return packColumn(field, dimX, sx, sy, numY)
	case decomp.Northeast:
		return []float64{field[(dimY-2)*dimX+dimX-2]}
	case decomp.Northwest:
		return []float64{field[(dimY-2)*dimX+sx]}
	case decomp.Southeast:
		return []float64{field[sy*dimX+dimX-2]}
	case decomp.Southwest:
		return []float64{field[sy*dimX+sx]}
	}
	panic("halo: unknown direction")
}

// unpackRecv scatters a received region back into field at the ghost cells
// direction d owns: the ghost row/column/corner opposite the one packSend
// read for the same direction.
func unpackRecv(t *tile.Tile, d decomp.Direction, field []float64, data []float64) {
	dimX, dimY := t.DimX, t.DimY
	sx := t.StartX
	numY := t.NumY

	switch d {
	case decomp.North:
		row := (dimY - 1) * dimX
		copy(field[row+sx:row+sx+len(data)], data)
	case decomp.South:
		copy(field[sx:sx+len(data)], data)
	case decomp.East:
		unpackColumn(field, dimX, dimX-1, t.StartY, numY, data)
	case decomp.West:
		unpackColumn(field, dimX, 0, t.StartY, numY, data)
	case decomp.Northeast:
		field[(dimY-1)*dimX+dimX-1] = data[0]
	case decomp.Northwest:
		field[(dimY-1)*dimX] = data[0]
	case decomp.Southeast:
		field[dimX-1] = data[0]
	case decomp.Southwest:
		field[0] = data[0]
	}
}

// packColumn copies the num cells of field at fixed x, y in [yStart,
// yStart+num) into a freshly allocated contiguous slice.
func packColumn(field []float64, dimX, x, yStart, num int) []float64 {
	out := make([]float64, num)
	for i := 0; i < num; i++ {
		out[i] = field[(yStart+i)*dimX+x]
	}
	return out
}

// unpackColumn scatters data back into field's column x, cell by cell,
// undoing packColumn.
func unpackColumn(field []float64, dimX, x, yStart, num int, data []float64) {
	for i := 0; i < num; i++ {
		field[(yStart+i)*dimX+x] = data[i]
	}
}
