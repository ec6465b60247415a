package halo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
	"github.com/argonne-lcf/lbm-cfd/internal/tile"
	"github.com/argonne-lcf/lbm-cfd/transport/faketransport"
)

// fillTile writes a distinct, per-channel, per-coordinate value into every
// field of t so that a mismatched ghost/owned pairing after exchange would
// stand out rather than accidentally agreeing.
func fillTile(t *tile.Tile, rank int) {
	for fi, field := range t.Fields() {
		for y := 0; y < t.DimY; y++ {
			for x := 0; x < t.DimX; x++ {
				field[t.Index(x, y)] = float64(rank*100000 + fi*1000 + y*t.DimX + x)
			}
		}
	}
}

// TestExchangeMatchesOwnedColumnsAcrossRanks verifies scenario B and the
// west-rank side of property 6: after exchangeBoundaries, the west rank's
// east ghost column equals the east rank's x=1 owned column for every synced
// field.
func TestExchangeMatchesOwnedColumnsAcrossRanks(t *testing.T) {
	w, h, numRanks := 16, 8, 2
	net := faketransport.NewNetwork(numRanks)

	layouts := make([]*decomp.Layout, numRanks)
	tiles := make([]*tile.Tile, numRanks)
	comms := make([]*faketransport.Comm, numRanks)

	for r := 0; r < numRanks; r++ {
		l, err := decomp.Plan(w, h, numRanks, r)
		require.NoError(t, err)
		layouts[r] = l
		tiles[r] = tile.New(l.DimX, l.DimY, l.StartX, l.StartY, l.NumX, l.NumY, l.OffsetX, l.OffsetY)
		fillTile(tiles[r], r)
		comms[r] = faketransport.New(net, r)
	}

	errs := make(chan error, numRanks)
	for r := 0; r < numRanks; r++ {
		go func(r int) {
			errs <- Exchange(tiles[r], layouts[r], comms[r])
		}(r)
	}
	for i := 0; i < numRanks; i++ {
		require.NoError(t, <-errs)
	}

	west, east := tiles[0], tiles[1]

	for fi, wf := range west.Fields() {
		ef := east.Fields()[fi]
		for y := 0; y < west.NumY; y++ {
			localY := y + west.StartY
			got := wf[west.Index(west.DimX-1, localY)]
			want := ef[east.Index(1, localY)]
			assert.Equalf(t, want, got, "field %d row %d: west's east ghost does not match east's owned column", fi, y)
		}
	}
}
