// Package tile owns the ghost-bordered per-rank grid: the nine D2Q9
// distribution channels, the five macroscopic/derived scalar fields
// (density, velocity_x, velocity_y, vorticity, speed), and the barrier
// mask. All fourteen float64 fields are sliced out of one backing
// allocation to keep them close together in cache, the way the source
// program bundles its arrays.
package tile

// Tile is the memory a single rank owns: a dim_x x dim_y array (interior
// cells plus whatever ghost border its neighbors require), row-major,
// index(x,y) = y*DimX + x.
type Tile struct {
	DimX, DimY       int
	StartX, StartY   int
	NumX, NumY       int
	OffsetX, OffsetY int

	backing []float64

	F0, FN, FE, FS, FW     []float64
	FNE, FNW, FSE, FSW     []float64
	Density                []float64
	VelocityX, VelocityY   []float64
	Vorticity, Speed       []float64

	Barrier []bool
}

// numScalarFields is the count of float64 fields bundled into Tile.backing:
// nine distribution channels, density, velocity_x, velocity_y, vorticity,
// speed.
const numScalarFields = 14

// New allocates a tile of the given ghosted dimensions. dimX/dimY are the
// already-ghost-inflated extents (internal/decomp.Layout.DimX/DimY);
// startX/startY, numX/numY and offsetX/offsetY are carried through
// unchanged for the kernels and halo engine to consult.
func New(dimX, dimY, startX, startY, numX, numY, offsetX, offsetY int) *Tile {
	size := dimX * dimY
	backing := make([]float64, numScalarFields*size)

	t := &Tile{
		DimX: dimX, DimY: dimY,
		StartX: startX, StartY: startY,
		NumX: numX, NumY: numY,
		OffsetX: offsetX, OffsetY: offsetY,
		backing: backing,
		Barrier: make([]bool, size),
	}

	t.F0 = backing[0*size : 1*size]
	t.FN = backing[1*size : 2*size]
	t.FE = backing[2*size : 3*size]
	t.FS = backing[3*size : 4*size]
	t.FW = backing[4*size : 5*size]
	t.FNE = backing[5*size : 6*size]
	t.FNW = backing[6*size : 7*size]
	t.FSE = backing[7*size : 8*size]
	t.FSW = backing[8*size : 9*size]
	t.Density = backing[9*size : 10*size]
	t.VelocityX = backing[10*size : 11*size]
	t.VelocityY = backing[11*size : 12*size]
	t.Vorticity = backing[12*size : 13*size]
	t.Speed = backing[13*size : 14*size]

	return t
}

// Index returns the flat backing-array offset for local cell (x, y).
func (t *Tile) Index(x, y int) int {
	return y*t.DimX + x
}

// Fields returns the twelve fields participating in halo exchange, in a
// fixed order: the nine distribution channels followed by density,
// velocity_x, velocity_y.
func (t *Tile) Fields() [12][]float64 {
	return [12][]float64{
		t.F0, t.FN, t.FE, t.FS, t.FW, t.FNE, t.FNW, t.FSE, t.FSW,
		t.Density, t.VelocityX, t.VelocityY,
	}
}
