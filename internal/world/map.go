package world

import "fmt"

// Cell is a single grid position.
type Cell struct {
	Type CellType `json:"type"`

	// Altitude is the normalized altitude sample, 0.0 to 1.0. Never changes after generation.
	Altitude float64 `json:"altitude"`

	// RelativeAltitude is Altitude above the lower bound of the band that
	// classified the cell. Used for shading within a type.
	RelativeAltitude float64 `json:"relative_altitude"`
}

// Grid holds the complete terrain as a flat row-major arena.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	cells  []Cell
}

// NewGrid creates a grid of width x height zero-valued cells.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("world: invalid grid size %dx%d", width, height))
	}
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
}

// Cells exposes the backing slice in row-major order.
func (g *Grid) Cells() []Cell { return g.cells }

// InBounds returns true if (x, y) is a storage position inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Index returns the linear index for (x, y).
func (g *Grid) Index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("world: cell (%d,%d) out of range %dx%d", x, y, g.Width, g.Height))
	}
	return y*g.Width + x
}

// At returns the cell at storage position (x, y). Out-of-range access panics.
func (g *Grid) At(x, y int) *Cell {
	return &g.cells[g.Index(x, y)]
}

// AtDoubled returns the cell at a doubled-width hex position.
func (g *Grid) AtDoubled(d DoubledCoord) *Cell {
	return g.At(d.Col(), d.Y)
}

// Neighbors returns the in-bounds hex neighbors of a doubled position.
func (g *Grid) Neighbors(d DoubledCoord) []DoubledCoord {
	return d.Neighbors(g.Width, g.Height)
}

// CellCount returns the total number of cells in the grid.
func (g *Grid) CellCount() int {
	return len(g.cells)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{Width: g.Width, Height: g.Height, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, cells=%d)", g.Width, g.Height, g.CellCount())
}
