// Package world provides the terrain grid, cell classification, and river carving.
// The grid is stored row-major; adjacency follows a hex layout addressed with
// doubled-width coordinates.
package world

// DoubledCoord is a hex position in doubled-width coordinates. Odd rows are
// shifted half a cell, so X = 2*col + row%2 and every neighbor lands on an
// integer position.
type DoubledCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FromOffset converts a storage (col, row) into doubled coordinates.
func FromOffset(col, row int) DoubledCoord {
	return DoubledCoord{X: 2*col + row%2, Y: row}
}

// Col returns the storage column.
func (d DoubledCoord) Col() int {
	return d.X / 2
}

// HexNeighborDirections defines the six neighbor offsets in doubled coordinates:
// east, north-east, north-west, west, south-west, south-east.
var HexNeighborDirections = [6]DoubledCoord{
	{X: 2, Y: 0},
	{X: 1, Y: -1},
	{X: -1, Y: -1},
	{X: -2, Y: 0},
	{X: -1, Y: 1},
	{X: 1, Y: 1},
}

// Neighbors returns the adjacent positions that lie inside a grid of
// width x height cells, i.e. within [0, 2*width) x [0, height).
// A result shorter than six means d is an edge cell.
func (d DoubledCoord) Neighbors(width, height int) []DoubledCoord {
	result := make([]DoubledCoord, 0, 6)
	for _, dir := range HexNeighborDirections {
		n := DoubledCoord{X: d.X + dir.X, Y: d.Y + dir.Y}
		if n.X < 0 || n.X >= 2*width || n.Y < 0 || n.Y >= height {
			continue
		}
		result = append(result, n)
	}
	return result
}

// Distance returns the hex distance between two doubled coordinates.
func Distance(a, b DoubledCoord) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx <= dy {
		return dy
	}
	return dy + (dx-dy)/2
}
