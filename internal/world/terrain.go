package world

// CellType is the terrain kind of a cell.
type CellType uint8

const (
	Grass CellType = iota
	Dirt
	Tree
	River
	Water
	MediumWater
	DeepWater
	Sand
	Snow
	Mountain
	MediumMountain
	HighMountain
	Tundra
	ShallowWater
	Ice
	Cliff
	MediumCliff
	Lake

	numCellTypes
)

// AllCellTypes lists every terrain kind in declaration order.
func AllCellTypes() []CellType {
	types := make([]CellType, numCellTypes)
	for i := range types {
		types[i] = CellType(i)
	}
	return types
}

var cellTypeNames = [numCellTypes]string{
	Grass:          "Grass",
	Dirt:           "Dirt",
	Tree:           "Tree",
	River:          "River",
	Water:          "Water",
	MediumWater:    "MediumWater",
	DeepWater:      "DeepWater",
	Sand:           "Sand",
	Snow:           "Snow",
	Mountain:       "Mountain",
	MediumMountain: "MediumMountain",
	HighMountain:   "HighMountain",
	Tundra:         "Tundra",
	ShallowWater:   "ShallowWater",
	Ice:            "Ice",
	Cliff:          "Cliff",
	MediumCliff:    "MediumCliff",
	Lake:           "Lake",
}

// Traversal cost for pathing consumers. Generation never reads these.
var cellTypeWeights = [numCellTypes]int{
	Grass:          1,
	Dirt:           1,
	Tree:           5,
	River:          6,
	Water:          5,
	MediumWater:    10,
	DeepWater:      20,
	Sand:           2,
	Snow:           2,
	Mountain:       100,
	MediumMountain: 200,
	HighMountain:   300,
	Tundra:         2,
	ShallowWater:   2,
	Ice:            3,
	Cliff:          5,
	MediumCliff:    5,
	Lake:           5,
}

// String returns a human-readable name for a terrain type.
func (t CellType) String() string {
	if t < numCellTypes {
		return cellTypeNames[t]
	}
	return "Unknown"
}

// Weight returns the traversal cost of the terrain type.
func (t CellType) Weight() int {
	if t < numCellTypes {
		return cellTypeWeights[t]
	}
	return 0
}

// IsWater reports whether a river reaching this type has found a body of water.
// River itself is not included: rivers may merge and keep flowing.
func (t CellType) IsWater() bool {
	switch t {
	case Lake, Water, ShallowWater, MediumWater, DeepWater:
		return true
	}
	return false
}

// IsRiverSource reports whether a river walk may start on this type.
func (t CellType) IsRiverSource() bool {
	switch t {
	case Cliff, MediumCliff, Mountain, MediumMountain, HighMountain:
		return true
	}
	return false
}

// ParseCellType looks a terrain type up by name.
func ParseCellType(name string) (CellType, bool) {
	for i, n := range cellTypeNames {
		if n == name {
			return CellType(i), true
		}
	}
	return 0, false
}
