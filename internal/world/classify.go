package world

// Altitude band lower bounds, highest first.
const (
	SnowLine           = 0.85
	HighMountainLine   = 0.81
	MediumMountainLine = 0.80
	MountainLine       = 0.78
	CliffLine          = 0.65
	HighlandLine       = 0.60
	BeachLine          = 0.59
	ShoreLine          = 0.56
	WaterLine          = 0.52
	MediumWaterLine    = 0.48
)

// Secondary thresholds consulted inside the altitude bands.
const (
	MediumCliffBias = 0.95
	CliffBias       = 0.80
	BeachBias       = 0.65
	LushVegetation  = 0.6
)

// Classify derives the terrain type and relative altitude of a cell from its
// channel samples. Bands are checked from high to low altitude and the first
// match wins; relative altitude is measured from the matched band's lower
// bound, so it is never negative.
func Classify(altitude, temperature, vegetation, beach, cliff float64) (CellType, float64) {
	a := altitude
	switch {
	case a > SnowLine:
		return Snow, a - SnowLine
	case a > HighMountainLine:
		return HighMountain, a - HighMountainLine
	case a > MediumMountainLine:
		return MediumMountain, a - MediumMountainLine
	case a > MountainLine:
		return Mountain, a - MountainLine
	case a > CliffLine && cliff > MediumCliffBias:
		return MediumCliff, a - CliffLine
	case a > CliffLine && cliff > CliffBias:
		return Cliff, a - CliffLine
	case a > HighlandLine:
		return highlandTerrain(temperature, vegetation), a - HighlandLine
	case a > BeachLine && beach > BeachBias && temperature > 0.4:
		// Beach sand shades from the shore line, not its own band.
		return Sand, a - ShoreLine
	case a > ShoreLine && temperature > 0.3:
		return ShallowWater, a - ShoreLine
	case a > ShoreLine:
		return Ice, a - ShoreLine
	case a > WaterLine:
		return Water, a - WaterLine
	case a > MediumWaterLine:
		return MediumWater, a - MediumWaterLine
	}
	return DeepWater, a
}

// highlandTerrain picks the land type of the habitable band by temperature.
func highlandTerrain(temperature, vegetation float64) CellType {
	switch {
	case temperature > 0.7:
		return Sand
	case temperature > 0.5:
		return Dirt
	case temperature > 0.4:
		if vegetation > LushVegetation {
			return Tree
		}
		return Grass
	case temperature > 0.3:
		return Tundra
	}
	return Snow
}
