package terrain

import (
	"fmt"
	"strings"
)

// Biome classifies a terrain cell.
type Biome uint8

const (
	Water Biome = iota
	Grass
	Forest
	Mountain
	Desert

	// NumBiomes is the number of biome types.
	NumBiomes
)

// String returns the display name of the biome.
func (b Biome) String() string {
	return Data(b).Name
}

// Classification thresholds.
const (
	WaterLevel    = 0.2
	MountainLevel = 0.7
)

// BiomeData holds the environmental properties of a biome.
type BiomeData struct {
	Name           string
	Color          [3]float32 // RGB in [0, 1]
	Fertility      float32    // Population capacity, 0-1
	WaterAvailable float32    // Survival support, 0-1
	MovementSpeed  float32    // Movement multiplier, 0-2
	Resources      []string
}

var biomeTable = [NumBiomes]BiomeData{
	Water: {
		Name:           "Water",
		Color:          [3]float32{0.2, 0.4, 0.8},
		Fertility:      0.3,
		WaterAvailable: 1.0,
		MovementSpeed:  0.3,
		Resources:      []string{"fish", "water"},
	},
	Grass: {
		Name:           "Grassland",
		Color:          [3]float32{0.3, 0.7, 0.2},
		Fertility:      0.8,
		WaterAvailable: 0.6,
		MovementSpeed:  1.2,
		Resources:      []string{"grass", "herbs", "small_game"},
	},
	Forest: {
		Name:           "Forest",
		Color:          [3]float32{0.1, 0.5, 0.1},
		Fertility:      0.9,
		WaterAvailable: 0.8,
		MovementSpeed:  0.8,
		Resources:      []string{"wood", "berries", "game", "herbs"},
	},
	Mountain: {
		Name:           "Mountain",
		Color:          [3]float32{0.5, 0.4, 0.3},
		Fertility:      0.2,
		WaterAvailable: 0.4,
		MovementSpeed:  0.6,
		Resources:      []string{"stone", "minerals", "mountain_herbs"},
	},
	Desert: {
		Name:           "Desert",
		Color:          [3]float32{0.8, 0.7, 0.3},
		Fertility:      0.1,
		WaterAvailable: 0.1,
		MovementSpeed:  0.9,
		Resources:      []string{"cacti", "rare_minerals"},
	},
}

// Data returns the properties of b. Unknown values fall back to Grass.
func Data(b Biome) BiomeData {
	if b >= NumBiomes {
		return biomeTable[Grass]
	}
	return biomeTable[b]
}

// Modifiers are the per-biome multipliers applied to entity needs.
type Modifiers struct {
	HungerRate        float32 // less fertile = hungrier
	EnergyConsumption float32 // harder terrain = more energy
	ReproductionRate  float32
	MovementSpeed     float32
}

// ModifiersFor derives the entity modifiers of b.
func ModifiersFor(b Biome) Modifiers {
	d := Data(b)
	return Modifiers{
		HungerRate:        1 / d.Fertility,
		EnergyConsumption: 2 - d.MovementSpeed,
		ReproductionRate:  d.Fertility * d.WaterAvailable,
		MovementSpeed:     d.MovementSpeed,
	}
}

// Describe returns a one-line human-readable description of b.
func Describe(b Biome) string {
	d := Data(b)

	fertility := "sparse"
	switch {
	case d.Fertility > 0.7:
		fertility = "very fertile"
	case d.Fertility > 0.4:
		fertility = "moderately fertile"
	}

	water := "little water"
	switch {
	case d.WaterAvailable > 0.7:
		water = "abundant water"
	case d.WaterAvailable > 0.4:
		water = "some water"
	}

	return fmt.Sprintf("%s: A %s region with %s. Resources: %s.",
		d.Name, fertility, water, strings.Join(d.Resources, ", "))
}

// Classify maps altitude, temperature and moisture (all in [0, 1]) to a biome.
// Altitude decides water and mountains before climate is considered.
func Classify(altitude, temperature, moisture float64) Biome {
	switch {
	case altitude < WaterLevel:
		return Water
	case altitude > MountainLevel:
		return Mountain
	case temperature < 0.3 && moisture > 0.6:
		return Forest
	case temperature > 0.7 && moisture < 0.3:
		return Desert
	default:
		return Grass
	}
}

// BiomeGrid is a row-major biome classification matching a heightmap.
type BiomeGrid struct {
	Width  int
	Height int
	Cells  []Biome
}

// At returns the biome of grid cell (x, y). Coordinates are clamped.
func (g *BiomeGrid) At(x, y int) Biome {
	x = clampInt(x, 0, g.Width-1)
	y = clampInt(y, 0, g.Height-1)
	return g.Cells[y*g.Width+x]
}

// Counts returns the number of cells of each biome.
func (g *BiomeGrid) Counts() [NumBiomes]int {
	var counts [NumBiomes]int
	for _, b := range g.Cells {
		if b < NumBiomes {
			counts[b]++
		}
	}
	return counts
}

// GenerateBiomes classifies every heightmap cell using hash-noise climate
// fields derived from seed.
func GenerateBiomes(hm *Heightmap, seed int64) *BiomeGrid {
	return GenerateBiomesFrom(hm,
		NewHashSource(seed+temperatureSeedOffset),
		NewHashSource(seed+moistureSeedOffset))
}

// GenerateBiomesFrom classifies every heightmap cell using the given
// temperature and moisture sources.
func GenerateBiomesFrom(hm *Heightmap, temperature, moisture Source) *BiomeGrid {
	grid := &BiomeGrid{
		Width:  hm.Width,
		Height: hm.Height,
		Cells:  make([]Biome, len(hm.Data)),
	}

	for i, altitude := range hm.Data {
		x := float64(i % hm.Width)
		y := float64(i / hm.Width)

		temp := temperature.Noise2D(x/100, y/100)*0.5 + 0.5
		moist := moisture.Noise2D(x/80, y/80)*0.5 + 0.5

		grid.Cells[i] = Classify(float64(altitude), temp, moist)
	}

	return grid
}
