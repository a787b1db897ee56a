package terrain

import (
	"fmt"
	"math"
)

// Terrain pairs a heightmap and its biome grid with the square world they
// cover. World coordinates span [-WorldSize/2, WorldSize/2] on both axes.
type Terrain struct {
	Config    Config
	WorldSize float32
	Heightmap *Heightmap
	Biomes    *BiomeGrid
}

// New generates terrain for a world of the given size.
func New(cfg Config, worldSize float32) (*Terrain, error) {
	if worldSize <= 0 {
		return nil, fmt.Errorf("terrain: world size must be positive, got %v", worldSize)
	}
	hm, err := GenerateHeightmap(cfg)
	if err != nil {
		return nil, err
	}

	var biomes *BiomeGrid
	if cfg.Noise == NoiseSimplex {
		biomes = GenerateBiomesFrom(hm,
			NewSimplexSource(cfg.Seed+temperatureSeedOffset),
			NewSimplexSource(cfg.Seed+moistureSeedOffset))
	} else {
		biomes = GenerateBiomes(hm, cfg.Seed)
	}

	return &Terrain{
		Config:    cfg,
		WorldSize: worldSize,
		Heightmap: hm,
		Biomes:    biomes,
	}, nil
}

// WorldToGrid maps a world coordinate to the containing cell of a grid of
// gridSize cells spanning worldSize units centered on the origin. The result
// is clamped to [0, gridSize-1].
func WorldToGrid(world, worldSize float32, gridSize int) int {
	g := int(math.Floor(float64((world + worldSize/2) / worldSize * float32(gridSize))))
	return clampInt(g, 0, gridSize-1)
}

// GridToWorld returns the world coordinate of the center of grid cell g.
func GridToWorld(g int, worldSize float32, gridSize int) float32 {
	return (float32(g)+0.5)/float32(gridSize)*worldSize - worldSize/2
}

// HeightAt samples the heightmap at a world position.
func (t *Terrain) HeightAt(worldX, worldY float32) float32 {
	gx := WorldToGrid(worldX, t.WorldSize, t.Heightmap.Width)
	gy := WorldToGrid(worldY, t.WorldSize, t.Heightmap.Height)
	return t.Heightmap.At(gx, gy)
}

// BiomeAt samples the biome grid at a world position.
func (t *Terrain) BiomeAt(worldX, worldY float32) Biome {
	gx := WorldToGrid(worldX, t.WorldSize, t.Biomes.Width)
	gy := WorldToGrid(worldY, t.WorldSize, t.Biomes.Height)
	return t.Biomes.At(gx, gy)
}

// SampleBiomeAtPosition samples grid at a world position within a world of
// the given size.
func SampleBiomeAtPosition(grid *BiomeGrid, worldX, worldY, worldSize float32) Biome {
	gx := WorldToGrid(worldX, worldSize, grid.Width)
	gy := WorldToGrid(worldY, worldSize, grid.Height)
	return grid.At(gx, gy)
}
