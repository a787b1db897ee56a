package terrain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned when a grid dimension is not positive.
var ErrInvalidDimensions = errors.New("terrain: grid dimensions must be positive")

// Seed offsets for the independent noise layers.
const (
	ridgeSeedOffset       = 1000
	riverSeedOffset       = 2000
	temperatureSeedOffset = 3000
	moistureSeedOffset    = 4000
)

// Config holds heightmap generation parameters.
type Config struct {
	Width       int       `yaml:"width" json:"width"`
	Height      int       `yaml:"height" json:"height"`
	Scale       float64   `yaml:"scale" json:"scale"`             // Base feature size in cells
	Octaves     int       `yaml:"octaves" json:"octaves"`         // Fractal octaves
	Persistence float64   `yaml:"persistence" json:"persistence"` // Amplitude multiplier per octave
	Lacunarity  float64   `yaml:"lacunarity" json:"lacunarity"`   // Frequency multiplier per octave
	Seed        int64     `yaml:"seed" json:"seed"`
	Noise       NoiseKind `yaml:"noise" json:"noise"`
}

// DefaultConfig returns the standard 256x256 terrain configuration.
func DefaultConfig() Config {
	return Config{
		Width:       256,
		Height:      256,
		Scale:       100,
		Octaves:     6,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Seed:        12345,
		Noise:       NoiseHash,
	}
}

// Validate reports configuration values that cannot produce a heightmap.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("terrain: scale must be positive, got %v", c.Scale)
	}
	if c.Octaves < 1 {
		return fmt.Errorf("terrain: octaves must be at least 1, got %d", c.Octaves)
	}
	return nil
}

// Heightmap is a row-major grid of elevations normalized to [0, 1].
type Heightmap struct {
	Width     int
	Height    int
	Data      []float32
	MinHeight float32
	MaxHeight float32
}

// At returns the elevation of grid cell (x, y). Coordinates are clamped.
func (h *Heightmap) At(x, y int) float32 {
	x = clampInt(x, 0, h.Width-1)
	y = clampInt(y, 0, h.Height-1)
	return h.Data[y*h.Width+x]
}

// SampleHeight returns the elevation at fractional grid coordinates, clamped
// to the grid and truncated to the containing cell.
func SampleHeight(h *Heightmap, x, y float64) float32 {
	x = math.Max(0, math.Min(float64(h.Width-1), x))
	y = math.Max(0, math.Min(float64(h.Height-1), y))
	return h.Data[int(y)*h.Width+int(x)]
}

// layers bundles the noise sources used for one heightmap.
type layers struct {
	base   Source
	ridges Source
	rivers Source
}

func newLayers(kind NoiseKind, seed int64) (layers, error) {
	base, err := NewSource(kind, seed)
	if err != nil {
		return layers{}, err
	}
	ridges, err := NewSource(kind, seed+ridgeSeedOffset)
	if err != nil {
		return layers{}, err
	}
	rivers, err := NewSource(kind, seed+riverSeedOffset)
	if err != nil {
		return layers{}, err
	}
	return layers{base: base, ridges: ridges, rivers: rivers}, nil
}

// GenerateHeightmap synthesizes fractal terrain and normalizes it to [0, 1].
func GenerateHeightmap(cfg Config) (*Heightmap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, err := newLayers(cfg.Noise, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	data := make([]float32, cfg.Width*cfg.Height)
	minH := math.Inf(1)
	maxH := math.Inf(-1)

	raw := make([]float64, len(data))
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			fx, fy := float64(x), float64(y)
			h := fractalNoise(l.base, fx, fy, cfg)
			h = shapeTerrain(l, fx, fy, cfg, h)

			raw[y*cfg.Width+x] = h
			minH = math.Min(minH, h)
			maxH = math.Max(maxH, h)
		}
	}

	// A flat grid has nothing to stretch; map the shaped value from [-1, 1]
	// into [0, 1] instead.
	heightRange := maxH - minH
	if heightRange <= 0 {
		flat := float32(math.Max(0, math.Min(1, (minH+1)/2)))
		for i := range data {
			data[i] = flat
		}
		return &Heightmap{
			Width:     cfg.Width,
			Height:    cfg.Height,
			Data:      data,
			MinHeight: flat,
			MaxHeight: flat,
		}, nil
	}

	for i, h := range raw {
		data[i] = float32((h - minH) / heightRange)
	}

	return &Heightmap{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Data:      data,
		MinHeight: 0,
		MaxHeight: 1,
	}, nil
}

// fractalNoise sums octaves of src and returns the amplitude-weighted average.
func fractalNoise(src Source, x, y float64, cfg Config) float64 {
	var value, maxValue float64
	amplitude := 1.0
	frequency := 1.0

	for i := 0; i < cfg.Octaves; i++ {
		value += src.Noise2D(x*frequency/cfg.Scale, y*frequency/cfg.Scale) * amplitude
		maxValue += amplitude
		amplitude *= cfg.Persistence
		frequency *= cfg.Lacunarity
	}

	if maxValue == 0 {
		return 0
	}
	return value / maxValue
}

// shapeTerrain applies the central valley falloff, ridge detail and river
// channels, clamping the result to [-1, 1].
func shapeTerrain(l layers, x, y float64, cfg Config, base float64) float64 {
	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height) / 2
	maxDist := math.Sqrt(cx*cx + cy*cy)

	dist := math.Sqrt((x-cx)*(x-cx) + (y-cy)*(y-cy))
	valley := 1 - math.Pow(dist/maxDist, 1.5)

	ridges := math.Abs(l.ridges.Noise2D(x/(cfg.Scale*0.3), y/(cfg.Scale*0.3))) * 0.3
	rivers := -math.Abs(l.rivers.Noise2D(x/(cfg.Scale*2), y/(cfg.Scale*2))) * 0.2

	h := base*valley + ridges + rivers
	return math.Max(-1, math.Min(1, h))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
