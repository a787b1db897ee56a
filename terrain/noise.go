// Package terrain generates the heightmap and biome grid that form the
// read-only environmental substrate of the simulation.
package terrain

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// NoiseKind selects the coherent noise implementation.
type NoiseKind string

const (
	// NoiseHash is smoothed sine-hash value noise.
	NoiseHash NoiseKind = "hash"
	// NoiseSimplex is OpenSimplex gradient noise.
	NoiseSimplex NoiseKind = "simplex"
)

// Source produces coherent 2D noise in [-1, 1].
type Source interface {
	Noise2D(x, y float64) float64
}

// NewSource returns a noise source of the given kind. An empty kind selects
// hash noise.
func NewSource(kind NoiseKind, seed int64) (Source, error) {
	switch kind {
	case NoiseHash, "":
		return HashSource{seed: float64(seed)}, nil
	case NoiseSimplex:
		return NewSimplexSource(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

// HashSource is value noise built from a sine hash at integer lattice points
// and smoothstep interpolation between them.
type HashSource struct {
	seed float64
}

// NewHashSource creates a hash noise source.
func NewHashSource(seed int64) HashSource {
	return HashSource{seed: float64(seed)}
}

// Noise2D returns smoothed noise at (x, y).
func (h HashSource) Noise2D(x, y float64) float64 {
	return smoothNoise2D(x, y, h.seed)
}

// SimplexSource wraps OpenSimplex noise.
type SimplexSource struct {
	noise opensimplex.Noise
}

// NewSimplexSource creates an OpenSimplex noise source.
func NewSimplexSource(seed int64) SimplexSource {
	return SimplexSource{noise: opensimplex.New(seed)}
}

// Noise2D returns simplex noise at (x, y).
func (s SimplexSource) Noise2D(x, y float64) float64 {
	return s.noise.Eval2(x, y)
}

// hashNoise2D returns a pseudo-random lattice value in [-1, 1).
func hashNoise2D(x, y, seed float64) float64 {
	h := math.Sin(x*12.9898+y*78.233+seed) * 43758.5453
	return (h-math.Floor(h))*2 - 1
}

func smoothNoise2D(x, y, seed float64) float64 {
	ix := math.Floor(x)
	iy := math.Floor(y)
	fx := x - ix
	fy := y - iy

	a := hashNoise2D(ix, iy, seed)
	b := hashNoise2D(ix+1, iy, seed)
	c := hashNoise2D(ix, iy+1, seed)
	d := hashNoise2D(ix+1, iy+1, seed)

	sx := smoothstep(fx)
	sy := smoothstep(fy)

	return lerp(lerp(a, b, sx), lerp(c, d, sx), sy)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
