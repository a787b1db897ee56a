package main

import (
	"github.com/pthm-cable/habitat/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters: the
// initial species mix and population size.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "herbivore_weight", Path: "world.species_mix.herbivore", Min: 0.05, Max: 1.0, Default: 0.60},
			{Name: "predator_weight", Path: "world.species_mix.predator", Min: 0.05, Max: 1.0, Default: 0.25},
			{Name: "tribal_weight", Path: "world.species_mix.tribal", Min: 0.05, Max: 1.0, Default: 0.15},
			{Name: "initial_population", Path: "world.initial_population", Min: 100, Max: 1500, Default: 500},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and recomputes
// its derived values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.World.SpeciesMix.Herbivore = clamped[0]
	cfg.World.SpeciesMix.Predator = clamped[1]
	cfg.World.SpeciesMix.Tribal = clamped[2]
	cfg.World.InitialPopulation = int(clamped[3])

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.World.SpeciesMix.Herbivore,
		cfg.World.SpeciesMix.Predator,
		cfg.World.SpeciesMix.Tribal,
		float64(cfg.World.InitialPopulation),
	}
}
