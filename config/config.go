// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/habitat/terrain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	World      WorldConfig      `yaml:"world"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	HallOfFame HallOfFameConfig `yaml:"hall_of_fame"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds clock and seeding parameters.
type SimulationConfig struct {
	Seed           int64   `yaml:"seed"`
	DT             float64 `yaml:"dt"`               // Simulated seconds per tick
	TickIntervalMS int     `yaml:"tick_interval_ms"` // Wall-clock time between steps, 0 = unpaced
	Speed          int     `yaml:"speed"`            // Ticks per step
}

// WorldConfig holds world bounds and the initial population.
type WorldConfig struct {
	Size              float64          `yaml:"size"`
	InitialPopulation int              `yaml:"initial_population"`
	SpeciesMix        SpeciesMixConfig `yaml:"species_mix"`
}

// SpeciesMixConfig holds relative species weights for the initial population.
// Weights need not sum to 1.
type SpeciesMixConfig struct {
	Herbivore float64 `yaml:"herbivore"`
	Predator  float64 `yaml:"predator"`
	Tribal    float64 `yaml:"tribal"`
}

// TerrainConfig holds terrain generation and biome effect parameters.
type TerrainConfig struct {
	Enabled           bool    `yaml:"enabled"`
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	Scale             float64 `yaml:"scale"`
	Octaves           int     `yaml:"octaves"`
	Persistence       float64 `yaml:"persistence"`
	Lacunarity        float64 `yaml:"lacunarity"`
	SeedOffset        int64   `yaml:"seed_offset"`
	Noise             string  `yaml:"noise"`
	BiomeEffects      bool    `yaml:"biome_effects"`
	PlacementAttempts int     `yaml:"placement_attempts"` // Suitability draws per initial entity
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	EventLogSize        int     `yaml:"event_log_size"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PopulationCrash PopulationCrashConfig `yaml:"population_crash"`
	Recovery        RecoveryConfig        `yaml:"recovery"`
	StableEcosystem StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// PopulationCrashConfig holds population crash detection parameters.
type PopulationCrashConfig struct {
	Drop    float64 `yaml:"drop"`     // Fractional drop from the recent peak
	MinLoss int     `yaml:"min_loss"` // Minimum absolute loss
}

// RecoveryConfig holds species recovery detection parameters.
type RecoveryConfig struct {
	LowWater int     `yaml:"low_water"` // A species at or below this count is endangered
	Factor   float64 `yaml:"factor"`    // Growth over the low-water mark that counts as recovery
	MinCount int     `yaml:"min_count"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	Windows  int     `yaml:"windows"`   // Consecutive stable windows before triggering
	MaxCV    float64 `yaml:"max_cv"`    // Maximum coefficient of variation
	MinCount int     `yaml:"min_count"` // Minimum count of every surviving species
}

// HallOfFameConfig holds settings for the record of notable entities.
type HallOfFameConfig struct {
	Enabled bool                    `yaml:"enabled"`
	Size    int                     `yaml:"size"`
	Fitness HallOfFameFitnessConfig `yaml:"fitness"`
	Entry   HallOfFameEntryConfig   `yaml:"entry"`
}

// HallOfFameFitnessConfig holds fitness calculation weights.
type HallOfFameFitnessConfig struct {
	ChildrenWeight  float64 `yaml:"children_weight"`
	SurvivalWeight  float64 `yaml:"survival_weight"`
	FeedingWeight   float64 `yaml:"feeding_weight"`
	DiscoveryWeight float64 `yaml:"discovery_weight"`
}

// HallOfFameEntryConfig holds entry criteria thresholds.
type HallOfFameEntryConfig struct {
	MinChildren    int     `yaml:"min_children"`
	MinSurvivalSec float64 `yaml:"min_survival_sec"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32    // Simulation.DT as float32
	WorldSize32 float32    // World.Size as float32
	HalfSize32  float32    // Half of World.Size
	TerrainSeed int64      // Simulation.Seed + Terrain.SeedOffset
	SpeciesCDF  [3]float64 // Cumulative normalized species mix
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate reports every configuration value that would make the simulation
// fail to start.
func (c *Config) Validate() error {
	var errs []error

	if c.Simulation.DT <= 0 {
		errs = append(errs, fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT))
	}
	if c.Simulation.Speed < 1 || c.Simulation.Speed > 10 {
		errs = append(errs, fmt.Errorf("simulation.speed must be in [1, 10], got %d", c.Simulation.Speed))
	}
	if c.Simulation.TickIntervalMS < 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_interval_ms must not be negative, got %d", c.Simulation.TickIntervalMS))
	}
	if c.World.Size <= 0 {
		errs = append(errs, fmt.Errorf("world.size must be positive, got %v", c.World.Size))
	}
	if c.World.InitialPopulation < 0 {
		errs = append(errs, fmt.Errorf("world.initial_population must not be negative, got %d", c.World.InitialPopulation))
	}

	mix := c.World.SpeciesMix
	if mix.Herbivore < 0 || mix.Predator < 0 || mix.Tribal < 0 {
		errs = append(errs, errors.New("world.species_mix weights must not be negative"))
	} else if mix.Herbivore+mix.Predator+mix.Tribal <= 0 {
		errs = append(errs, errors.New("world.species_mix weights must not all be zero"))
	}

	if c.Terrain.Enabled {
		if err := c.TerrainParams().Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, err := terrain.NewSource(terrain.NoiseKind(c.Terrain.Noise), 0); err != nil {
			errs = append(errs, fmt.Errorf("terrain.noise: %w", err))
		}
	}

	if c.Telemetry.StatsWindow <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be positive, got %v", c.Telemetry.StatsWindow))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config. Call it again
// after changing fields programmatically.
func (c *Config) ComputeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.WorldSize32 = float32(c.World.Size)
	c.Derived.HalfSize32 = float32(c.World.Size / 2)
	c.Derived.TerrainSeed = c.Simulation.Seed + c.Terrain.SeedOffset

	mix := c.World.SpeciesMix
	total := mix.Herbivore + mix.Predator + mix.Tribal
	if total <= 0 {
		c.Derived.SpeciesCDF = [3]float64{1, 1, 1}
		return
	}
	c.Derived.SpeciesCDF[0] = mix.Herbivore / total
	c.Derived.SpeciesCDF[1] = (mix.Herbivore + mix.Predator) / total
	c.Derived.SpeciesCDF[2] = 1
}

// TerrainParams returns the terrain generator configuration for the current
// seed.
func (c *Config) TerrainParams() terrain.Config {
	t := c.Terrain
	return terrain.Config{
		Width:       t.Width,
		Height:      t.Height,
		Scale:       t.Scale,
		Octaves:     t.Octaves,
		Persistence: t.Persistence,
		Lacunarity:  t.Lacunarity,
		Seed:        c.Simulation.Seed + t.SeedOffset,
		Noise:       terrain.NoiseKind(t.Noise),
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
