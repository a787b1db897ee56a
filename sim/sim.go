// Package sim drives a simulation: it owns the world, the generator, the
// optional terrain and the telemetry, and advances them in fixed ticks.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/rng"
	"github.com/pthm-cable/habitat/systems"
	"github.com/pthm-cable/habitat/telemetry"
	"github.com/pthm-cable/habitat/terrain"
	"github.com/pthm-cable/habitat/world"
)

// Speed limits for SetSpeed.
const (
	MinSpeed = 1
	MaxSpeed = 10
)

// Options configures a Sim beyond its config file.
type Options struct {
	LogStats    bool   // log window and perf stats via slog
	OutputDir   string // CSV logs and config snapshot; empty disables output
	SnapshotDir string // snapshots saved on bookmarks; empty disables them

	// StatsCallback is called with each flushed window, if set.
	StatsCallback func(telemetry.WindowStats)
}

// Sim holds the complete simulation state.
type Sim struct {
	cfg  config.Config
	opts Options

	world    *world.World
	rng      *rng.RNG
	terrain  *terrain.Terrain // nil when terrain is disabled
	pipeline *systems.Pipeline
	ctx      systems.Context

	// Telemetry
	collector     *telemetry.Collector
	hallOfFame    *telemetry.HallOfFame // nil when disabled
	bookmarks     *telemetry.BookmarkDetector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager // nil when output is disabled

	// State
	tick   int32
	paused bool
	speed  int // ticks per Step, MinSpeed to MaxSpeed
}

// New validates cfg and builds a simulation with its initial population.
// cfg is copied; later changes to it do not affect the Sim.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	if cfg == nil {
		return nil, errors.New("sim: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:      *cfg,
		opts:     opts,
		rng:      rng.New(cfg.Simulation.Seed),
		pipeline: systems.NewPipeline(systems.NewSystemRegistry()),
		speed:    cfg.Simulation.Speed,
	}
	s.cfg.ComputeDerived()

	tel := s.cfg.Telemetry
	s.collector = telemetry.NewCollector(tel.StatsWindow, s.cfg.Derived.DT32, tel.EventLogSize)
	s.perfCollector = telemetry.NewPerfCollector(tel.PerfCollectorWindow)
	s.resetTelemetry()

	if err := s.buildTerrain(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := om.WriteConfig(&s.cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.outputManager = om

	s.world = world.New()
	s.bindContext()
	s.spawnInitialPopulation()

	return s, nil
}

// buildTerrain regenerates the terrain for the current seed.
func (s *Sim) buildTerrain() error {
	s.terrain = nil
	if !s.cfg.Terrain.Enabled {
		return nil
	}
	t, err := terrain.New(s.cfg.TerrainParams(), s.cfg.Derived.WorldSize32)
	if err != nil {
		return fmt.Errorf("sim: generating terrain: %w", err)
	}
	s.terrain = t
	return nil
}

// bindContext points the systems context at the current world and terrain.
func (s *Sim) bindContext() {
	s.ctx = systems.Context{
		World:        s.world,
		RNG:          s.rng,
		Terrain:      s.terrain,
		BiomeEffects: s.terrain != nil && s.cfg.Terrain.BiomeEffects,
		HalfSize:     s.cfg.Derived.HalfSize32,
		Tick:         s.tick,
		Recorder:     s.collector,
	}
}

// resetTelemetry starts fresh windows, bookmarks and hall of fame at the
// current tick.
func (s *Sim) resetTelemetry() {
	s.collector.Reset(s.tick)
	s.bookmarks = telemetry.NewBookmarkDetector(s.cfg.Telemetry.BookmarkHistorySize, s.cfg.Bookmarks)
	s.hallOfFame = nil
	if s.cfg.HallOfFame.Enabled {
		s.hallOfFame = telemetry.NewHallOfFame(s.cfg.HallOfFame)
	}
	s.collector.SetHallOfFame(s.hallOfFame)
}

// Step runs speed ticks unless paused. It returns the number of ticks run.
func (s *Sim) Step() int {
	if s.paused {
		return 0
	}
	for i := 0; i < s.speed; i++ {
		s.tickOnce()
	}
	return s.speed
}

// Advance runs n ticks regardless of pause state.
func (s *Sim) Advance(n int) {
	for i := 0; i < n; i++ {
		s.tickOnce()
	}
}

// tickOnce runs the systems, advances the tick and flushes telemetry.
func (s *Sim) tickOnce() {
	s.perfCollector.StartTick()

	s.ctx.Tick = s.tick
	s.pipeline.Run(&s.ctx, s.cfg.Derived.DT32, s.perfCollector)
	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// Pause stops Step from advancing the simulation.
func (s *Sim) Pause() {
	s.paused = true
}

// Resume lets Step advance the simulation again.
func (s *Sim) Resume() {
	s.paused = false
}

// Paused reports whether the simulation is paused.
func (s *Sim) Paused() bool {
	return s.paused
}

// SetSpeed sets the ticks run per Step, clamped to [MinSpeed, MaxSpeed].
// It returns the speed in effect.
func (s *Sim) SetSpeed(speed int) int {
	s.speed = max(MinSpeed, min(MaxSpeed, speed))
	return s.speed
}

// Speed returns the ticks run per Step.
func (s *Sim) Speed() int {
	return s.speed
}

// Reset discards the world and starts over from seed: the generator,
// terrain, telemetry and initial population are all rebuilt. Pause state
// and speed are kept.
func (s *Sim) Reset(seed int64) error {
	s.cfg.Simulation.Seed = seed
	s.cfg.ComputeDerived()

	if err := s.buildTerrain(); err != nil {
		return err
	}

	s.rng.Seed(seed)
	s.tick = 0
	s.world = world.New()
	s.resetTelemetry()
	s.bindContext()
	s.spawnInitialPopulation()

	slog.Info("simulation reset", "seed", seed, "population", s.world.Count())
	return nil
}

// Tick returns the number of ticks run so far.
func (s *Sim) Tick() int32 {
	return s.tick
}

// Seed returns the seed the simulation was last built or reset with.
func (s *Sim) Seed() int64 {
	return s.cfg.Simulation.Seed
}

// Config returns the simulation's effective configuration.
func (s *Sim) Config() *config.Config {
	return &s.cfg
}

// World returns the entity store. Callers must not mutate it while a tick
// is running.
func (s *Sim) World() *world.World {
	return s.world
}

// Terrain returns the terrain, or nil when it is disabled.
func (s *Sim) Terrain() *terrain.Terrain {
	return s.terrain
}

// Collector returns the telemetry collector.
func (s *Sim) Collector() *telemetry.Collector {
	return s.collector
}

// HallOfFame returns the hall of fame, or nil when it is disabled.
func (s *Sim) HallOfFame() *telemetry.HallOfFame {
	return s.hallOfFame
}

// Close writes the hall of fame and closes output files.
func (s *Sim) Close() error {
	if err := s.outputManager.WriteHallOfFame(s.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return s.outputManager.Close()
}
