package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/habitat/telemetry"
	"github.com/pthm-cable/habitat/terrain"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Sim) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	events := s.collector.Events()
	stats := s.collector.Flush(s.tick, s.world)
	perfStats := s.perfCollector.Stats()

	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}

	if s.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := s.outputManager.WriteEvents(eventsSince(events, stats.WindowStartTick)); err != nil {
		slog.Error("failed to write events", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if s.opts.SnapshotDir != "" {
			bm := bm
			if _, err := s.SaveSnapshot(&bm); err != nil {
				slog.Error("failed to save snapshot", "error", err)
			}
		}
	}
}

// eventsSince returns the events at or after tick. events is oldest first.
func eventsSince(events []telemetry.Event, tick int32) []telemetry.Event {
	for i, ev := range events {
		if ev.Tick >= tick {
			return events[i:]
		}
	}
	return nil
}

// Snapshot captures everything needed to resume the simulation exactly.
// bookmark may be nil.
func (s *Sim) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	state := s.collector.State()
	snap := &telemetry.Snapshot{
		Version:      telemetry.SnapshotVersion,
		Seed:         s.cfg.Simulation.Seed,
		RNGState:     s.rng.State(),
		Tick:         s.tick,
		WorldSize:    s.cfg.Derived.WorldSize32,
		Speed:        s.speed,
		BiomeEffects: s.cfg.Terrain.BiomeEffects,
		World:        s.world.Serialize(),
		Collector:    &state,
		Bookmark:     bookmark,
	}
	if s.terrain != nil {
		tc := s.terrain.Config
		snap.Terrain = &tc
	}
	return snap
}

// SaveSnapshot writes a snapshot to the snapshot directory and returns its
// path.
func (s *Sim) SaveSnapshot(bookmark *telemetry.Bookmark) (string, error) {
	if s.opts.SnapshotDir == "" {
		return "", errors.New("sim: no snapshot directory configured")
	}
	path, err := telemetry.SaveSnapshot(s.Snapshot(bookmark), s.opts.SnapshotDir)
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
	return path, nil
}

// Restore replaces the simulation state with snap. The generator resumes
// from the recorded state and the terrain is regenerated from its recorded
// config, so the run continues exactly as the saved one would have.
// Bookmark detection and the hall of fame start over.
func (s *Sim) Restore(snap *telemetry.Snapshot) error {
	if snap == nil {
		return errors.New("sim: nil snapshot")
	}
	if snap.Version != telemetry.SnapshotVersion {
		return fmt.Errorf("sim: unsupported snapshot version %d", snap.Version)
	}
	if snap.WorldSize <= 0 {
		return fmt.Errorf("sim: snapshot world size must be positive, got %v", snap.WorldSize)
	}

	var t *terrain.Terrain
	if snap.Terrain != nil {
		var err error
		t, err = terrain.New(*snap.Terrain, snap.WorldSize)
		if err != nil {
			return fmt.Errorf("sim: regenerating terrain: %w", err)
		}
	}

	s.cfg.Simulation.Seed = snap.Seed
	s.cfg.World.Size = float64(snap.WorldSize)
	s.cfg.Terrain.Enabled = t != nil
	s.cfg.Terrain.BiomeEffects = snap.BiomeEffects
	if tc := snap.Terrain; tc != nil {
		s.cfg.Terrain.Width, s.cfg.Terrain.Height = tc.Width, tc.Height
		s.cfg.Terrain.Scale, s.cfg.Terrain.Octaves = tc.Scale, tc.Octaves
		s.cfg.Terrain.Persistence, s.cfg.Terrain.Lacunarity = tc.Persistence, tc.Lacunarity
		s.cfg.Terrain.Noise = string(tc.Noise)
		s.cfg.Terrain.SeedOffset = tc.Seed - snap.Seed
	}
	s.cfg.ComputeDerived()

	s.terrain = t
	s.rng.Seed(snap.Seed)
	s.rng.Restore(snap.RNGState)
	s.tick = snap.Tick
	if snap.Speed > 0 {
		s.SetSpeed(snap.Speed)
	}

	s.world.Deserialize(snap.World)
	s.resetTelemetry()
	if snap.Collector != nil {
		s.collector.Restore(*snap.Collector)
	}
	s.bindContext()

	slog.Info("snapshot restored", "tick", s.tick, "population", s.world.Count())
	return nil
}

// RestoreFile loads a snapshot file and restores it.
func (s *Sim) RestoreFile(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	return s.Restore(snap)
}
