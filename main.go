package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/inspector"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/world"
)

// stopTick returns the absolute tick at which a run that advances n more
// ticks from current should stop. 0 means unlimited.
func stopTick(current int32, n int) int32 {
	if n <= 0 {
		return 0
	}
	return current + int32(n)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	restorePath := flag.String("restore", "", "Resume from a snapshot file")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N more ticks, counted from the restored tick (0 = unlimited)")
	speed := flag.Int("speed", 0, "Ticks per step, 1-10 (0 = use config)")
	fast := flag.Bool("fast", false, "Ignore the tick interval and run as fast as possible")
	inspectOldest := flag.Int("inspect-oldest", 0, "Print the N oldest living entities on exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := *config.Cfg()

	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *speed > 0 {
		cfg.Simulation.Speed = *speed
	}
	if *fast {
		cfg.Simulation.TickIntervalMS = 0
	}

	s, err := sim.New(&cfg, sim.Options{
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	if *restorePath != "" {
		if err := s.RestoreFile(*restorePath); err != nil {
			slog.Error("failed to restore snapshot", "path", *restorePath, "error", err)
			s.Close()
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = s.Run(ctx, stopTick(s.Tick(), *maxTicks))
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation stopped", "error", err)
	}

	m := s.Metrics()
	totals := s.Collector().Totals()
	slog.Info("simulation finished",
		"tick", s.Tick(),
		"population", m.Population.Total,
		"by_species", m.Population.BySpecies,
		"births", totals.Births,
		"deaths", totals.Deaths,
		"discoveries", totals.Discoveries,
	)

	if *snapshotDir != "" {
		if _, err := s.SaveSnapshot(nil); err != nil {
			slog.Error("failed to save final snapshot", "error", err)
		}
	}

	if *inspectOldest > 0 {
		ins := inspector.New(os.Stderr)
		for _, id := range s.Collector().Lifetimes().Oldest(*inspectOldest) {
			b, ok := s.World().Components(world.EntityID(id))
			if !ok {
				continue
			}
			if err := ins.Print(id, b); err != nil {
				slog.Error("failed to print entity", "id", id, "error", err)
			}
		}
	}

	if err := s.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
