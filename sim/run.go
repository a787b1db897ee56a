package sim

import (
	"context"
	"log/slog"
	"time"
)

// pausePoll is how often an unpaced Run rechecks a paused simulation.
const pausePoll = 50 * time.Millisecond

// Run advances the simulation on the configured tick interval until ctx is
// cancelled or maxTicks ticks have run (0 means no limit). Each interval
// runs one Step, so speed multiplies the tick rate; paused intervals run
// nothing. A zero interval runs steps back to back. Cancellation is only
// observed between ticks. Run returns ctx.Err() when cancelled and nil
// when maxTicks is reached.
//
// A Sim is not safe for concurrent use. Options callbacks run on Run's
// goroutine and may issue commands.
func (s *Sim) Run(ctx context.Context, maxTicks int32) error {
	interval := time.Duration(s.cfg.Simulation.TickIntervalMS) * time.Millisecond

	slog.Info("starting simulation",
		"seed", s.cfg.Simulation.Seed,
		"population", s.world.Count(),
		"terrain", s.terrain != nil,
		"tick_interval", interval,
		"speed", s.speed,
		"max_ticks", maxTicks,
	)

	if interval <= 0 {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if s.paused {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(pausePoll):
				}
				continue
			}
			if s.stepUntil(ctx, maxTicks) {
				return nil
			}
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.stepUntil(ctx, maxTicks) {
				return nil
			}
		}
	}
}

// stepUntil runs one Step, stopping early at maxTicks or on cancellation.
// It reports whether maxTicks has been reached.
func (s *Sim) stepUntil(ctx context.Context, maxTicks int32) bool {
	if s.paused {
		return false
	}
	for i := 0; i < s.speed; i++ {
		if maxTicks > 0 && s.tick >= maxTicks {
			break
		}
		if ctx.Err() != nil {
			return false
		}
		s.tickOnce()
	}
	if maxTicks > 0 && s.tick >= maxTicks {
		slog.Info("max ticks reached", "tick", s.tick)
		return true
	}
	return false
}
