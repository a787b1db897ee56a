package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseHunger)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseWander)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v/%v/%v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
	if stats.Pct(PhaseHunger) <= 0 || stats.Pct(PhaseWander) <= 0 {
		t.Error("expected hunger and wander phases to be tracked")
	}
	if stats.Pct(PhaseWander) <= stats.Pct(PhaseHunger) {
		t.Errorf("wander %v%% should exceed hunger %v%%", stats.Pct(PhaseWander), stats.Pct(PhaseHunger))
	}
	if stats.Pct(PhaseAging) != 0 {
		t.Error("aging phase was never started")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAging)
		pc.EndTick()
	}

	if pc.filled != 5 {
		t.Errorf("window holds %d ticks, want 5", pc.filled)
	}
	if stats := pc.Stats(); stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_UnknownPhase(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	pc.StartPhase("render")
	time.Sleep(100 * time.Microsecond)
	pc.StartPhase(PhaseTelemetry)
	pc.EndTick()

	stats := pc.Stats()
	var sum float64
	for _, pct := range stats.PhasePct {
		sum += pct
	}
	if sum >= 100 {
		t.Errorf("phase shares sum to %v%%, unknown phase time should be excluded", sum)
	}
	if stats.Pct("render") != 0 {
		t.Error("unknown phase should report 0")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{AvgTickDuration: 1500 * time.Microsecond}
	stats.PhasePct = [numPhases]float64{20, 50, 25, 5}

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.HungerPct != 20 || row.WanderPct != 50 || row.AgingPct != 25 || row.TelemetryPct != 5 {
		t.Errorf("phase columns = %v/%v/%v/%v", row.HungerPct, row.WanderPct, row.AgingPct, row.TelemetryPct)
	}
	if stats.Pct(PhaseWander) != 50 {
		t.Errorf("Pct(wander) = %v, want 50", stats.Pct(PhaseWander))
	}
}
