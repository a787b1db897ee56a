package telemetry

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step. The system phases match the system
// registry IDs.
const (
	PhaseHunger    = "hunger"
	PhaseWander    = "wander"
	PhaseAging     = "aging"
	PhaseTelemetry = "telemetry"
)

var phases = [...]string{PhaseHunger, PhaseWander, PhaseAging, PhaseTelemetry}

const numPhases = len(phases)

func phaseIndex(name string) int {
	for i, p := range phases {
		if p == name {
			return i
		}
	}
	return -1
}

// phaseTimes holds time spent in each phase during one tick.
type phaseTimes [numPhases]time.Duration

// PerfCollector times ticks and their phases over a rolling window of
// recent ticks. Time in phases it does not know is counted in the tick
// total only.
type PerfCollector struct {
	ticks  []time.Duration
	phases []phaseTimes
	next   int
	filled int

	current    phaseTimes
	tickStart  time.Time
	phaseStart time.Time
	phase      int // index into phases, or -1
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ticks:  make([]time.Duration, windowSize),
		phases: make([]phaseTimes, windowSize),
		phase:  -1,
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = phaseTimes{}
	p.phase = -1
}

// StartPhase ends the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseIndex(name)
}

// EndTick finishes the tick and records it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1

	p.ticks[p.next] = now.Sub(p.tickStart)
	p.phases[p.next] = p.current
	p.next = (p.next + 1) % len(p.ticks)
	if p.filled < len(p.ticks) {
		p.filled++
	}
}

// PerfStats summarizes the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Share of the average tick spent in each phase, in percent, indexed
	// like the phase list.
	PhasePct [numPhases]float64
}

// Pct returns the percentage of tick time spent in the named phase.
func (s PerfStats) Pct(phase string) float64 {
	if i := phaseIndex(phase); i >= 0 {
		return s.PhasePct[i]
	}
	return 0
}

// Stats computes statistics over the recorded ticks.
func (p *PerfCollector) Stats() PerfStats {
	if p.filled == 0 {
		return PerfStats{}
	}

	ticks := make([]float64, p.filled)
	var phaseSum [numPhases]float64
	for i := 0; i < p.filled; i++ {
		ticks[i] = float64(p.ticks[i])
		for j, d := range p.phases[i] {
			phaseSum[j] += float64(d)
		}
	}

	total := floats.Sum(ticks)
	s := PerfStats{
		AvgTickDuration: time.Duration(stat.Mean(ticks, nil)),
		MinTickDuration: time.Duration(floats.Min(ticks)),
		MaxTickDuration: time.Duration(floats.Max(ticks)),
	}
	if total > 0 {
		s.TicksPerSecond = float64(p.filled) * float64(time.Second) / total
		for j := range phaseSum {
			s.PhasePct[j] = phaseSum[j] / total * 100
		}
	}
	return s
}

// LogStats logs the summary, listing phases above 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for i, name := range phases {
		if pct := s.PhasePct[i]; pct > 0.1 {
			attrs = append(attrs, name+"_pct", math.Round(pct*10)/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for i, name := range phases {
		attrs = append(attrs, slog.Float64(name+"_pct", s.PhasePct[i]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	HungerPct    float64 `csv:"hunger_pct"`
	WanderPct    float64 `csv:"wander_pct"`
	AgingPct     float64 `csv:"aging_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		HungerPct:    s.PhasePct[0],
		WanderPct:    s.PhasePct[1],
		AgingPct:     s.PhasePct[2],
		TelemetryPct: s.PhasePct[3],
	}
}
