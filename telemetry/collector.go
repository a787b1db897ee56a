package telemetry

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/world"
)

// Counters holds event counts for one window or for a whole run.
type Counters struct {
	BirthsByKind  [components.NumKinds]int `json:"births_by_kind"`
	DeathsByKind  [components.NumKinds]int `json:"deaths_by_kind"`
	BirthsByCause [numCauses]int           `json:"births_by_cause"`
	DeathsByCause [numCauses]int           `json:"deaths_by_cause"`
	Discoveries   int                      `json:"discoveries"`
	Feedings      int                      `json:"feedings"`
}

func (c *Counters) add(ev Event) {
	kindOK := int(ev.Kind) < len(c.BirthsByKind)
	causeOK := int(ev.Cause) < len(c.BirthsByCause)

	switch ev.Type {
	case EventBirth:
		if kindOK {
			c.BirthsByKind[ev.Kind]++
		}
		if causeOK {
			c.BirthsByCause[ev.Cause]++
		}
	case EventDeath:
		if kindOK {
			c.DeathsByKind[ev.Kind]++
		}
		if causeOK {
			c.DeathsByCause[ev.Cause]++
		}
	case EventDiscovery:
		c.Discoveries++
	case EventFeeding:
		c.Feedings++
	}
}

func (c *Counters) births() int {
	n := 0
	for _, v := range c.BirthsByKind {
		n += v
	}
	return n
}

func (c *Counters) deaths() int {
	n := 0
	for _, v := range c.DeathsByKind {
		n += v
	}
	return n
}

// Totals holds event counts since the simulation started.
type Totals struct {
	Births      int `json:"births"`
	Deaths      int `json:"deaths"`
	Discoveries int `json:"discoveries"`
	Feedings    int `json:"feedings"`
}

// Collector accumulates events within time windows and produces WindowStats.
// It implements the systems' event recorder.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	window Counters
	total  Counters

	log       *EventLog
	lifetimes *LifetimeTracker
	hof       *HallOfFame // optional
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
// logSize: number of recent events retained for Events
func NewCollector(windowDurationSec float64, dt float32, logSize int) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		log:                 NewEventLog(logSize),
		lifetimes:           NewLifetimeTracker(),
	}
}

// SetHallOfFame attaches a hall of fame that considers every death.
func (c *Collector) SetHallOfFame(hof *HallOfFame) {
	c.hof = hof
}

// HallOfFame returns the attached hall of fame, or nil.
func (c *Collector) HallOfFame() *HallOfFame {
	return c.hof
}

// Record counts ev and updates lifetime statistics.
func (c *Collector) Record(ev Event) {
	c.window.add(ev)
	c.total.add(ev)
	c.log.Add(ev)

	switch ev.Type {
	case EventBirth:
		c.lifetimes.Register(ev.EntityID, ev.Tick, ev.Kind, ev.ParentID)
		if ev.ParentID != 0 {
			c.lifetimes.RecordChild(ev.ParentID)
		}
	case EventDeath:
		stats := c.lifetimes.Remove(ev.EntityID)
		if c.hof != nil && stats != nil {
			c.hof.Consider(ev.EntityID, stats, ev.Tick, c.dt, ev.Cause)
		}
	case EventFeeding:
		c.lifetimes.RecordFeeding(ev.EntityID)
	case EventDiscovery:
		c.lifetimes.RecordDiscovery(ev.EntityID)
	}
}

// Register starts lifetime tracking for an entity that was not born through
// a recorded event, such as the initial population.
func (c *Collector) Register(entityID uint32, tick int32, kind components.Kind) {
	c.lifetimes.Register(entityID, tick, kind, 0)
}

// Forget drops lifetime tracking for an entity removed outside the systems.
func (c *Collector) Forget(entityID uint32) {
	c.lifetimes.Remove(entityID)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the window's events and the current
// world, then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, w *world.World) WindowStats {
	pop := w.PopulationBySpecies()
	hunger := ComputeDistribution(w.Hungers())
	energy := ComputeDistribution(w.Energies())

	win := c.window
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Population: w.Count(),
		Herbivores: pop[components.Herbivore],
		Predators:  pop[components.Predator],
		Tribals:    pop[components.Tribal],

		Births:           win.births(),
		Deaths:           win.deaths(),
		BirthsOffspring:  win.BirthsByCause[CauseReproduction],
		BirthsRespawn:    win.BirthsByCause[CauseStarvationRespawn] + win.BirthsByCause[CauseOldAgeRespawn],
		DeathsStarvation: win.DeathsByCause[CauseStarvation],
		DeathsOldAge:     win.DeathsByCause[CauseOldAge],
		DeathsFrailty:    win.DeathsByCause[CauseFrailty],
		HerbivoreBirths:  win.BirthsByKind[components.Herbivore],
		PredatorBirths:   win.BirthsByKind[components.Predator],
		TribalBirths:     win.BirthsByKind[components.Tribal],
		HerbivoreDeaths:  win.DeathsByKind[components.Herbivore],
		PredatorDeaths:   win.DeathsByKind[components.Predator],
		TribalDeaths:     win.DeathsByKind[components.Tribal],
		Discoveries:      win.Discoveries,
		Feedings:         win.Feedings,

		AgeMean:    w.MeanAge(),
		HungerMean: hunger.Mean,
		HungerP10:  hunger.P10,
		HungerP50:  hunger.P50,
		HungerP90:  hunger.P90,
		EnergyMean: energy.Mean,
		EnergyStd:  energy.Std,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,

		MaxGeneration: c.lifetimes.MaxGeneration(),
	}

	c.windowStartTick = currentTick
	c.window = Counters{}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

// WindowCounts returns births, deaths and discoveries recorded in the
// current, unflushed window.
func (c *Collector) WindowCounts() (births, deaths, discoveries int) {
	return c.window.births(), c.window.deaths(), c.window.Discoveries
}

// Totals returns event counts since the simulation started.
func (c *Collector) Totals() Totals {
	return Totals{
		Births:      c.total.births(),
		Deaths:      c.total.deaths(),
		Discoveries: c.total.Discoveries,
		Feedings:    c.total.Feedings,
	}
}

// Events returns the retained recent events, oldest first.
func (c *Collector) Events() []Event {
	return c.log.Recent()
}

// Lifetimes returns the lifetime tracker.
func (c *Collector) Lifetimes() *LifetimeTracker {
	return c.lifetimes
}

// CollectorState is the serializable state of a Collector.
type CollectorState struct {
	WindowStartTick int32                    `json:"window_start_tick"`
	Window          Counters                 `json:"window"`
	Total           Counters                 `json:"total"`
	Events          []Event                  `json:"events,omitempty"`
	Lifetimes       map[uint32]LifetimeStats `json:"lifetimes,omitempty"`
}

// State captures the collector for a snapshot.
func (c *Collector) State() CollectorState {
	return CollectorState{
		WindowStartTick: c.windowStartTick,
		Window:          c.window,
		Total:           c.total,
		Events:          c.log.Recent(),
		Lifetimes:       c.lifetimes.All(),
	}
}

// Restore replaces the collector's counters, event log and lifetimes. The
// window length, dt and hall of fame are kept.
func (c *Collector) Restore(s CollectorState) {
	c.windowStartTick = s.WindowStartTick
	c.window = s.Window
	c.total = s.Total
	c.log = NewEventLog(len(c.log.buf))
	for _, ev := range s.Events {
		c.log.Add(ev)
	}
	c.lifetimes.Load(s.Lifetimes)
}

// Reset clears all counters, events and lifetimes and starts a new window at
// tick.
func (c *Collector) Reset(tick int32) {
	c.Restore(CollectorState{WindowStartTick: tick})
}
