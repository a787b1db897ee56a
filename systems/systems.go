// Package systems provides the per-tick systems of the simulation.
//
// Each system is a function of (Context, dt) that mutates the world in
// place. Systems visit entities in ascending id order over a snapshot taken
// at the start of their pass and draw randomness only from the context's
// generator, so identical inputs always produce identical worlds.
package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/rng"
	"github.com/pthm-cable/habitat/telemetry"
	"github.com/pthm-cable/habitat/terrain"
	"github.com/pthm-cable/habitat/world"
)

// DefaultWorldSize is the side length of the world when none is configured.
const DefaultWorldSize = 1000

// Recorder receives lifecycle events produced during a tick.
type Recorder interface {
	Record(ev telemetry.Event)
}

// Context carries everything a system needs for one tick.
type Context struct {
	World *world.World
	RNG   *rng.RNG

	// Terrain is optional. When present, spawns and moves refresh Altitude,
	// and BiomeEffects enables biome modifiers on movement, feeding and
	// reproduction.
	Terrain      *terrain.Terrain
	BiomeEffects bool

	// HalfSize bounds positions to [-HalfSize, HalfSize]. Zero means half of
	// DefaultWorldSize.
	HalfSize float32

	Tick     int32
	Recorder Recorder // optional

	grid *SpatialGrid
}

func (c *Context) half() float32 {
	if c.HalfSize > 0 {
		return c.HalfSize
	}
	return DefaultWorldSize / 2
}

func (c *Context) biomes() bool {
	return c.BiomeEffects && c.Terrain != nil
}

func (c *Context) record(ev telemetry.Event) {
	if c.Recorder == nil {
		return
	}
	ev.Tick = c.Tick
	c.Recorder.Record(ev)
}

// clampToWorld clamps a coordinate to the world bounds.
func (c *Context) clampToWorld(v float32) float32 {
	h := c.half()
	return clampFloat(v, -h, h)
}

// spawn inserts b, clamping its position to the world and sampling its
// altitude, and records the birth.
func (c *Context) spawn(b components.Bundle, cause telemetry.Cause, parent world.EntityID) world.EntityID {
	if b.Position != nil {
		b.Position.X = c.clampToWorld(b.Position.X)
		b.Position.Y = c.clampToWorld(b.Position.Y)
		if b.Altitude != nil && c.Terrain != nil {
			b.Altitude.Value = c.Terrain.HeightAt(b.Position.X, b.Position.Y)
		}
	}

	id := c.World.CreateEntity(b)
	if b.Species != nil {
		c.record(telemetry.NewBirthEvent(0, uint32(id), uint32(parent), b.Species.Kind, cause))
	}
	return id
}

// kill removes id and records the death. It returns the entity's position
// and species as they were just before removal.
func (c *Context) kill(id world.EntityID, cause telemetry.Cause) (*components.Position, *components.Species) {
	b, ok := c.World.Components(id)
	if !ok {
		return nil, nil
	}
	c.World.RemoveEntity(id)
	if b.Species != nil {
		c.record(telemetry.NewDeathEvent(0, uint32(id), b.Species.Kind, cause))
	}
	return b.Position, b.Species
}

// respawn gives a dead entity a chance of a same-species replacement within
// spread of its last position. The roll is drawn even when the entity had
// no position or species.
func (c *Context) respawn(pos *components.Position, species *components.Species, chance float64, spread float32, cause telemetry.Cause) {
	if !c.RNG.Bool(chance) || pos == nil || species == nil {
		return
	}
	x := pos.X + c.RNG.Float32(-spread, spread)
	y := pos.Y + c.RNG.Float32(-spread, spread)
	c.spawn(components.Template(species.Kind, x, y), cause, 0)
}

// PhaseTimer is notified as each system starts.
type PhaseTimer interface {
	StartPhase(phase string)
}

// runners maps system IDs to their implementations.
var runners = map[string]func(*Context, float32){
	IDHunger: Hunger,
	IDWander: Wander,
	IDAging:  Aging,
}

// Pipeline runs registered systems in registration order.
type Pipeline struct {
	ids  []string
	runs []func(*Context, float32)
}

// NewPipeline builds a pipeline from the registry. Registered systems
// without an implementation are skipped.
func NewPipeline(reg *SystemRegistry) *Pipeline {
	p := &Pipeline{}
	for _, id := range reg.IDs() {
		if run, ok := runners[id]; ok {
			p.ids = append(p.ids, id)
			p.runs = append(p.runs, run)
		}
	}
	return p
}

// IDs returns the IDs of the systems the pipeline runs, in order.
func (p *Pipeline) IDs() []string {
	return p.ids
}

// Run executes one tick. timer may be nil.
func (p *Pipeline) Run(ctx *Context, dt float32, timer PhaseTimer) {
	for i, run := range p.runs {
		if timer != nil {
			timer.StartPhase(p.ids[i])
		}
		run(ctx, dt)
	}
}

// Advance runs one tick: Hunger, then Wander, then Aging.
func Advance(ctx *Context, dt float32) {
	Hunger(ctx, dt)
	Wander(ctx, dt)
	Aging(ctx, dt)
}
