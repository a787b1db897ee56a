package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/rng"
	"github.com/pthm-cable/habitat/telemetry"
	"github.com/pthm-cable/habitat/terrain"
	"github.com/pthm-cable/habitat/world"
)

// Wander tuning.
const (
	exhaustedEnergy = 0.1
	tiredEnergy     = 0.2
	restCooldown    = 60
	hungerDrive     = 0.7

	activityChangeChance = 0.1
	headingPersistence   = 0.8
	newTargetChance      = 0.05
	minTargetDistance    = 10
	arrivalDistance      = 1
)

var wanderTypes = []components.Type{components.TypePosition, components.TypeBehavior, components.TypeEnergy}

// Wander re-evaluates each entity's activity and moves it, spending energy.
// Exhausted entities rest in place and entities in a behavior cooldown wait
// it out.
func Wander(ctx *Context, dt float32) {
	ctx.World.ForEach(wanderTypes, func(id world.EntityID, b *components.Bundle) {
		pos, behavior, energy := b.Position, b.Behavior, b.Energy

		if energy.Current <= exhaustedEnergy {
			behavior.Current = components.Resting
			return
		}

		if behavior.Cooldown > 0 {
			behavior.Cooldown -= dt
			if behavior.Cooldown < 0 {
				behavior.Cooldown = 0
			}
			return
		}

		species := world.Get[components.Species](ctx.World, id)
		hunger := world.Get[components.Hunger](ctx.World, id)

		chooseActivity(ctx.RNG, behavior, species, hunger, energy)
		move(ctx, id, pos, behavior, species, dt)

		energy.Current = clamp01(energy.Current - energy.Consumption*dt)
	})
}

// chooseActivity applies need-driven overrides, otherwise occasionally picks
// a new activity from the species pool.
func chooseActivity(r *rng.RNG, behavior *components.Behavior, species *components.Species, hunger *components.Hunger, energy *components.Energy) {
	if species == nil {
		return
	}

	var hungerLevel float32
	if hunger != nil {
		hungerLevel = hunger.Value
	}

	if energy.Current < tiredEnergy {
		behavior.Current = components.Resting
		behavior.Cooldown = restCooldown
		return
	}

	if hungerLevel > hungerDrive {
		behavior.Current = species.Kind.ForageActivity(hungerLevel)
		return
	}

	if r.Bool(activityChangeChance) {
		behavior.Current = rng.Element(r, species.Kind.Params().Activities)
	}
}

// move steps toward the current target, or along a persistent heading when
// there is none, then clamps to the world and occasionally picks a target.
func move(ctx *Context, id world.EntityID, pos *components.Position, behavior *components.Behavior, species *components.Species, dt float32) {
	kind := components.Herbivore
	if species != nil {
		kind = species.Kind
	}
	params := kind.Params()

	step := params.BaseSpeed * dt * behavior.Current.MovementFactor()
	if ctx.biomes() {
		step *= terrain.Data(ctx.Terrain.BiomeAt(pos.X, pos.Y)).MovementSpeed
	}
	if step <= 0 {
		return
	}

	x, y := pos.X, pos.Y
	if behavior.Target != nil {
		dx := behavior.Target.X - pos.X
		dy := behavior.Target.Y - pos.Y
		d := distance(0, 0, dx, dy)

		if d > arrivalDistance {
			x += dx / d * step
			y += dy / d * step
		} else {
			behavior.Target = nil
			if behavior.Current == components.Exploring {
				ctx.record(telemetry.NewDiscoveryEvent(0, uint32(id), kind))
			}
		}
	} else {
		angle := ctx.RNG.Float32(0, twoPi)
		if !behavior.HasHeading || !ctx.RNG.Bool(headingPersistence) {
			behavior.Heading = angle
			behavior.HasHeading = true
		}
		x += cos32(behavior.Heading) * step
		y += sin32(behavior.Heading) * step
	}

	pos.X = ctx.clampToWorld(x)
	pos.Y = ctx.clampToWorld(y)

	if ctx.Terrain != nil {
		if alt := world.Get[components.Altitude](ctx.World, id); alt != nil {
			alt.Value = ctx.Terrain.HeightAt(pos.X, pos.Y)
		}
	}

	if behavior.Target == nil && ctx.RNG.Bool(newTargetChance) {
		angle := ctx.RNG.Float32(0, twoPi)
		d := ctx.RNG.Float32(minTargetDistance, params.WanderRadius)
		behavior.Target = &components.Position{
			X: ctx.clampToWorld(pos.X + cos32(angle)*d),
			Y: ctx.clampToWorld(pos.Y + sin32(angle)*d),
		}
	}
}
