package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
	"github.com/pthm-cable/habitat/world"
)

// Aging and reproduction tuning.
const (
	frailAgeRatio  = 0.7
	frailHealth    = 0.3
	frailtyScaling = 0.1

	oldAgeRespawnChance = 0.1
	oldAgeRespawnSpread = 30

	reproductionHealth   = 0.7
	reproductionHunger   = 0.4
	reproductionEnergy   = 0.5
	reproductionCooldown = 200
	reproductionCost     = 0.3
	mateSearchRadius     = 50
	offspringSpread      = 20
)

var agingTypes = []components.Type{components.TypeAge}

// Aging advances age, applies age-related health effects, removes entities
// that died of age or frailty and lets survivors try to reproduce.
//
// Health effects and the reproduction cooldown advance once per tick
// regardless of dt.
func Aging(ctx *Context, dt float32) {
	ctx.grid = NewSpatialGrid(ctx.half(), mateSearchRadius)
	ctx.grid.Rebuild(ctx.World)
	defer func() { ctx.grid = nil }()

	ctx.World.ForEach(agingTypes, func(id world.EntityID, b *components.Bundle) {
		age := b.Age
		health := world.Get[components.Health](ctx.World, id)

		age.Value += dt
		if health != nil {
			applyAgeEffects(age, health)
		}

		if cause, dead := deathCause(ctx, age, health); dead {
			pos, species := ctx.kill(id, cause)
			ctx.respawn(pos, species, oldAgeRespawnChance, oldAgeRespawnSpread, telemetry.CauseOldAgeRespawn)
			return
		}

		reproduce(ctx, id, age, health)
	})
}

func applyAgeEffects(age *components.Age, health *components.Health) {
	ratio := age.Ratio()

	switch {
	case ratio > 0.8:
		health.Current -= 0.005
	case ratio > 0.6:
		health.Current -= 0.001
	case ratio < 0.2:
		health.Current += 0.0005
	}

	health.Current = clampFloat(health.Current, 0, health.Maximum)
}

// deathCause decides whether an entity dies this tick. Reaching the maximum
// age or zero health is certain death; old and frail entities die with a
// probability that grows with age.
func deathCause(ctx *Context, age *components.Age, health *components.Health) (telemetry.Cause, bool) {
	if age.Value >= age.MaxAge {
		return telemetry.CauseOldAge, true
	}
	if health == nil {
		return 0, false
	}
	if health.Current <= 0 {
		return telemetry.CauseFrailty, true
	}

	ratio := age.Ratio()
	if ratio > frailAgeRatio && health.Current < frailHealth {
		chance := (ratio - frailAgeRatio) * frailtyScaling
		if ctx.RNG.Bool(float64(chance)) {
			return telemetry.CauseFrailty, true
		}
	}
	return 0, false
}

// reproduce produces an offspring when the entity is mature, healthy, fed,
// rested, out of cooldown and has a mature same-species mate nearby.
func reproduce(ctx *Context, id world.EntityID, age *components.Age, health *components.Health) {
	w := ctx.World

	repro := world.Get[components.Reproduction](w, id)
	if repro == nil || health == nil {
		return
	}
	if !age.Mature() {
		return
	}
	if health.Current < reproductionHealth {
		return
	}
	if hunger := world.Get[components.Hunger](w, id); hunger != nil && hunger.Value > reproductionHunger {
		return
	}
	energy := world.Get[components.Energy](w, id)
	if energy != nil && energy.Current < reproductionEnergy {
		return
	}

	if repro.Cooldown > 0 {
		repro.Cooldown--
		if repro.Cooldown < 0 {
			repro.Cooldown = 0
		}
		return
	}

	pos := world.Get[components.Position](w, id)
	species := world.Get[components.Species](w, id)
	if pos == nil || species == nil || !hasMate(ctx, id, *pos, species.Kind) {
		return
	}

	if !ctx.RNG.Bool(float64(ReproductionChance(ctx, repro.Fertility, species.Kind, *pos))) {
		return
	}

	repro.Cooldown = reproductionCooldown
	if energy != nil {
		energy.Current = clamp01(energy.Current - reproductionCost)
	}

	kind := species.Kind
	x := pos.X + ctx.RNG.Float32(-offspringSpread, offspringSpread)
	y := pos.Y + ctx.RNG.Float32(-offspringSpread, offspringSpread)
	ctx.spawn(components.Offspring(kind, x, y), telemetry.CauseReproduction, id)
}

// ReproductionChance returns the probability that an eligible pair breeds.
// With biome effects it scales fertility by the species' suitability for the
// biome under the parent.
func ReproductionChance(ctx *Context, fertility float32, kind components.Kind, pos components.Position) float32 {
	if !ctx.biomes() {
		return fertility
	}
	b := ctx.Terrain.BiomeAt(pos.X, pos.Y)
	return clamp01(fertility * (0.5 + kind.Suitability(b)))
}

// hasMate reports whether a living, mature entity of the same kind other than
// id lies within the mate search radius of pos.
func hasMate(ctx *Context, id world.EntityID, pos components.Position, kind components.Kind) bool {
	w := ctx.World
	found := false

	check := func(other world.EntityID) bool {
		if other == id || !w.Alive(other) {
			return true
		}
		op := world.Get[components.Position](w, other)
		os := world.Get[components.Species](w, other)
		oa := world.Get[components.Age](w, other)
		if op == nil || os == nil || oa == nil {
			return true
		}
		if os.Kind != kind || !oa.Mature() {
			return true
		}
		if distanceSq(pos.X, pos.Y, op.X, op.Y) <= mateSearchRadius*mateSearchRadius {
			found = true
			return false
		}
		return true
	}

	if ctx.grid != nil {
		ctx.grid.Candidates(pos.X, pos.Y, mateSearchRadius, check)
		return found
	}
	for _, other := range w.Query(components.TypePosition, components.TypeSpecies, components.TypeAge) {
		if !check(other) {
			break
		}
	}
	return found
}
