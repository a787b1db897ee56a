package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
	"github.com/pthm-cable/habitat/terrain"
	"github.com/pthm-cable/habitat/world"
)

// Hunger thresholds and effects.
const (
	starvingHunger = 0.8
	hungryHunger   = 0.5
	satedHunger    = 0.3

	feedingHungerRelief = 0.3
	feedingCooldown     = 30
	maxFeedingChance    = 0.3

	starvationRespawnChance = 0.05
	starvationRespawnSpread = 50
)

var hungerTypes = []components.Type{components.TypeHunger, components.TypeHealth, components.TypeEnergy}

// Hunger raises hunger, applies the tiered health and energy effects,
// removes starved entities and lets hungry survivors try to feed.
func Hunger(ctx *Context, dt float32) {
	ctx.World.ForEach(hungerTypes, func(id world.EntityID, b *components.Bundle) {
		hunger, health, energy := b.Hunger, b.Health, b.Energy

		hunger.Value = clamp01(hunger.Value + hunger.Rate*dt)

		switch {
		case hunger.Value > starvingHunger:
			health.Current -= 0.01 * dt
			energy.Current -= 0.02 * dt
		case hunger.Value > hungryHunger:
			health.Current -= 0.002 * dt
			energy.Current -= 0.005 * dt
		case hunger.Value < satedHunger:
			health.Current += 0.001 * dt
			energy.Current += 0.003 * dt
		}

		health.Current = clampFloat(health.Current, 0, health.Maximum)
		energy.Current = clamp01(energy.Current)

		if health.Current <= 0 {
			pos, species := ctx.kill(id, telemetry.CauseStarvation)
			ctx.respawn(pos, species, starvationRespawnChance, starvationRespawnSpread, telemetry.CauseStarvationRespawn)
			return
		}

		feed(ctx, id, hunger)
	})
}

// feed rolls against the feeding chance of a hungry entity. Entities without
// a species or position cannot feed.
func feed(ctx *Context, id world.EntityID, hunger *components.Hunger) {
	if hunger.Value < satedHunger {
		return
	}
	species := world.Get[components.Species](ctx.World, id)
	pos := world.Get[components.Position](ctx.World, id)
	if species == nil || pos == nil {
		return
	}

	if !ctx.RNG.Bool(float64(FeedingChance(ctx, species.Kind, *pos))) {
		return
	}

	hunger.Value = clamp01(hunger.Value - feedingHungerRelief)
	if behavior := world.Get[components.Behavior](ctx.World, id); behavior != nil {
		behavior.Current = components.Feeding
		behavior.Cooldown = feedingCooldown
	}
	ctx.record(telemetry.NewFeedingEvent(0, uint32(id), species.Kind))
}

// FeedingChance returns the per-tick feeding probability of kind at pos.
// Food is richer near the world center and sparser toward the edges.
func FeedingChance(ctx *Context, kind components.Kind, pos components.Position) float32 {
	chance := kind.Params().FeedingChance

	half := ctx.half()
	d := distance(0, 0, pos.X, pos.Y)
	switch {
	case d < 0.4*half:
		chance *= 1.5
	case d > 0.8*half:
		chance *= 0.5
	}

	if ctx.biomes() {
		b := ctx.Terrain.BiomeAt(pos.X, pos.Y)
		chance *= 0.5 + terrain.Data(b).Fertility
	}

	if chance > maxFeedingChance {
		chance = maxFeedingChance
	}
	return chance
}
