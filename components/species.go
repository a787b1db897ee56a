package components

import "github.com/pthm-cable/habitat/terrain"

// Kind identifies a species.
type Kind uint8

const (
	Herbivore Kind = iota
	Predator
	Tribal

	// NumKinds is the number of species kinds.
	NumKinds
)

// Kinds lists every species kind in order.
var Kinds = [NumKinds]Kind{Herbivore, Predator, Tribal}

// SpeciesParams are the compile-time constants of one species.
type SpeciesParams struct {
	HungerRate        float32
	MaxAge            float32
	MaturityAge       float32
	EnergyConsumption float32
	Fertility         float32
	InitialActivity   Activity

	BaseSpeed     float32 // world units per unit dt
	WanderRadius  float32 // maximum distance of a fresh wander target
	FeedingChance float32 // base per-tick feeding probability

	// Activities is the pool a new activity is drawn from when idle.
	Activities []Activity

	// Suitability biases placement and reproduction per biome, 0-1.
	Suitability [terrain.NumBiomes]float32

	HasVillage bool
}

var speciesTable = [NumKinds]SpeciesParams{
	Herbivore: {
		HungerRate:        0.008,
		MaxAge:            800,
		MaturityAge:       80,
		EnergyConsumption: 0.004,
		Fertility:         0.12,
		InitialActivity:   Foraging,
		BaseSpeed:         0.8,
		WanderRadius:      100,
		FeedingChance:     0.15,
		Activities:        []Activity{Wandering, Foraging, Socializing, Resting},
		Suitability: [terrain.NumBiomes]float32{
			terrain.Water:    0.3,
			terrain.Grass:    1.0,
			terrain.Forest:   0.8,
			terrain.Mountain: 0.1,
			terrain.Desert:   0.2,
		},
	},
	Predator: {
		HungerRate:        0.015,
		MaxAge:            600,
		MaturityAge:       60,
		EnergyConsumption: 0.008,
		Fertility:         0.08,
		InitialActivity:   Hunting,
		BaseSpeed:         1.2,
		WanderRadius:      200,
		FeedingChance:     0.05,
		Activities:        []Activity{Patrolling, Hunting, Stalking, Resting},
		Suitability: [terrain.NumBiomes]float32{
			terrain.Water:    0.2,
			terrain.Grass:    0.9,
			terrain.Forest:   1.0,
			terrain.Mountain: 0.6,
			terrain.Desert:   0.4,
		},
	},
	Tribal: {
		HungerRate:        0.01,
		MaxAge:            1200,
		MaturityAge:       120,
		EnergyConsumption: 0.003,
		Fertility:         0.06,
		InitialActivity:   Building,
		BaseSpeed:         1.0,
		WanderRadius:      150,
		FeedingChance:     0.10,
		Activities:        []Activity{Wandering, Building, Crafting, Socializing, Exploring},
		Suitability: [terrain.NumBiomes]float32{
			terrain.Water:    0.7,
			terrain.Grass:    0.8,
			terrain.Forest:   1.0,
			terrain.Mountain: 0.5,
			terrain.Desert:   0.3,
		},
		HasVillage: true,
	},
}

// Params returns the constants of k. Unknown kinds use the Herbivore table.
func (k Kind) Params() *SpeciesParams {
	if k >= NumKinds {
		return &speciesTable[Herbivore]
	}
	return &speciesTable[k]
}

// Suitability returns how well k fares in biome b, 0-1.
func (k Kind) Suitability(b terrain.Biome) float32 {
	if b >= terrain.NumBiomes {
		return 0.5
	}
	return k.Params().Suitability[b]
}

// ForageActivity returns the activity a hungry entity of kind k switches to.
func (k Kind) ForageActivity(hunger float32) Activity {
	switch k {
	case Predator:
		return Hunting
	case Tribal:
		if hunger > 0.8 {
			return Hunting
		}
		return Foraging
	default:
		return Foraging
	}
}
