// Package traits defines the personality traits shown for an entity.
//
// Traits are cosmetic: they are derived from an entity's species and id
// with a private generator, so computing them never disturbs the simulation.
package traits

import (
	"strings"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/rng"
)

// Trait is a set of personality traits.
type Trait uint32

const (
	// Herbivore traits
	Gentle Trait = 1 << iota
	Alert
	Social
	Cautious
	Nurturing

	// Predator traits
	Fierce
	Cunning
	Solitary
	Patient
	Territorial

	// Tribal traits
	Wise
	Cooperative
	Inventive
	Spiritual
	Protective

	numTraits = iota
)

var names = [numTraits]string{
	"Gentle", "Alert", "Social", "Cautious", "Nurturing",
	"Fierce", "Cunning", "Solitary", "Patient", "Territorial",
	"Wise", "Cooperative", "Inventive", "Spiritual", "Protective",
}

var pools = [components.NumKinds][]Trait{
	components.Herbivore: {Gentle, Alert, Social, Cautious, Nurturing},
	components.Predator:  {Fierce, Cunning, Solitary, Patient, Territorial},
	components.Tribal:    {Wise, Cooperative, Inventive, Spiritual, Protective},
}

// MaxPicks is the most traits an entity can carry.
const MaxPicks = 3

// Has checks if a trait set contains a trait.
func (t Trait) Has(other Trait) bool {
	return t&other != 0
}

// Add adds a trait to the set.
func (t Trait) Add(other Trait) Trait {
	return t | other
}

// Remove removes a trait from the set.
func (t Trait) Remove(other Trait) Trait {
	return t &^ other
}

// Count returns the number of traits in the set.
func (t Trait) Count() int {
	n := 0
	for i := 0; i < numTraits; i++ {
		if t.Has(1 << i) {
			n++
		}
	}
	return n
}

// Names returns the names of the traits in the set, in declaration order.
func (t Trait) Names() []string {
	out := make([]string, 0, MaxPicks)
	for i := 0; i < numTraits; i++ {
		if t.Has(1 << i) {
			out = append(out, names[i])
		}
	}
	return out
}

func (t Trait) String() string {
	return strings.Join(t.Names(), ",")
}

// Pool returns the traits available to a species. Unknown kinds have none.
func Pool(kind components.Kind) []Trait {
	if kind >= components.NumKinds {
		return nil
	}
	return pools[kind]
}

// seedFor mixes the world seed and an entity id into one generator seed.
func seedFor(seed int64, id uint32) int64 {
	return seed ^ int64(id)*0x9E3779B1
}

// Derive picks one to three traits for an entity. Repeated picks of the
// same trait collapse, so the result may hold fewer traits than were drawn.
// The same (seed, id, kind) always yields the same set.
func Derive(seed int64, id uint32, kind components.Kind) Trait {
	pool := Pool(kind)
	if len(pool) == 0 {
		return 0
	}

	r := rng.New(seedFor(seed, id))
	r.Next() // the first draw tracks the seed too closely

	var t Trait
	picks := r.Int(1, MaxPicks+1)
	for i := 0; i < picks; i++ {
		t = t.Add(rng.Element(r, pool))
	}
	return t
}
