// Package components defines the ECS component records, species constants
// and entity templates of the simulation.
package components

// Type identifies a component table.
type Type uint8

const (
	TypePosition Type = iota
	TypeAltitude
	TypeSpecies
	TypeHunger
	TypeAge
	TypeHealth
	TypeBehavior
	TypeVillageID
	TypeReproduction
	TypeEnergy

	// NumTypes is the number of component types.
	NumTypes
)

// Mask is a set of component types.
type Mask uint16

// MaskOf builds a mask from types.
func MaskOf(types ...Type) Mask {
	var m Mask
	for _, t := range types {
		m |= 1 << t
	}
	return m
}

// Has checks if the mask contains t.
func (m Mask) Has(t Type) bool {
	return m&(1<<t) != 0
}

// Contains checks if the mask contains every type of other.
func (m Mask) Contains(other Mask) bool {
	return m&other == other
}

// Bundle holds optional values for every component type. A nil field means
// the component is absent.
type Bundle struct {
	Position     *Position     `json:"position,omitempty"`
	Altitude     *Altitude     `json:"altitude,omitempty"`
	Species      *Species      `json:"species,omitempty"`
	Hunger       *Hunger       `json:"hunger,omitempty"`
	Age          *Age          `json:"age,omitempty"`
	Health       *Health       `json:"health,omitempty"`
	Behavior     *Behavior     `json:"behavior,omitempty"`
	VillageID    *VillageID    `json:"villageId,omitempty"`
	Reproduction *Reproduction `json:"reproduction,omitempty"`
	Energy       *Energy       `json:"energy,omitempty"`
}

// Mask returns the set of components present in b.
func (b *Bundle) Mask() Mask {
	var m Mask
	set := func(present bool, t Type) {
		if present {
			m |= 1 << t
		}
	}
	set(b.Position != nil, TypePosition)
	set(b.Altitude != nil, TypeAltitude)
	set(b.Species != nil, TypeSpecies)
	set(b.Hunger != nil, TypeHunger)
	set(b.Age != nil, TypeAge)
	set(b.Health != nil, TypeHealth)
	set(b.Behavior != nil, TypeBehavior)
	set(b.VillageID != nil, TypeVillageID)
	set(b.Reproduction != nil, TypeReproduction)
	set(b.Energy != nil, TypeEnergy)
	return m
}

// Clone returns a deep copy of b that shares no pointers with it.
func (b *Bundle) Clone() Bundle {
	var c Bundle
	if b.Position != nil {
		v := *b.Position
		c.Position = &v
	}
	if b.Altitude != nil {
		v := *b.Altitude
		c.Altitude = &v
	}
	if b.Species != nil {
		v := *b.Species
		c.Species = &v
	}
	if b.Hunger != nil {
		v := *b.Hunger
		c.Hunger = &v
	}
	if b.Age != nil {
		v := *b.Age
		c.Age = &v
	}
	if b.Health != nil {
		v := *b.Health
		c.Health = &v
	}
	if b.Behavior != nil {
		v := b.Behavior.Clone()
		c.Behavior = &v
	}
	if b.VillageID != nil {
		v := b.VillageID.Clone()
		c.VillageID = &v
	}
	if b.Reproduction != nil {
		v := *b.Reproduction
		c.Reproduction = &v
	}
	if b.Energy != nil {
		v := *b.Energy
		c.Energy = &v
	}
	return c
}

// Clone returns a copy of b with its own target.
func (b Behavior) Clone() Behavior {
	if b.Target != nil {
		t := *b.Target
		b.Target = &t
	}
	return b
}

// Clone returns a copy of v with its own id string.
func (v VillageID) Clone() VillageID {
	if v.ID != nil {
		id := *v.ID
		v.ID = &id
	}
	return v
}

// Template returns a freshly born entity of kind k at (x, y).
func Template(k Kind, x, y float32) Bundle {
	p := k.Params()
	b := Bundle{
		Position: &Position{X: x, Y: y},
		Altitude: &Altitude{},
		Species:  &Species{Kind: k},
		Hunger:   &Hunger{Value: 0, Rate: p.HungerRate},
		Age:      &Age{Value: 0, MaxAge: p.MaxAge, MaturityAge: p.MaturityAge},
		Health:   &Health{Current: 1, Maximum: 1},
		Behavior: &Behavior{Current: p.InitialActivity},
		Energy:   &Energy{Current: 1, Consumption: p.EnergyConsumption},
		Reproduction: &Reproduction{
			Cooldown:  0,
			Fertility: p.Fertility,
		},
	}
	if p.HasVillage {
		b.VillageID = &VillageID{}
	}
	return b
}

// Offspring returns a newborn of kind k at (x, y): zero age, full health and
// slightly hungry.
func Offspring(k Kind, x, y float32) Bundle {
	b := Template(k, x, y)
	b.Hunger.Value = 0.2
	return b
}
