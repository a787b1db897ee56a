package world

import (
	"slices"

	"github.com/pthm-cable/habitat/components"
)

// Tables holds one map per component type, keyed by entity id.
type Tables struct {
	Position     map[EntityID]components.Position     `json:"position"`
	Altitude     map[EntityID]components.Altitude     `json:"altitude"`
	Species      map[EntityID]components.Species      `json:"species"`
	Hunger       map[EntityID]components.Hunger       `json:"hunger"`
	Age          map[EntityID]components.Age          `json:"age"`
	Health       map[EntityID]components.Health       `json:"health"`
	Behavior     map[EntityID]components.Behavior     `json:"behavior"`
	VillageID    map[EntityID]components.VillageID    `json:"villageId"`
	Reproduction map[EntityID]components.Reproduction `json:"reproduction"`
	Energy       map[EntityID]components.Energy       `json:"energy"`
}

// Snapshot is a full dump of the store.
type Snapshot struct {
	NextID     EntityID   `json:"next_id"`
	Entities   []EntityID `json:"entities"`
	Components Tables     `json:"components"`
}

func newTables() Tables {
	return Tables{
		Position:     make(map[EntityID]components.Position),
		Altitude:     make(map[EntityID]components.Altitude),
		Species:      make(map[EntityID]components.Species),
		Hunger:       make(map[EntityID]components.Hunger),
		Age:          make(map[EntityID]components.Age),
		Health:       make(map[EntityID]components.Health),
		Behavior:     make(map[EntityID]components.Behavior),
		VillageID:    make(map[EntityID]components.VillageID),
		Reproduction: make(map[EntityID]components.Reproduction),
		Energy:       make(map[EntityID]components.Energy),
	}
}

// Serialize dumps the id set and every component table. The snapshot shares
// no memory with the world.
func (w *World) Serialize() Snapshot {
	s := Snapshot{
		NextID:     w.nextID,
		Entities:   w.IDs(),
		Components: newTables(),
	}

	for _, id := range s.Entities {
		b, _ := w.Components(id)
		t := &s.Components
		if b.Position != nil {
			t.Position[id] = *b.Position
		}
		if b.Altitude != nil {
			t.Altitude[id] = *b.Altitude
		}
		if b.Species != nil {
			t.Species[id] = *b.Species
		}
		if b.Hunger != nil {
			t.Hunger[id] = *b.Hunger
		}
		if b.Age != nil {
			t.Age[id] = *b.Age
		}
		if b.Health != nil {
			t.Health[id] = *b.Health
		}
		if b.Behavior != nil {
			t.Behavior[id] = *b.Behavior
		}
		if b.VillageID != nil {
			t.VillageID[id] = *b.VillageID
		}
		if b.Reproduction != nil {
			t.Reproduction[id] = *b.Reproduction
		}
		if b.Energy != nil {
			t.Energy[id] = *b.Energy
		}
	}
	return s
}

// Deserialize clears the world and restores the snapshot. Component entries
// for ids missing from the entity list are ignored. Id allocation resumes
// past both the recorded next id and the largest restored id.
func (w *World) Deserialize(s Snapshot) {
	w.clear()

	ids := slices.Clone(s.Entities)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	t := s.Components
	next := s.NextID
	for _, id := range ids {
		var b components.Bundle
		if v, ok := t.Position[id]; ok {
			b.Position = &v
		}
		if v, ok := t.Altitude[id]; ok {
			b.Altitude = &v
		}
		if v, ok := t.Species[id]; ok {
			b.Species = &v
		}
		if v, ok := t.Hunger[id]; ok {
			b.Hunger = &v
		}
		if v, ok := t.Age[id]; ok {
			b.Age = &v
		}
		if v, ok := t.Health[id]; ok {
			b.Health = &v
		}
		if v, ok := t.Behavior[id]; ok {
			b.Behavior = &v
		}
		if v, ok := t.VillageID[id]; ok {
			b.VillageID = &v
		}
		if v, ok := t.Reproduction[id]; ok {
			b.Reproduction = &v
		}
		if v, ok := t.Energy[id]; ok {
			b.Energy = &v
		}
		w.spawn(id, &b)

		if id >= next {
			next = id + 1
		}
	}

	if next == 0 {
		next = 1
	}
	w.nextID = next
}
