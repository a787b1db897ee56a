package sim

import (
	"fmt"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/traits"
	"github.com/pthm-cable/habitat/world"
)

// projectionTypes are the components an entity needs to be projected.
var projectionTypes = []components.Type{
	components.TypePosition,
	components.TypeSpecies,
	components.TypeHunger,
	components.TypeAge,
}

// EntityView is the read-only projection of an entity for presentation.
type EntityView struct {
	ID         uint32               `json:"id"`
	Species    components.Kind      `json:"species"`
	Position   components.Position  `json:"position"`
	Age        float32              `json:"age"`
	Hunger     float32              `json:"hunger"`
	Behavior   *components.Activity `json:"behavior,omitempty"`
	Health     *float32             `json:"health,omitempty"`
	Altitude   *float32             `json:"altitude,omitempty"`
	VillageID  *string              `json:"villageId,omitempty"`
	Experience int                  `json:"experience"`
	Traits     []string             `json:"traits"`
}

// Entities projects every entity with a position, species, hunger and age,
// in ascending id order.
func (s *Sim) Entities() []EntityView {
	ids := s.world.Query(projectionTypes...)
	out := make([]EntityView, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.world.Components(id); ok {
			out = append(out, s.project(id, &b))
		}
	}
	return out
}

// Entity projects a single entity.
func (s *Sim) Entity(id uint32) (EntityView, error) {
	eid := world.EntityID(id)
	if !s.world.Mask(eid).Contains(components.MaskOf(projectionTypes...)) {
		return EntityView{}, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	b, _ := s.world.Components(eid)
	return s.project(eid, &b), nil
}

func (s *Sim) project(id world.EntityID, b *components.Bundle) EntityView {
	v := EntityView{
		ID:         uint32(id),
		Species:    b.Species.Kind,
		Position:   *b.Position,
		Age:        b.Age.Value,
		Hunger:     b.Hunger.Value,
		Experience: int(b.Age.Value / 10),
		Traits:     traits.Derive(s.cfg.Simulation.Seed, uint32(id), b.Species.Kind).Names(),
	}
	if b.Behavior != nil {
		a := b.Behavior.Current
		v.Behavior = &a
	}
	if b.Health != nil {
		h := b.Health.Current
		v.Health = &h
	}
	if b.Altitude != nil {
		alt := b.Altitude.Value
		v.Altitude = &alt
	}
	if b.VillageID != nil && b.VillageID.ID != nil {
		vid := *b.VillageID.ID
		v.VillageID = &vid
	}
	return v
}

// PopulationMetrics counts living entities.
type PopulationMetrics struct {
	Total     int            `json:"total"`
	BySpecies map[string]int `json:"bySpecies"`
}

// Metrics is the reporting summary of the simulation. Births, deaths and
// discoveries count events in the current, unflushed stats window.
type Metrics struct {
	Tick        int32             `json:"tick"`
	Population  PopulationMetrics `json:"population"`
	Births      int               `json:"births"`
	Deaths      int               `json:"deaths"`
	Discoveries int               `json:"discoveries"`
	MeanAge     float64           `json:"meanAge"`
	MeanHunger  float64           `json:"meanHunger"`
}

// Metrics summarizes the current population and window counters.
func (s *Sim) Metrics() Metrics {
	pop := s.world.PopulationBySpecies()
	bySpecies := make(map[string]int, len(pop))
	for _, k := range components.Kinds {
		bySpecies[k.String()] = pop[k]
	}

	births, deaths, discoveries := s.collector.WindowCounts()
	return Metrics{
		Tick: s.tick,
		Population: PopulationMetrics{
			Total:     s.world.Count(),
			BySpecies: bySpecies,
		},
		Births:      births,
		Deaths:      deaths,
		Discoveries: discoveries,
		MeanAge:     s.world.MeanAge(),
		MeanHunger:  s.world.MeanHunger(),
	}
}
