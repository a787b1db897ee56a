package sim

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/world"
)

// spawnInitialPopulation creates the starting entities. Each draws a
// position and then a species. With terrain, a position is kept with
// probability equal to the species' suitability for its biome; after the
// configured number of attempts the last draw is kept regardless.
func (s *Sim) spawnInitialPopulation() {
	half := s.cfg.Derived.HalfSize32
	attempts := max(1, s.cfg.Terrain.PlacementAttempts)

	for i := 0; i < s.cfg.World.InitialPopulation; i++ {
		x := s.rng.Float32(-half, half)
		y := s.rng.Float32(-half, half)
		kind := s.rollSpecies()

		if s.terrain != nil {
			for a := 1; a < attempts; a++ {
				suit := kind.Suitability(s.terrain.BiomeAt(x, y))
				if s.rng.Bool(float64(suit)) {
					break
				}
				x = s.rng.Float32(-half, half)
				y = s.rng.Float32(-half, half)
			}
		}

		s.spawnEntity(kind, x, y)
	}
}

// rollSpecies draws a species from the configured mix.
func (s *Sim) rollSpecies() components.Kind {
	roll := s.rng.Next()
	cdf := s.cfg.Derived.SpeciesCDF
	for i, edge := range cdf {
		if roll < edge {
			return components.Kind(i)
		}
	}
	return components.Tribal
}

// spawnEntity creates an entity from its species template and starts
// tracking its lifetime. Initial entities are not births.
func (s *Sim) spawnEntity(kind components.Kind, x, y float32) world.EntityID {
	b := components.Template(kind, x, y)
	if s.terrain != nil {
		b.Altitude.Value = s.terrain.HeightAt(x, y)
	}
	id := s.world.CreateEntity(b)
	s.collector.Register(uint32(id), s.tick, kind)
	return id
}
