package sim

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/traits"
	"github.com/pthm-cable/habitat/world"
)

func TestEntitiesProjection(t *testing.T) {
	s := newSim(t, testConfig(0, false), Options{})
	w := s.World()

	b := components.Template(components.Predator, 3, 4)
	b.Age.Value = 125
	id := w.CreateEntity(b)

	partial := components.Template(components.Herbivore, 0, 0)
	partial.Hunger = nil
	hidden := w.CreateEntity(partial)

	views := s.Entities()
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	v := views[0]

	if v.ID != uint32(id) || v.Species != components.Predator {
		t.Errorf("view = %+v", v)
	}
	if v.Position != (components.Position{X: 3, Y: 4}) || v.Age != 125 {
		t.Errorf("position/age = %+v/%v", v.Position, v.Age)
	}
	if v.Experience != 12 {
		t.Errorf("experience = %d, want 12", v.Experience)
	}
	if v.Behavior == nil || *v.Behavior != components.Hunting {
		t.Errorf("behavior = %v, want Hunting", v.Behavior)
	}
	if v.Health == nil || *v.Health != 1 {
		t.Errorf("health = %v", v.Health)
	}
	if v.VillageID != nil {
		t.Errorf("predator has village %v", *v.VillageID)
	}

	want := traits.Derive(s.Seed(), uint32(id), components.Predator).Names()
	if !reflect.DeepEqual(v.Traits, want) || len(v.Traits) == 0 {
		t.Errorf("traits = %v, want %v", v.Traits, want)
	}

	state := s.rng.State()
	s.Entities()
	if s.rng.State() != state {
		t.Error("projection advanced the generator")
	}

	if got, err := s.Entity(uint32(id)); err != nil || !reflect.DeepEqual(got, v) {
		t.Errorf("Entity(%d) = %+v, %v", id, got, err)
	}
	if _, err := s.Entity(uint32(hidden)); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Entity(partial) err = %v", err)
	}
	if _, err := s.Entity(4242); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Entity(missing) err = %v", err)
	}
}

func TestMetrics(t *testing.T) {
	s := newSim(t, testConfig(100, false), Options{})
	s.Advance(7)

	m := s.Metrics()
	if m.Tick != 7 {
		t.Errorf("tick = %d", m.Tick)
	}
	if m.Population.Total != s.World().Count() {
		t.Errorf("total = %d, want %d", m.Population.Total, s.World().Count())
	}
	sum := 0
	for _, n := range m.Population.BySpecies {
		sum += n
	}
	if sum != m.Population.Total {
		t.Errorf("species sum %d != total %d", sum, m.Population.Total)
	}

	births, deaths, discoveries := s.Collector().WindowCounts()
	if m.Births != births || m.Deaths != deaths || m.Discoveries != discoveries {
		t.Errorf("metrics counters %+v do not match window counts %d/%d/%d", m, births, deaths, discoveries)
	}
	if got := 100 + m.Births - m.Deaths; got != m.Population.Total {
		t.Errorf("100 + births - deaths = %d, population %d", got, m.Population.Total)
	}

	var ids []world.EntityID
	for _, v := range s.Entities() {
		ids = append(ids, world.EntityID(v.ID))
	}
	if !reflect.DeepEqual(ids, s.World().IDs()) {
		t.Error("every template entity should be projected, in id order")
	}
}
