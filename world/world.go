// Package world implements the entity store: stable entity identifiers on
// top of an ark ECS world, typed component access, snapshot queries and
// serialization.
package world

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
)

// EntityID is a stable, never reused entity identifier. Unlike ark entities
// it survives serialization.
type EntityID uint32

// identity ties an ark entity to its stable id.
type identity struct {
	ID EntityID
}

// World owns every entity and its component data.
// Pointers returned by Get are valid until the next structural change
// (entity creation or removal, component add or remove).
type World struct {
	ecs *ecs.World

	ids     *ecs.Map[identity]
	idQuery *ecs.Filter1[identity]

	position     *ecs.Map[components.Position]
	altitude     *ecs.Map[components.Altitude]
	species      *ecs.Map[components.Species]
	hunger       *ecs.Map[components.Hunger]
	age          *ecs.Map[components.Age]
	health       *ecs.Map[components.Health]
	behavior     *ecs.Map[components.Behavior]
	villageID    *ecs.Map[components.VillageID]
	reproduction *ecs.Map[components.Reproduction]
	energy       *ecs.Map[components.Energy]

	index  map[EntityID]ecs.Entity
	nextID EntityID
}

// New creates an empty world.
func New() *World {
	w := ecs.NewWorld()
	return &World{
		ecs:          w,
		ids:          ecs.NewMap[identity](w),
		idQuery:      ecs.NewFilter1[identity](w),
		position:     ecs.NewMap[components.Position](w),
		altitude:     ecs.NewMap[components.Altitude](w),
		species:      ecs.NewMap[components.Species](w),
		hunger:       ecs.NewMap[components.Hunger](w),
		age:          ecs.NewMap[components.Age](w),
		health:       ecs.NewMap[components.Health](w),
		behavior:     ecs.NewMap[components.Behavior](w),
		villageID:    ecs.NewMap[components.VillageID](w),
		reproduction: ecs.NewMap[components.Reproduction](w),
		energy:       ecs.NewMap[components.Energy](w),
		index:        make(map[EntityID]ecs.Entity),
		nextID:       1,
	}
}

// CreateEntity allocates a fresh id and attaches every non-nil component of b.
// Absent components stay absent.
func (w *World) CreateEntity(b components.Bundle) EntityID {
	id := w.nextID
	w.nextID++
	w.spawn(id, &b)
	return id
}

func (w *World) spawn(id EntityID, b *components.Bundle) {
	e := w.ids.NewEntity(&identity{ID: id})
	w.index[id] = e

	c := b.Clone()
	if c.Position != nil {
		w.position.Add(e, c.Position)
	}
	if c.Altitude != nil {
		w.altitude.Add(e, c.Altitude)
	}
	if c.Species != nil {
		w.species.Add(e, c.Species)
	}
	if c.Hunger != nil {
		w.hunger.Add(e, c.Hunger)
	}
	if c.Age != nil {
		w.age.Add(e, c.Age)
	}
	if c.Health != nil {
		w.health.Add(e, c.Health)
	}
	if c.Behavior != nil {
		w.behavior.Add(e, c.Behavior)
	}
	if c.VillageID != nil {
		w.villageID.Add(e, c.VillageID)
	}
	if c.Reproduction != nil {
		w.reproduction.Add(e, c.Reproduction)
	}
	if c.Energy != nil {
		w.energy.Add(e, c.Energy)
	}
}

// RemoveEntity deletes id and all of its components. Removing an absent id
// is a no-op.
func (w *World) RemoveEntity(id EntityID) {
	e, ok := w.index[id]
	if !ok {
		return
	}
	delete(w.index, id)
	if w.ecs.Alive(e) {
		w.ecs.RemoveEntity(e)
	}
}

// Alive reports whether id exists.
func (w *World) Alive(id EntityID) bool {
	_, ok := w.index[id]
	return ok
}

// Count returns the number of entities.
func (w *World) Count() int {
	return len(w.index)
}

// NextID returns the id the next created entity will receive.
func (w *World) NextID() EntityID {
	return w.nextID
}

// IDs returns every entity id in ascending order.
func (w *World) IDs() []EntityID {
	ids := make([]EntityID, 0, len(w.index))
	for id := range w.index {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Mask returns the set of components id carries.
func (w *World) Mask(id EntityID) components.Mask {
	e, ok := w.index[id]
	if !ok {
		return 0
	}
	return w.mask(e)
}

func (w *World) mask(e ecs.Entity) components.Mask {
	var m components.Mask
	set := func(present bool, t components.Type) {
		if present {
			m |= components.MaskOf(t)
		}
	}
	set(w.position.Has(e), components.TypePosition)
	set(w.altitude.Has(e), components.TypeAltitude)
	set(w.species.Has(e), components.TypeSpecies)
	set(w.hunger.Has(e), components.TypeHunger)
	set(w.age.Has(e), components.TypeAge)
	set(w.health.Has(e), components.TypeHealth)
	set(w.behavior.Has(e), components.TypeBehavior)
	set(w.villageID.Has(e), components.TypeVillageID)
	set(w.reproduction.Has(e), components.TypeReproduction)
	set(w.energy.Has(e), components.TypeEnergy)
	return m
}

// Query returns, in ascending order, the ids carrying every listed component
// type. With no types it returns every entity. The result is a snapshot:
// callers may create and remove entities while ranging over it.
func (w *World) Query(types ...components.Type) []EntityID {
	want := components.MaskOf(types...)
	ids := make([]EntityID, 0, len(w.index))

	query := w.idQuery.Query()
	for query.Next() {
		if want != 0 && !w.mask(query.Entity()).Contains(want) {
			continue
		}
		ids = append(ids, query.Get().ID)
	}

	slices.Sort(ids)
	return ids
}

// ForEach visits every entity matching types, in ascending id order, with a
// bundle holding only the requested components. The id set is captured
// before the first visit, so the visitor may create and remove entities;
// entities removed before their turn are skipped. Bundle pointers alias
// store data and go stale after a structural change.
func (w *World) ForEach(types []components.Type, visit func(id EntityID, b *components.Bundle)) {
	m := components.MaskOf(types...)
	for _, id := range w.Query(types...) {
		e, ok := w.index[id]
		if !ok {
			continue
		}
		b := w.bundle(e, m)
		visit(id, &b)
	}
}

// Components returns a copy of every component of id.
func (w *World) Components(id EntityID) (components.Bundle, bool) {
	e, ok := w.index[id]
	if !ok {
		return components.Bundle{}, false
	}
	b := w.bundle(e, ^components.Mask(0))
	return b.Clone(), true
}

// bundle collects pointers to the components of e selected by m.
func (w *World) bundle(e ecs.Entity, m components.Mask) components.Bundle {
	var b components.Bundle
	if m.Has(components.TypePosition) && w.position.Has(e) {
		b.Position = w.position.Get(e)
	}
	if m.Has(components.TypeAltitude) && w.altitude.Has(e) {
		b.Altitude = w.altitude.Get(e)
	}
	if m.Has(components.TypeSpecies) && w.species.Has(e) {
		b.Species = w.species.Get(e)
	}
	if m.Has(components.TypeHunger) && w.hunger.Has(e) {
		b.Hunger = w.hunger.Get(e)
	}
	if m.Has(components.TypeAge) && w.age.Has(e) {
		b.Age = w.age.Get(e)
	}
	if m.Has(components.TypeHealth) && w.health.Has(e) {
		b.Health = w.health.Get(e)
	}
	if m.Has(components.TypeBehavior) && w.behavior.Has(e) {
		b.Behavior = w.behavior.Get(e)
	}
	if m.Has(components.TypeVillageID) && w.villageID.Has(e) {
		b.VillageID = w.villageID.Get(e)
	}
	if m.Has(components.TypeReproduction) && w.reproduction.Has(e) {
		b.Reproduction = w.reproduction.Get(e)
	}
	if m.Has(components.TypeEnergy) && w.energy.Has(e) {
		b.Energy = w.energy.Get(e)
	}
	return b
}

// RemoveComponent detaches component type t from id. Missing entities or
// components are ignored.
func (w *World) RemoveComponent(id EntityID, t components.Type) {
	e, ok := w.index[id]
	if !ok {
		return
	}
	switch t {
	case components.TypePosition:
		removeFrom(w.position, e)
	case components.TypeAltitude:
		removeFrom(w.altitude, e)
	case components.TypeSpecies:
		removeFrom(w.species, e)
	case components.TypeHunger:
		removeFrom(w.hunger, e)
	case components.TypeAge:
		removeFrom(w.age, e)
	case components.TypeHealth:
		removeFrom(w.health, e)
	case components.TypeBehavior:
		removeFrom(w.behavior, e)
	case components.TypeVillageID:
		removeFrom(w.villageID, e)
	case components.TypeReproduction:
		removeFrom(w.reproduction, e)
	case components.TypeEnergy:
		removeFrom(w.energy, e)
	}
}

func removeFrom[T any](m *ecs.Map[T], e ecs.Entity) {
	if m.Has(e) {
		m.Remove(e)
	}
}

// clear removes every entity and resets id allocation.
func (w *World) clear() {
	entities := make([]ecs.Entity, 0, len(w.index))
	for _, e := range w.index {
		entities = append(entities, e)
	}
	for _, e := range entities {
		if w.ecs.Alive(e) {
			w.ecs.RemoveEntity(e)
		}
	}
	w.index = make(map[EntityID]ecs.Entity)
	w.nextID = 1
}
