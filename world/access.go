package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
)

// Component is the set of types stored in the world.
type Component interface {
	components.Position | components.Altitude | components.Species |
		components.Hunger | components.Age | components.Health |
		components.Behavior | components.VillageID | components.Reproduction |
		components.Energy
}

// storage returns the component map for T.
func storage[T Component](w *World) *ecs.Map[T] {
	var m any
	switch any((*T)(nil)).(type) {
	case *components.Position:
		m = w.position
	case *components.Altitude:
		m = w.altitude
	case *components.Species:
		m = w.species
	case *components.Hunger:
		m = w.hunger
	case *components.Age:
		m = w.age
	case *components.Health:
		m = w.health
	case *components.Behavior:
		m = w.behavior
	case *components.VillageID:
		m = w.villageID
	case *components.Reproduction:
		m = w.reproduction
	case *components.Energy:
		m = w.energy
	}
	return m.(*ecs.Map[T])
}

// Get returns the T component of id, or nil if id or the component is absent.
func Get[T Component](w *World, id EntityID) *T {
	e, ok := w.index[id]
	if !ok {
		return nil
	}
	m := storage[T](w)
	if !m.Has(e) {
		return nil
	}
	return m.Get(e)
}

// Has reports whether id carries a T component.
func Has[T Component](w *World, id EntityID) bool {
	e, ok := w.index[id]
	return ok && storage[T](w).Has(e)
}

// Add attaches v to id, replacing any existing T component. It reports false
// if id does not exist.
func Add[T Component](w *World, id EntityID, v T) bool {
	e, ok := w.index[id]
	if !ok {
		return false
	}
	m := storage[T](w)
	if m.Has(e) {
		*m.Get(e) = v
		return true
	}
	m.Add(e, &v)
	return true
}

// Remove detaches the T component from id. Missing entities or components
// are ignored.
func Remove[T Component](w *World, id EntityID) {
	e, ok := w.index[id]
	if !ok {
		return
	}
	removeFrom(storage[T](w), e)
}
