package world

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pthm-cable/habitat/components"
)

func TestCreateEntityAbsentComponents(t *testing.T) {
	w := New()
	id := w.CreateEntity(components.Bundle{
		Position: &components.Position{X: 1, Y: 2},
		Species:  &components.Species{Kind: components.Predator},
	})

	if !w.Alive(id) {
		t.Fatal("created entity not alive")
	}
	if Get[components.Hunger](w, id) != nil {
		t.Error("unsupplied hunger should be absent")
	}
	if Has[components.Energy](w, id) {
		t.Error("unsupplied energy should be absent")
	}
	if p := Get[components.Position](w, id); p == nil || p.X != 1 || p.Y != 2 {
		t.Errorf("position = %+v", p)
	}
}

func TestCreateEntityCopiesBundle(t *testing.T) {
	w := New()
	b := components.Template(components.Herbivore, 0, 0)
	id := w.CreateEntity(b)

	b.Position.X = 42
	if got := Get[components.Position](w, id).X; got != 0 {
		t.Errorf("store aliased caller bundle: x = %v", got)
	}
}

func TestIDsUnique(t *testing.T) {
	w := New()
	seen := make(map[EntityID]bool)
	for i := 0; i < 100; i++ {
		id := w.CreateEntity(components.Template(components.Tribal, 0, 0))
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
		if i%3 == 0 {
			w.RemoveEntity(id)
		}
	}
}

func TestRemoveEntity(t *testing.T) {
	w := New()
	a := w.CreateEntity(components.Template(components.Herbivore, 0, 0))
	b := w.CreateEntity(components.Template(components.Predator, 0, 0))

	w.RemoveEntity(a)
	w.RemoveEntity(a) // no-op
	w.RemoveEntity(999)

	if w.Alive(a) {
		t.Error("removed entity still alive")
	}
	if Get[components.Age](w, a) != nil {
		t.Error("removed entity still has components")
	}
	if w.Count() != 1 {
		t.Errorf("Count = %d, want 1", w.Count())
	}
	for _, typ := range []components.Type{components.TypePosition, components.TypeHunger, components.TypeAge} {
		for _, id := range w.Query(typ) {
			if id == a {
				t.Errorf("query %v returned removed entity", typ)
			}
		}
	}
	if !w.Alive(b) {
		t.Error("unrelated entity removed")
	}
}

func TestAddRemoveComponent(t *testing.T) {
	w := New()
	id := w.CreateEntity(components.Bundle{Position: &components.Position{}})

	if !Add(w, id, components.Hunger{Value: 0.5, Rate: 0.01}) {
		t.Fatal("Add returned false")
	}
	if h := Get[components.Hunger](w, id); h == nil || h.Value != 0.5 {
		t.Fatalf("hunger = %+v", h)
	}

	Add(w, id, components.Hunger{Value: 0.7, Rate: 0.01})
	if h := Get[components.Hunger](w, id); h.Value != 0.7 {
		t.Errorf("Add should replace, got %v", h.Value)
	}

	Remove[components.Hunger](w, id)
	Remove[components.Hunger](w, id)
	if Has[components.Hunger](w, id) {
		t.Error("hunger not removed")
	}

	w.RemoveComponent(id, components.TypePosition)
	if Has[components.Position](w, id) {
		t.Error("position not removed")
	}
	if !w.Alive(id) {
		t.Error("entity without components should still exist until removed")
	}

	if Add(w, 12345, components.Age{}) {
		t.Error("Add on missing entity returned true")
	}
}

func TestQueryIntersection(t *testing.T) {
	w := New()
	full := w.CreateEntity(components.Template(components.Herbivore, 0, 0))
	posOnly := w.CreateEntity(components.Bundle{Position: &components.Position{}})
	ageOnly := w.CreateEntity(components.Bundle{Age: &components.Age{MaxAge: 10}})

	tests := []struct {
		name  string
		types []components.Type
		want  []EntityID
	}{
		{"all", nil, []EntityID{full, posOnly, ageOnly}},
		{"position", []components.Type{components.TypePosition}, []EntityID{full, posOnly}},
		{"age", []components.Type{components.TypeAge}, []EntityID{full, ageOnly}},
		{"position and age", []components.Type{components.TypePosition, components.TypeAge}, []EntityID{full}},
		{"village", []components.Type{components.TypeVillageID}, []EntityID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Query(tt.types...)
			if len(got) != len(tt.want) {
				t.Fatalf("Query = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Query = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestForEachToleratesMutation(t *testing.T) {
	w := New()
	var ids []EntityID
	for i := 0; i < 10; i++ {
		ids = append(ids, w.CreateEntity(components.Template(components.Herbivore, float32(i), 0)))
	}

	visited := 0
	types := []components.Type{components.TypePosition, components.TypeHunger}
	w.ForEach(types, func(id EntityID, b *components.Bundle) {
		visited++
		if b.Position == nil || b.Hunger == nil {
			t.Fatalf("entity %d missing requested components", id)
		}
		if b.Age != nil {
			t.Errorf("entity %d materialized unrequested age", id)
		}
		if id == ids[2] {
			w.RemoveEntity(ids[5])
			w.CreateEntity(components.Template(components.Predator, 0, 0))
		}
	})

	if visited != 9 {
		t.Errorf("visited %d entities, want 9 (one removed, new one not in snapshot)", visited)
	}
	if w.Count() != 10 {
		t.Errorf("Count = %d, want 10", w.Count())
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	w := New()
	village := "river-camp"
	for i := 0; i < 20; i++ {
		kind := components.Kinds[i%3]
		id := w.CreateEntity(components.Template(kind, float32(i)*1.5, -float32(i)))
		if i%4 == 0 {
			Get[components.Behavior](w, id).Target = &components.Position{X: 3, Y: 4}
		}
		if kind == components.Tribal && i%2 == 0 {
			Get[components.VillageID](w, id).ID = &village
		}
	}
	w.RemoveEntity(3)
	w.RemoveComponent(7, components.TypeEnergy)

	snap := w.Serialize()
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	restored := New()
	restored.CreateEntity(components.Template(components.Predator, 0, 0))
	restored.Deserialize(decoded)

	if !reflect.DeepEqual(w.IDs(), restored.IDs()) {
		t.Fatalf("ids = %v, want %v", restored.IDs(), w.IDs())
	}
	for _, id := range w.IDs() {
		want, _ := w.Components(id)
		got, _ := restored.Components(id)
		if !reflect.DeepEqual(want, got) {
			t.Errorf("entity %d components differ:\n got %+v\nwant %+v", id, got, want)
		}
	}
	if restored.NextID() != w.NextID() {
		t.Errorf("NextID = %d, want %d", restored.NextID(), w.NextID())
	}
	if !reflect.DeepEqual(restored.Serialize(), snap) {
		t.Error("second serialization differs")
	}
}

func TestDeserializeIgnoresUnknown(t *testing.T) {
	data := []byte(`{
		"entities": [5],
		"components": {
			"position": {"5": {"x": 1, "y": 2}, "9": {"x": 7, "y": 7}},
			"selected": {"5": {"timestamp": 1}}
		}
	}`)
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	w := New()
	w.Deserialize(snap)

	if w.Count() != 1 || !w.Alive(5) {
		t.Fatalf("ids = %v, want [5]", w.IDs())
	}
	if w.Alive(9) {
		t.Error("component entry for unlisted id created an entity")
	}
	if id := w.CreateEntity(components.Bundle{}); id != 6 {
		t.Errorf("next id = %d, want 6", id)
	}
}

func TestAggregates(t *testing.T) {
	w := New()
	if w.MeanAge() != 0 || w.MeanHunger() != 0 {
		t.Error("empty world means should be 0")
	}

	for i, kind := range []components.Kind{components.Herbivore, components.Herbivore, components.Tribal} {
		b := components.Template(kind, 0, 0)
		b.Age.Value = float32(10 * (i + 1))
		b.Hunger.Value = 0.25 * float32(i)
		w.CreateEntity(b)
	}

	pop := w.PopulationBySpecies()
	if pop[components.Herbivore] != 2 || pop[components.Predator] != 0 || pop[components.Tribal] != 1 {
		t.Errorf("PopulationBySpecies = %v", pop)
	}
	if got := w.MeanAge(); got != 20 {
		t.Errorf("MeanAge = %v, want 20", got)
	}
	if got := w.MeanHunger(); got != 0.25 {
		t.Errorf("MeanHunger = %v, want 0.25", got)
	}
}
