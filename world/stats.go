package world

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/components"
)

// PopulationBySpecies counts entities per species kind.
func (w *World) PopulationBySpecies() [components.NumKinds]int {
	var counts [components.NumKinds]int
	query := w.idQuery.Query()
	for query.Next() {
		e := query.Entity()
		if !w.species.Has(e) {
			continue
		}
		if k := w.species.Get(e).Kind; k < components.NumKinds {
			counts[k]++
		}
	}
	return counts
}

// Ages returns, in ascending id order, the age of every entity carrying an
// Age component.
func (w *World) Ages() []float64 {
	values := make([]float64, 0, len(w.index))
	for _, id := range w.IDs() {
		if e := w.index[id]; w.age.Has(e) {
			values = append(values, float64(w.age.Get(e).Value))
		}
	}
	return values
}

// Hungers returns the hunger of every entity carrying a Hunger component.
func (w *World) Hungers() []float64 {
	values := make([]float64, 0, len(w.index))
	for _, id := range w.IDs() {
		if e := w.index[id]; w.hunger.Has(e) {
			values = append(values, float64(w.hunger.Get(e).Value))
		}
	}
	return values
}

// Energies returns the energy of every entity carrying an Energy component.
func (w *World) Energies() []float64 {
	values := make([]float64, 0, len(w.index))
	for _, id := range w.IDs() {
		if e := w.index[id]; w.energy.Has(e) {
			values = append(values, float64(w.energy.Get(e).Current))
		}
	}
	return values
}

// MeanAge returns the mean age, or 0 if no entity has an age.
func (w *World) MeanAge() float64 {
	return mean(w.Ages())
}

// MeanHunger returns the mean hunger, or 0 if no entity has hunger.
func (w *World) MeanHunger() float64 {
	return mean(w.Hungers())
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
