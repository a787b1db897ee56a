package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// HallEntry records a notable entity after its death.
type HallEntry struct {
	EntityID    uint32          `json:"entity_id"`
	Kind        components.Kind `json:"-"`
	Fitness     float32         `json:"fitness"`
	Children    int             `json:"children"`
	Feedings    int             `json:"feedings"`
	Discoveries int             `json:"discoveries"`
	SurvivalSec float32         `json:"survival_sec"`
	Generation  int             `json:"generation"`
	DeathTick   int32           `json:"death_tick"`
	Cause       string          `json:"cause"`
}

// HallOfFame keeps the fittest dead entities of each species, ordered by
// fitness.
type HallOfFame struct {
	halls [components.NumKinds][]HallEntry
	cfg   config.HallOfFameConfig
}

// NewHallOfFame creates a new hall of fame.
func NewHallOfFame(cfg config.HallOfFameConfig) *HallOfFame {
	if cfg.Size < 1 {
		cfg.Size = 1
	}
	hof := &HallOfFame{cfg: cfg}
	for i := range hof.halls {
		hof.halls[i] = make([]HallEntry, 0, cfg.Size)
	}
	return hof
}

// Consider evaluates a dead entity for hall of fame entry.
// Returns true if the entity was added to the hall.
func (hof *HallOfFame) Consider(entityID uint32, stats *LifetimeStats, deathTick int32, dt float32, cause Cause) bool {
	if stats == nil || int(stats.Kind) >= len(hof.halls) {
		return false
	}

	survival := float32(stats.SurvivalTicks(deathTick)) * dt
	if !hof.meetsEntryCriteria(stats, survival) {
		return false
	}

	entry := HallEntry{
		EntityID:    entityID,
		Kind:        stats.Kind,
		Fitness:     hof.calculateFitness(stats, survival),
		Children:    stats.Children,
		Feedings:    stats.Feedings,
		Discoveries: stats.Discoveries,
		SurvivalSec: survival,
		Generation:  stats.Generation,
		DeathTick:   deathTick,
		Cause:       cause.String(),
	}

	hall := &hof.halls[stats.Kind]
	*hall = hof.insertEntry(*hall, entry)
	return containsEntity(*hall, entityID)
}

// meetsEntryCriteria checks if an entity qualifies for the hall.
func (hof *HallOfFame) meetsEntryCriteria(stats *LifetimeStats, survivalSec float32) bool {
	if stats.Children >= hof.cfg.Entry.MinChildren && hof.cfg.Entry.MinChildren > 0 {
		return true
	}
	return survivalSec >= float32(hof.cfg.Entry.MinSurvivalSec)
}

// calculateFitness computes the weighted fitness score.
func (hof *HallOfFame) calculateFitness(stats *LifetimeStats, survivalSec float32) float32 {
	w := hof.cfg.Fitness
	fitness := float32(stats.Children) * float32(w.ChildrenWeight)
	fitness += survivalSec * float32(w.SurvivalWeight)
	fitness += float32(stats.Feedings) * float32(w.FeedingWeight)
	fitness += float32(stats.Discoveries) * float32(w.DiscoveryWeight)
	return fitness
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	if len(hall) >= hof.cfg.Size && idx >= hof.cfg.Size {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.cfg.Size {
		hall = hall[:hof.cfg.Size]
	}

	return hall
}

func containsEntity(hall []HallEntry, id uint32) bool {
	for _, e := range hall {
		if e.EntityID == id {
			return true
		}
	}
	return false
}

// Entries returns a copy of the hall for kind, fittest first.
func (hof *HallOfFame) Entries(kind components.Kind) []HallEntry {
	if int(kind) >= len(hof.halls) {
		return nil
	}
	return append([]HallEntry(nil), hof.halls[kind]...)
}

// Size returns the number of entries for a given species.
func (hof *HallOfFame) Size(kind components.Kind) int {
	if int(kind) >= len(hof.halls) {
		return 0
	}
	return len(hof.halls[kind])
}

// TopFitness returns the highest fitness in the hall for a given species.
// Returns 0 if the hall is empty.
func (hof *HallOfFame) TopFitness(kind components.Kind) float32 {
	if hof.Size(kind) == 0 {
		return 0
	}
	return hof.halls[kind][0].Fitness
}

// MarshalJSON serializes the hall of fame to JSON keyed by species name.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := make(map[string][]HallEntry, len(hof.halls))
	for i, hall := range hof.halls {
		entries := hall
		if entries == nil {
			entries = []HallEntry{}
		}
		export[components.Kind(i).String()] = entries
	}
	return json.MarshalIndent(export, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file written by
// MarshalJSON. Unknown species are skipped.
func LoadHallOfFameFromFile(path string, cfg config.HallOfFameConfig) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw map[string][]HallEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(cfg)
	for name, entries := range raw {
		kind, err := components.ParseKind(name)
		if err != nil {
			slog.Warn("hall_of_fame_load: unknown species, skipping", "species", name)
			continue
		}
		for _, e := range entries {
			e.Kind = kind
			hof.halls[kind] = hof.insertEntry(hof.halls[kind], e)
		}
	}

	return hof, nil
}
