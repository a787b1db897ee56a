package telemetry

import (
	"sort"

	"github.com/pthm-cable/habitat/components"
)

// LifetimeStats tracks per-entity statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32           `json:"birth_tick"`
	Kind       components.Kind `json:"kind"`
	ParentID   uint32          `json:"parent_id,omitempty"`
	Generation int             `json:"generation"`

	Children    int `json:"children"`
	Feedings    int `json:"feedings"`
	Discoveries int `json:"discoveries"`
}

// LifetimeTracker manages per-entity lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new entity. Offspring inherit their
// parent's generation plus one.
func (lt *LifetimeTracker) Register(entityID uint32, birthTick int32, kind components.Kind, parentID uint32) {
	s := &LifetimeStats{
		BirthTick: birthTick,
		Kind:      kind,
		ParentID:  parentID,
	}
	if parent := lt.stats[parentID]; parentID != 0 && parent != nil {
		s.Generation = parent.Generation + 1
	}
	lt.stats[entityID] = s
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes an entity's stats and returns them.
func (lt *LifetimeTracker) Remove(entityID uint32) *LifetimeStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordFeeding increments the feeding count.
func (lt *LifetimeTracker) RecordFeeding(entityID uint32) {
	if s := lt.stats[entityID]; s != nil {
		s.Feedings++
	}
}

// RecordDiscovery increments the discovery count.
func (lt *LifetimeTracker) RecordDiscovery(entityID uint32) {
	if s := lt.stats[entityID]; s != nil {
		s.Discoveries++
	}
}

// SurvivalTicks returns how many ticks the entity has lived as of currentTick.
func (s *LifetimeStats) SurvivalTicks(currentTick int32) int32 {
	return currentTick - s.BirthTick
}

// All returns a copy of all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uint32]LifetimeStats {
	out := make(map[uint32]LifetimeStats, len(lt.stats))
	for id, s := range lt.stats {
		out[id] = *s
	}
	return out
}

// Load replaces all tracked stats.
func (lt *LifetimeTracker) Load(all map[uint32]LifetimeStats) {
	lt.stats = make(map[uint32]*LifetimeStats, len(all))
	for id, s := range all {
		s := s
		lt.stats[id] = &s
	}
}

// Count returns the number of tracked entities.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// MaxGeneration returns the deepest generation among tracked entities.
func (lt *LifetimeTracker) MaxGeneration() int {
	best := 0
	for _, s := range lt.stats {
		if s.Generation > best {
			best = s.Generation
		}
	}
	return best
}

// Oldest returns up to n tracked entity IDs ordered by birth tick, earliest
// first. Ties break on the lower ID.
func (lt *LifetimeTracker) Oldest(n int) []uint32 {
	ids := make([]uint32, 0, len(lt.stats))
	for id := range lt.stats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := lt.stats[ids[i]], lt.stats[ids[j]]
		if a.BirthTick != b.BirthTick {
			return a.BirthTick < b.BirthTick
		}
		return ids[i] < ids[j]
	})
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}
