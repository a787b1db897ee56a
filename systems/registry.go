package systems

// SystemInfo describes a tick system.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "needs", "movement", "lifecycle")
}

// System IDs in execution order.
const (
	IDHunger = "hunger"
	IDWander = "wander"
	IDAging  = "aging"
)

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so the pipeline and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems in execution order.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: IDHunger, Name: "Hunger", Description: "Raises hunger, drains or restores health and energy, feeds", Category: "needs"})
	r.Register(SystemInfo{ID: IDWander, Name: "Wander", Description: "Picks activities and moves entities", Category: "movement"})
	r.Register(SystemInfo{ID: IDAging, Name: "Aging", Description: "Ages entities, handles natural death and reproduction", Category: "lifecycle"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
