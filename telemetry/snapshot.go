package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/habitat/terrain"
	"github.com/pthm-cable/habitat/world"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state needed to resume a run.
type Snapshot struct {
	Version  int   `json:"version"`
	Seed     int64 `json:"seed"`      // configured simulation seed
	RNGState int64 `json:"rng_state"` // generator state at Tick

	Tick      int32   `json:"tick"`
	WorldSize float32 `json:"world_size"`
	Speed     int     `json:"speed"`

	// Terrain is regenerated from its config on restore. Nil when the run
	// has no terrain.
	Terrain      *terrain.Config `json:"terrain,omitempty"`
	BiomeEffects bool            `json:"biome_effects"`

	World     world.Snapshot  `json:"world"`
	Collector *CollectorState `json:"collector,omitempty"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
