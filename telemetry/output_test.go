package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is a no-op on a nil manager.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvents([]Event{{}}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have no dir")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Errorf("WriteConfig: %v", err)
	}
	for i := int32(1); i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 60, Population: 10}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{AvgTickDuration: time.Millisecond}, 60); err != nil {
		t.Errorf("WritePerf: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkSpeciesExtinction, Tick: 60, Description: "gone"}); err != nil {
		t.Errorf("WriteBookmark: %v", err)
	}
	events := []Event{
		NewBirthEvent(1, 2, 1, components.Herbivore, CauseReproduction),
		NewDeathEvent(2, 1, components.Herbivore, CauseOldAge),
	}
	if err := om.WriteEvents(events); err != nil {
		t.Errorf("WriteEvents: %v", err)
	}
	if err := om.WriteEvents(nil); err != nil {
		t.Errorf("WriteEvents(nil): %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "telemetry.csv"))
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,population,") {
		t.Errorf("telemetry header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "120,") {
		t.Errorf("second row = %q", lines[2])
	}

	if lines := readLines(t, filepath.Join(dir, "bookmarks.csv")); len(lines) != 2 || lines[0] != "type,tick,description" {
		t.Errorf("bookmarks.csv = %q", lines)
	}

	lines = readLines(t, filepath.Join(dir, "events.csv"))
	if len(lines) != 3 || lines[0] != "tick,type,entity,species,cause,parent" {
		t.Errorf("events.csv = %q", lines)
	}
	if lines[1] != "1,birth,2,HERBIVORE,reproduction,1" {
		t.Errorf("first event row = %q", lines[1])
	}

	if lines := readLines(t, filepath.Join(dir, "perf.csv")); len(lines) != 2 || !strings.HasPrefix(lines[1], "60,1000,") {
		t.Errorf("perf.csv = %q", lines)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}
}

func TestOutputManagerHallOfFame(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	hof := NewHallOfFame(testHallConfig())
	stats := LifetimeStats{Kind: components.Herbivore, Children: 1}
	hof.Consider(5, &stats, 10, 1, CauseStarvation)

	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatalf("WriteHallOfFame: %v", err)
	}
	loaded, err := LoadHallOfFameFromFile(filepath.Join(dir, "hall_of_fame.json"), testHallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Size(components.Herbivore) != 1 {
		t.Errorf("loaded herbivore hall size = %d, want 1", loaded.Size(components.Herbivore))
	}
}
