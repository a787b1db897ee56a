package telemetry

import (
	"testing"

	"github.com/pthm-cable/habitat/config"
)

func newDetector() *BookmarkDetector {
	return NewBookmarkDetector(10, config.Default().Bookmarks)
}

func window(tick int32, herbivores, predators, tribals int) WindowStats {
	return WindowStats{
		WindowEndTick: tick,
		Population:    herbivores + predators + tribals,
		Herbivores:    herbivores,
		Predators:     predators,
		Tribals:       tribals,
	}
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 5; i++ {
		bd.Check(window(int32(i*60), 80, 20, 0))
	}

	bookmarks := bd.Check(window(300, 40, 10, 0))
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}

	// The peak resets after a crash, so a further small dip is quiet.
	bookmarks = bd.Check(window(360, 38, 10, 0))
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("unexpected second population_crash bookmark")
	}
}

func TestBookmarkDetector_SmallDropIgnored(t *testing.T) {
	bd := newDetector()

	// 40% drop but only 8 entities lost.
	bd.Check(window(0, 20, 0, 0))
	bookmarks := bd.Check(window(60, 12, 0, 0))
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("drop below min_loss should not bookmark")
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newDetector()

	bd.Check(window(0, 50, 10, 5))
	bookmarks := bd.Check(window(60, 50, 0, 5))

	var got []Bookmark
	for _, bm := range bookmarks {
		if bm.Type == BookmarkSpeciesExtinction {
			got = append(got, bm)
		}
	}
	if len(got) != 1 {
		t.Fatalf("extinction bookmarks = %d, want 1", len(got))
	}
	if want := "PREDATOR went extinct (was 10)"; got[0].Description != want {
		t.Errorf("description = %q, want %q", got[0].Description, want)
	}

	// Staying extinct does not repeat the bookmark.
	if hasBookmark(bd.Check(window(120, 50, 0, 5)), BookmarkSpeciesExtinction) {
		t.Error("extinction bookmark repeated")
	}
}

func TestBookmarkDetector_Recovery(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 3; i++ {
		bd.Check(window(int32(i*60), 100, 2, 0))
	}

	bookmarks := bd.Check(window(180, 100, 10, 0))
	if !hasBookmark(bookmarks, BookmarkSpeciesRecovery) {
		t.Error("expected species_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := newDetector()

	triggered := -1
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(window(int32(i*60), 100, 20, 0))
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			if triggered >= 0 {
				t.Fatalf("stable_ecosystem triggered twice (windows %d and %d)", triggered, i)
			}
			triggered = i
		}
	}

	// Four windows of history are needed, then five stable windows.
	if triggered != 8 {
		t.Errorf("stable_ecosystem triggered at window %d, want 8", triggered)
	}
}

func TestBookmarkDetector_SingleSpeciesNeverStable(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 12; i++ {
		if hasBookmark(bd.Check(window(int32(i*60), 100, 0, 0)), BookmarkStableEcosystem) {
			t.Fatal("a single surviving species should not count as a stable ecosystem")
		}
	}
}
