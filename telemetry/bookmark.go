package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash   BookmarkType = "population_crash"
	BookmarkSpeciesExtinction BookmarkType = "species_extinction"
	BookmarkSpeciesRecovery   BookmarkType = "species_recovery"
	BookmarkStableEcosystem   BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int                      // peak total population since the last crash
	speciesMin         [components.NumKinds]int // lowest nonzero count since the last recovery
	lastCounts         [components.NumKinds]int // counts in the previous window
	seen               bool                     // at least one window checked
	stableWindowsCount int                      // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.seen {
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		bookmarks = append(bookmarks, bd.checkExtinctions(stats)...)
		bookmarks = append(bookmarks, bd.checkRecoveries(stats)...)
	}
	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}
	for _, k := range components.Kinds {
		n := stats.Count(k)
		if n > 0 && (bd.speciesMin[k] == 0 || n < bd.speciesMin[k]) {
			bd.speciesMin[k] = n
		}
		bd.lastCounts[k] = n
	}
	bd.seen = true

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the retained windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	c := bd.cfg.PopulationCrash
	dropPercent := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if dropPercent > c.Drop && stats.Population <= bd.recentPeak-c.MinLoss {
		// Reset peak after crash
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Population),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkExtinctions(stats WindowStats) []Bookmark {
	var out []Bookmark
	for _, k := range components.Kinds {
		if bd.lastCounts[k] > 0 && stats.Count(k) == 0 {
			bd.speciesMin[k] = 0
			out = append(out, Bookmark{
				Type:        BookmarkSpeciesExtinction,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s went extinct (was %d)", k, bd.lastCounts[k]),
			})
		}
	}
	return out
}

func (bd *BookmarkDetector) checkRecoveries(stats WindowStats) []Bookmark {
	c := bd.cfg.Recovery
	var out []Bookmark
	for _, k := range components.Kinds {
		low := bd.speciesMin[k]
		if low == 0 || low > c.LowWater {
			continue
		}
		n := stats.Count(k)
		if float64(n) >= float64(low)*c.Factor && n >= c.MinCount {
			// Reset the minimum after triggering
			bd.speciesMin[k] = n
			out = append(out, Bookmark{
				Type:        BookmarkSpeciesRecovery,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s recovered from %d to %d", k, low, n),
			})
		}
	}
	return out
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	c := bd.cfg.StableEcosystem

	// Every surviving species must be present in numbers, and at least two
	// must survive.
	alive := 0
	for _, k := range components.Kinds {
		n := stats.Count(k)
		if n == 0 {
			continue
		}
		if n < c.MinCount {
			bd.stableWindowsCount = 0
			return nil
		}
		alive++
	}
	if alive < 2 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}
	recent := make([]WindowStats, 0, 4)
	recent = append(recent, history[len(history)-3:]...)
	recent = append(recent, stats)

	stable := true
	maxCV2 := c.MaxCV * c.MaxCV
	for _, k := range components.Kinds {
		var sum float64
		for _, h := range recent {
			sum += float64(h.Count(k))
		}
		mean := sum / float64(len(recent))
		if mean == 0 {
			continue
		}
		var variance float64
		for _, h := range recent {
			d := float64(h.Count(k)) - mean
			variance += d * d
		}
		variance /= float64(len(recent))
		if variance/(mean*mean) >= maxCV2 {
			stable = false
			break
		}
	}

	if stable {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == c.Windows { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d predators, %d tribals over %d windows", stats.Herbivores, stats.Predators, stats.Tribals, c.Windows),
		}
	}

	return nil
}
