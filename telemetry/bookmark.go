package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPoolSaturated  BookmarkType = "pool_saturated"
	BookmarkPopulationPeak BookmarkType = "population_peak"
	BookmarkSceneDrained   BookmarkType = "scene_drained"
	BookmarkSteadyState    BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the scene.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int  // peak particle count since the scene was last empty
	saturated          bool // last window dropped emissions
	steadyWindowsCount int  // consecutive windows with a stable population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Pool saturation fires on the rising edge only
	if b := bd.checkPoolSaturated(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Population peak: particle count > 2x rolling average
		if b := bd.checkPopulationPeak(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Scene drained: every particle retired after a busy period
		if b := bd.checkSceneDrained(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Steady state: low population variance over 5+ windows
		if b := bd.checkSteadyState(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Particles > bd.recentPeak {
		bd.recentPeak = stats.Particles
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkPoolSaturated(stats WindowStats) *Bookmark {
	saturated := stats.Dropped >= 10 && stats.DropRate > 0.05
	rising := saturated && !bd.saturated
	bd.saturated = saturated
	if !rising {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPoolSaturated,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Dropped %d emissions (%.0f%%) with %d particles live", stats.Dropped, stats.DropRate*100, stats.Particles),
	}
}

func (bd *BookmarkDetector) checkPopulationPeak(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Particles
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Particles) > avg*2.0 && stats.Particles >= 500 {
		return &Bookmark{
			Type:        BookmarkPopulationPeak,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d particles is %.1fx average (%.0f)", stats.Particles, float64(stats.Particles)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSceneDrained(stats WindowStats) *Bookmark {
	if stats.Particles != 0 || bd.recentPeak < 100 {
		return nil
	}

	oldPeak := bd.recentPeak
	bd.recentPeak = 0
	return &Bookmark{
		Type:        BookmarkSceneDrained,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Scene drained after peaking at %d particles", oldPeak),
	}
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Particles < 50 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Check variance in recent windows
	var sum float64
	for _, h := range history[len(history)-4:] {
		sum += float64(h.Particles)
	}
	mean := sum / 4

	var variance float64
	for _, h := range history[len(history)-4:] {
		d := float64(h.Particles) - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.01 { // CV < 10%
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population steady around %.0f particles over 5+ windows", mean),
		}
	}

	return nil
}
