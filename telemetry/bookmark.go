package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkMilestone   BookmarkType = "milestone"
	BookmarkDeath       BookmarkType = "death"
	BookmarkGrowthSpurt BookmarkType = "growth_spurt"
	BookmarkCloseCall   BookmarkType = "close_call"
	BookmarkEnemySwarm  BookmarkType = "enemy_swarm"
)

// Bookmark marks an interesting moment in a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Run         int          `csv:"run"`
	ElapsedMs   float64      `csv:"elapsed_ms"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"run", b.Run,
		"elapsed_ms", b.ElapsedMs,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments from consecutive stats windows.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	peakRadius  float64 // largest player radius seen this run
	closeCalled bool    // close call already reported this run
	swarmActive bool    // enemy swarm reported and not yet subsided
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset clears history for a new run.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.peakRadius = 0
	bd.closeCalled = false
	bd.swarmActive = false
}

// Check analyzes the latest stats and returns any triggered bookmarks.
// minRadius is the player radius at which the run ends.
func (bd *BookmarkDetector) Check(stats WindowStats, minRadius float64) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkGrowthSpurt(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCloseCall(stats, minRadius); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkEnemySwarm(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.PlayerRadius > bd.peakRadius {
		bd.peakRadius = stats.PlayerRadius
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

// checkGrowthSpurt fires when area gained in a window exceeds twice the
// rolling average, with at least three windows of history.
func (bd *BookmarkDetector) checkGrowthSpurt(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.AreaGained
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.AreaGained > avg*2 {
		return &Bookmark{
			Type:        BookmarkGrowthSpurt,
			Run:         stats.Run,
			ElapsedMs:   stats.WindowEndMs,
			Description: fmt.Sprintf("Area gained %.0f is %.1fx average (%.0f)", stats.AreaGained, stats.AreaGained/avg, avg),
		}
	}
	return nil
}

// checkCloseCall fires once per run when the player has been at least twice
// the minimum radius and drops within 20% of it.
func (bd *BookmarkDetector) checkCloseCall(stats WindowStats, minRadius float64) *Bookmark {
	if bd.closeCalled || minRadius <= 0 {
		return nil
	}
	if bd.peakRadius < minRadius*2 {
		return nil
	}
	if stats.PlayerRadius > minRadius*1.2 {
		return nil
	}

	bd.closeCalled = true
	return &Bookmark{
		Type:        BookmarkCloseCall,
		Run:         stats.Run,
		ElapsedMs:   stats.WindowEndMs,
		Description: fmt.Sprintf("Player fell from %.1f to %.1f (min %.1f)", bd.peakRadius, stats.PlayerRadius, minRadius),
	}
}

// checkEnemySwarm fires when the enemy count reaches twice the rolling
// average and at least 10. It re-arms once the count falls back to average.
func (bd *BookmarkDetector) checkEnemySwarm(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.EnemyCount
	}
	avg := float64(total) / float64(len(history))

	if bd.swarmActive {
		if float64(stats.EnemyCount) <= avg {
			bd.swarmActive = false
		}
		return nil
	}

	if stats.EnemyCount >= 10 && float64(stats.EnemyCount) >= avg*2 {
		bd.swarmActive = true
		return &Bookmark{
			Type:        BookmarkEnemySwarm,
			Run:         stats.Run,
			ElapsedMs:   stats.WindowEndMs,
			Description: fmt.Sprintf("%d enemies loaded, average %.1f", stats.EnemyCount, avg),
		}
	}
	return nil
}
