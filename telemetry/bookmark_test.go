package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_GrowthSpurt(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndMs: float64(i * 10000), AreaGained: 100, PlayerRadius: 20}, 10)
	}

	bookmarks := bd.Check(WindowStats{WindowEndMs: 50000, AreaGained: 450, PlayerRadius: 24}, 10)
	if !hasBookmark(bookmarks, BookmarkGrowthSpurt) {
		t.Error("expected growth_spurt bookmark")
	}
	if bookmarks[0].ElapsedMs != 50000 {
		t.Errorf("ElapsedMs = %v, want 50000", bookmarks[0].ElapsedMs)
	}
}

func TestBookmarkDetector_NeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{AreaGained: 10, EnemyCount: 2}, 10)
	bd.Check(WindowStats{AreaGained: 10, EnemyCount: 2}, 10)

	// Third window still has only two windows of history.
	bookmarks := bd.Check(WindowStats{AreaGained: 1000, EnemyCount: 40}, 10)
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks with short history, got %v", bookmarks)
	}
}

func TestBookmarkDetector_CloseCall(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{PlayerRadius: 25}, 10)
	if got := bd.Check(WindowStats{PlayerRadius: 11}, 10); !hasBookmark(got, BookmarkCloseCall) {
		t.Error("expected close_call bookmark")
	}

	// Only once per run.
	if got := bd.Check(WindowStats{PlayerRadius: 11}, 10); hasBookmark(got, BookmarkCloseCall) {
		t.Error("close_call should fire once per run")
	}

	bd.Reset()
	bd.Check(WindowStats{PlayerRadius: 25}, 10)
	if got := bd.Check(WindowStats{PlayerRadius: 11}, 10); !hasBookmark(got, BookmarkCloseCall) {
		t.Error("expected close_call after Reset")
	}
}

func TestBookmarkDetector_CloseCallNeedsGrowth(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Player never grew past twice the minimum.
	bd.Check(WindowStats{PlayerRadius: 15}, 10)
	if got := bd.Check(WindowStats{PlayerRadius: 11}, 10); hasBookmark(got, BookmarkCloseCall) {
		t.Error("close_call should require prior growth")
	}
}

func TestBookmarkDetector_EnemySwarm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{EnemyCount: 6}, 10)
	}

	if got := bd.Check(WindowStats{EnemyCount: 14}, 10); !hasBookmark(got, BookmarkEnemySwarm) {
		t.Error("expected enemy_swarm bookmark")
	}
	// Still elevated: no repeat.
	if got := bd.Check(WindowStats{EnemyCount: 15}, 10); hasBookmark(got, BookmarkEnemySwarm) {
		t.Error("enemy_swarm should not repeat while active")
	}
}

func TestBookmarkDetector_HistoryWraps(t *testing.T) {
	bd := NewBookmarkDetector(3)

	for i := 0; i < 7; i++ {
		bd.Check(WindowStats{AreaGained: 50}, 10)
	}
	if got := len(bd.getHistory()); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}
