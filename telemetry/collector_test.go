package telemetry

import (
	"testing"

	"github.com/pthm-cable/blobworld/components"
)

func TestCollector_Window(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9999) {
		t.Error("window should not flush before 10s")
	}
	if !c.ShouldFlush(10000) {
		t.Error("window should flush at 10s")
	}

	c.RecordAbsorption(components.KindFood, 3)
	c.RecordAbsorption(components.KindEnemy, 5)
	c.RecordAbsorption(components.KindPlayer, 2)
	c.RecordChunks(4, 1)
	c.RecordGravityPulls(6)
	c.RecordBlackHoleFrame()

	pop := Population{Food: 12, Enemies: 3, BlackHoles: 1, LoadedChunks: 9}
	stats := c.Flush(10000, 2, 600, pop, 22, 140, []float64{4, 6}, []float64{10, 20, 30})

	if stats.FoodBites != 1 || stats.EnemyBites != 1 || stats.PlayerBitten != 1 {
		t.Errorf("bites = %d/%d/%d, want 1/1/1", stats.FoodBites, stats.EnemyBites, stats.PlayerBitten)
	}
	if stats.AreaGained != 8 || stats.AreaLost != 2 {
		t.Errorf("area gained/lost = %v/%v, want 8/2", stats.AreaGained, stats.AreaLost)
	}
	if stats.ChunksLoaded != 4 || stats.ChunksUnloaded != 1 {
		t.Errorf("chunks = %d/%d, want 4/1", stats.ChunksLoaded, stats.ChunksUnloaded)
	}
	if stats.GravityPulls != 6 || stats.BlackHoleFrames != 1 {
		t.Errorf("gravity/bh = %d/%d, want 6/1", stats.GravityPulls, stats.BlackHoleFrames)
	}
	if stats.FoodCount != 12 || stats.LoadedChunks != 9 {
		t.Errorf("population not copied: %+v", stats)
	}
	if stats.FoodRadiusMean != 5 || stats.EnemyRadiusMean != 20 || stats.EnemyRadiusP50 != 20 {
		t.Errorf("radius stats = %v/%v/%v", stats.FoodRadiusMean, stats.EnemyRadiusMean, stats.EnemyRadiusP50)
	}

	// Counters reset and the next window starts at the flush time.
	if c.ShouldFlush(15000) {
		t.Error("new window should start at flush time")
	}
	next := c.Flush(20000, 2, 1200, Population{}, 22, 140, nil, nil)
	if next.FoodBites != 0 || next.AreaGained != 0 || next.WindowStartMs != 10000 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollector_DefaultWindow(t *testing.T) {
	if got := NewCollector(0).WindowMs(); got != 1000 {
		t.Errorf("WindowMs = %v, want 1000", got)
	}
}
