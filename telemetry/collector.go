// Package telemetry provides run statistics, bookmarks, performance timing
// and CSV output.
package telemetry

import "github.com/pthm-cable/blobworld/components"

// Collector accumulates events within time windows and produces WindowStats.
// Windows are measured in simulated milliseconds.
type Collector struct {
	windowMs float64

	// Current window tracking
	windowStartMs float64

	// Event counters for current window
	foodBites       int
	enemyBites      int
	playerBitten    int
	areaGained      float64
	areaLost        float64
	chunksLoaded    int
	chunksUnloaded  int
	gravityPulls    int
	blackHoleFrames int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulated seconds
func NewCollector(windowDurationSec float64) *Collector {
	windowMs := windowDurationSec * 1000
	if windowMs <= 0 {
		windowMs = 1000
	}
	return &Collector{windowMs: windowMs}
}

// RecordAbsorption records one mass transfer, keyed by the victim's kind.
func (c *Collector) RecordAbsorption(victim components.Kind, area float64) {
	switch victim {
	case components.KindPlayer:
		c.playerBitten++
		c.areaLost += area
	case components.KindFood:
		c.foodBites++
		c.areaGained += area
	case components.KindEnemy:
		c.enemyBites++
		c.areaGained += area
	}
}

// RecordChunks records chunk churn.
func (c *Collector) RecordChunks(loaded, unloaded int) {
	c.chunksLoaded += loaded
	c.chunksUnloaded += unloaded
}

// RecordGravityPulls records the number of food entities pulled this frame.
func (c *Collector) RecordGravityPulls(n int) {
	c.gravityPulls += n
}

// RecordBlackHoleFrame records a frame in which a black hole affected the player.
func (c *Collector) RecordBlackHoleFrame() {
	c.blackHoleFrames++
}

// ShouldFlush returns true if enough simulated time has passed to flush the window.
func (c *Collector) ShouldFlush(nowMs float64) bool {
	return nowMs-c.windowStartMs >= c.windowMs
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(
	nowMs float64,
	run, frame int,
	pop Population,
	playerRadius, score float64,
	foodRadii, enemyRadii []float64,
) WindowStats {
	foodMean, _, _, _, _ := ComputeRadiusStats(foodRadii)
	enemyMean, enemyStd, p10, p50, p90 := ComputeRadiusStats(enemyRadii)

	stats := WindowStats{
		WindowStartMs: c.windowStartMs,
		WindowEndMs:   nowMs,
		Run:           run,
		Frame:         frame,

		FoodCount:      pop.Food,
		EnemyCount:     pop.Enemies,
		BlackHoleCount: pop.BlackHoles,
		LoadedChunks:   pop.LoadedChunks,

		FoodBites:       c.foodBites,
		EnemyBites:      c.enemyBites,
		PlayerBitten:    c.playerBitten,
		AreaGained:      c.areaGained,
		AreaLost:        c.areaLost,
		ChunksLoaded:    c.chunksLoaded,
		ChunksUnloaded:  c.chunksUnloaded,
		GravityPulls:    c.gravityPulls,
		BlackHoleFrames: c.blackHoleFrames,

		PlayerRadius: playerRadius,
		Score:        score,

		FoodRadiusMean:  foodMean,
		EnemyRadiusMean: enemyMean,
		EnemyRadiusStd:  enemyStd,
		EnemyRadiusP10:  p10,
		EnemyRadiusP50:  p50,
		EnemyRadiusP90:  p90,
	}

	c.Reset(nowMs)
	return stats
}

// Reset clears counters and starts a new window at startMs.
func (c *Collector) Reset(startMs float64) {
	*c = Collector{windowMs: c.windowMs, windowStartMs: startMs}
}

// WindowMs returns the window length in simulated milliseconds.
func (c *Collector) WindowMs() float64 {
	return c.windowMs
}
