package game

import (
	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry(playerRadius float64) {
	if !g.collector.ShouldFlush(g.elapsedMs) {
		return
	}

	foodRadii, enemyRadii, counts := g.sampleRadii()
	counts.LoadedChunks = g.chunks.Len()

	stats := g.collector.Flush(g.elapsedMs, g.run, g.frame, counts, playerRadius, g.score, foodRadii, enemyRadii)
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			g.logger.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, g.run, stats.WindowEndMs); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarks.Check(stats, g.cfg.Player.MinRadius) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				g.logger.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sampleRadii collects radius distributions and population counts.
func (g *Game) sampleRadii() (food, enemies []float64, counts telemetry.Population) {
	g.store.Each(func(b components.Blob) {
		switch b.Kind {
		case components.KindFood:
			food = append(food, b.Body.Radius)
			counts.Food++
		case components.KindEnemy:
			enemies = append(enemies, b.Body.Radius)
			counts.Enemies++
		case components.KindBlackHole:
			counts.BlackHoles++
		}
	})
	return food, enemies, counts
}
