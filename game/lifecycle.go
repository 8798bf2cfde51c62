package game

import (
	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/systems"
	"github.com/pthm-cable/blobworld/telemetry"
)

// newRun clears the world and spawns a fresh player at the origin.
func (g *Game) newRun() {
	cfg := g.cfg

	g.store.Clear()
	g.chunks.Reset()
	g.store.SpawnPlayer(0, 0, cfg.Player.InitialRadius, cfg.Player.Hue)
	g.camera.Snap(0, 0, cfg.Player.InitialRadius)

	g.run++
	g.frame = 0
	g.elapsedMs = 0
	g.hasLast = false
	g.score = 0
	g.nextMilestone = 0
	g.gravityActive = false

	g.collector.Reset(0)
	g.bookmarks.Reset()
	g.runTracker.Start(g.run, cfg.Player.InitialRadius)

	g.reconcileChunks(cfg.Player.InitialRadius)
	g.logger.Info("run started", "run", g.run, "chunks", g.chunks.Len(), "entities", g.store.Len())
}

// reconcileChunks loads chunks entering the view and unloads chunks that
// left the hysteresis band. New chunks are scaled to playerRadius.
func (g *Game) reconcileChunks(playerRadius float64) {
	cx, cy := g.camera.X, g.camera.Y
	view := g.camera.ViewRadius()

	loaded := 0
	for _, c := range g.chunks.ChunksToLoad(cx, cy, view) {
		ents := systems.GenerateChunk(g.cfg, c.X, c.Y, playerRadius)
		g.store.AddChunk(c.Key(), ents)
		g.chunks.MarkLoaded(c)
		loaded++
	}

	unloaded := 0
	for _, key := range g.chunks.ChunksToUnload(cx, cy, view) {
		removed := g.store.RemoveChunk(key)
		g.chunks.MarkUnloaded(key)
		unloaded++
		g.logger.Debug("chunk unloaded", "chunk", key.String(), "entities", removed)
	}

	if loaded > 0 || unloaded > 0 {
		g.collector.RecordChunks(loaded, unloaded)
		g.logger.Debug("chunks reconciled",
			"loaded", loaded,
			"unloaded", unloaded,
			"resident", g.chunks.Len(),
		)
	}
}

// purgeDead removes entities that shrank to the death radius.
func (g *Game) purgeDead() int {
	death := g.cfg.Absorption.DeathRadius
	return g.store.RemoveWhere(func(b components.Blob) bool {
		return systems.ShouldRemoveEntity(b, death)
	})
}

// endRun records the finished run and transitions to GameOver.
func (g *Game) endRun(finalRadius float64) {
	if g.score > g.highScore {
		g.highScore = g.score
	}

	record := g.runTracker.Finish(g.score, finalRadius, g.elapsedMs)
	if g.hallOfFame.Consider(record) {
		g.logger.Info("hall of fame entry", "run", record.Run, "score", record.Score)
	}
	g.logger.Info("player died", "run", g.run, "run_stats", record)

	if g.outputManager != nil {
		bm := telemetry.Bookmark{
			Type:        telemetry.BookmarkDeath,
			Run:         g.run,
			ElapsedMs:   g.elapsedMs,
			Description: record.Summary(),
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			g.logger.Error("failed to write bookmark", "error", err)
		}
	}

	g.events.emit(PlayerDied{Score: g.score, HighScore: g.highScore})
	g.setState(StateGameOver)
}
