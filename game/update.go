package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/systems"
	"github.com/pthm-cable/blobworld/telemetry"
)

// UpdateResult reports what an Update call did.
type UpdateResult struct {
	Updated    bool // a simulation step ran
	PlayerDied bool // the run ended during this step
}

// Update advances the simulation to nowMs. It does nothing unless Playing.
// The elapsed time since the previous call is clamped to
// TargetFrameMs*MaxFrameMultiplier and normalized so dt is 1 at the target
// frame rate. The first call of a run simulates one nominal frame.
func (g *Game) Update(nowMs float64) UpdateResult {
	if g.state != StatePlaying {
		return UpdateResult{}
	}
	dt := g.frameDelta(nowMs)
	cfg := g.cfg

	g.perf.StartTick()
	defer g.perf.EndTick()

	player, ok := g.store.Player()
	if g.checkDeath(player, ok) {
		return UpdateResult{Updated: true, PlayerDied: true}
	}

	g.perf.StartPhase(telemetry.PhaseInput)
	dx, dy := inputDirection(g.input)
	systems.ApplyInputAcceleration(player, dx, dy, cfg.Player.Acceleration, dt)

	g.perf.StartPhase(telemetry.PhaseCamera)
	g.camera.Follow(player.Pos.X, player.Pos.Y, player.Vel.X, player.Vel.Y, player.Body.Radius, dt)

	// Chunk churn moves component storage; views must be refetched after it.
	g.perf.StartPhase(telemetry.PhaseChunks)
	g.reconcileChunks(player.Body.Radius)

	g.perf.StartPhase(telemetry.PhaseIntegrate)
	g.physics.Update(g.store, dt)

	g.perf.StartPhase(telemetry.PhaseBlackHoles)
	player, _ = g.store.Player()
	g.applyBlackHoles(player, dt)

	g.perf.StartPhase(telemetry.PhaseCollisions)
	scoreDelta := g.resolveCollisions(dt)

	g.perf.StartPhase(telemetry.PhasePurge)
	g.purgeDead()

	player, ok = g.store.Player()
	if g.checkDeath(player, ok) {
		return UpdateResult{Updated: true, PlayerDied: true}
	}

	g.perf.StartPhase(telemetry.PhaseAI)
	blobs := g.store.Blobs()
	g.ai.UpdateEnemies(blobs, player, dt)

	g.perf.StartPhase(telemetry.PhaseGravity)
	pulled := systems.ApplyPlayerGravity(player, blobs, dt, cfg)
	g.collector.RecordGravityPulls(pulled)
	g.checkGravity(player.Body.Radius)

	g.checkMilestones(player.Body.Radius)

	if scoreDelta > 0 {
		g.score += scoreDelta
		g.events.emit(ScoreChanged{Score: g.score})
	}

	g.frame++
	g.runTracker.Observe(player.Body.Radius)
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry(player.Body.Radius)

	return UpdateResult{Updated: true}
}

// frameDelta converts a timestamp into a normalized, clamped dt.
func (g *Game) frameDelta(nowMs float64) float64 {
	t := g.cfg.Timing
	elapsed := t.TargetFrameMs
	if g.hasLast {
		elapsed = nowMs - g.lastMs
	}
	g.lastMs = nowMs
	g.hasLast = true

	if math.IsNaN(elapsed) || elapsed < 0 {
		elapsed = 0
	}
	elapsed = math.Min(elapsed, g.cfg.Derived.MaxDeltaMs)
	g.elapsedMs += elapsed
	return elapsed / t.TargetFrameMs
}

// checkDeath ends the run if the player is dead or its state is corrupt.
// It reports whether the run ended.
func (g *Game) checkDeath(player components.Blob, ok bool) bool {
	if !ok || !player.Valid() {
		g.logger.Warn("invariant violated: player missing", "run", g.run, "frame", g.frame)
		g.endRun(0)
		return true
	}
	r := player.Body.Radius
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		g.logger.Warn("invariant violated: player radius", "run", g.run, "frame", g.frame, "radius", r)
		g.endRun(0)
		return true
	}
	if systems.IsPlayerDead(player, g.cfg.Player.MinRadius) {
		g.endRun(r)
		return true
	}
	return false
}

// applyBlackHoles applies every black hole's pull and drain to the player.
func (g *Game) applyBlackHoles(player components.Blob, dt float64) {
	affected := false
	g.store.Each(func(b components.Blob) {
		if b.Kind != components.KindBlackHole {
			return
		}
		if systems.ApplyBlackHoleEffect(b, player, dt, g.cfg) {
			affected = true
		}
	})
	if affected {
		g.collector.RecordBlackHoleFrame()
		g.runTracker.RecordBlackHoleFrame()
	}
}

// resolveCollisions runs every candidate pair through HandleCollision and
// returns the score earned this frame.
func (g *Game) resolveCollisions(dt float64) float64 {
	cfg := g.cfg
	g.store.RebuildSpatial(cfg.Absorption.AttractRange / 2)

	var scoreDelta float64
	g.store.EachPair(func(a, b components.Blob) {
		res := systems.HandleCollision(a, b, dt, cfg)
		if !res.IsAbsorption {
			return
		}
		// The victim is still the smaller of the two after a transfer.
		victim := a
		if b.Body.Radius < a.Body.Radius {
			victim = b
		}
		g.collector.RecordAbsorption(victim.Kind, res.AreaTransferred)
		g.runTracker.RecordAbsorption(victim.Kind, victim.Body.Radius <= cfg.Absorption.DeathRadius)
		scoreDelta += res.PlayerScored * cfg.Absorption.ScorePerRadius
	})
	return scoreDelta
}

// checkGravity emits GravityActivated when the player crosses the
// activation radius. It re-arms if the player shrinks below it.
func (g *Game) checkGravity(radius float64) {
	active := radius >= g.cfg.Gravity.ActivationRadius
	if active && !g.gravityActive {
		g.logger.Info("gravity activated", "run", g.run, "radius", radius)
		g.events.emit(GravityActivated{PlayerRadius: radius})
	}
	g.gravityActive = active
}

// checkMilestones emits one MilestoneReached per milestone crossed.
func (g *Game) checkMilestones(radius float64) {
	radii := g.cfg.Milestones.Radii
	for g.nextMilestone < len(radii) && radius >= radii[g.nextMilestone] {
		m := radii[g.nextMilestone]
		g.nextMilestone++
		g.logger.Info("milestone reached", "run", g.run, "radius", m, "score", g.score)
		g.events.emit(MilestoneReached{Radius: m, Score: g.score, ElapsedMs: g.elapsedMs})
		if g.outputManager != nil {
			bm := telemetry.Bookmark{
				Type:        telemetry.BookmarkMilestone,
				Run:         g.run,
				ElapsedMs:   g.elapsedMs,
				Description: fmt.Sprintf("radius %.0f at score %.0f", m, g.score),
			}
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				g.logger.Error("failed to write bookmark", "error", err)
			}
		}
	}
}
