package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/blobworld/components"
)

// RunRecord summarizes one finished run.
type RunRecord struct {
	Run             int     `json:"run"`
	Score           float64 `json:"score"`
	SurvivalMs      float64 `json:"survival_ms"`
	InitialRadius   float64 `json:"initial_radius"`
	PeakRadius      float64 `json:"peak_radius"`
	FinalRadius     float64 `json:"final_radius"`
	FoodEaten       int     `json:"food_eaten"`
	EnemiesEaten    int     `json:"enemies_eaten"`
	BitesTaken      int     `json:"bites_taken"`
	BlackHoleFrames int     `json:"black_hole_frames"`
}

// Summary returns a one-line description of the run.
func (r RunRecord) Summary() string {
	return fmt.Sprintf("score %.0f, peak radius %.1f, %.1fs, %d food, %d enemies",
		r.Score, r.PeakRadius, r.SurvivalMs/1000, r.FoodEaten, r.EnemiesEaten)
}

// LogValue implements slog.LogValuer.
func (r RunRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("run", r.Run),
		slog.Float64("score", r.Score),
		slog.Float64("survival_ms", r.SurvivalMs),
		slog.Float64("peak_radius", r.PeakRadius),
		slog.Float64("final_radius", r.FinalRadius),
		slog.Int("food_eaten", r.FoodEaten),
		slog.Int("enemies_eaten", r.EnemiesEaten),
		slog.Int("bites_taken", r.BitesTaken),
		slog.Int("black_hole_frames", r.BlackHoleFrames),
	)
}

// RunTracker accumulates per-run statistics for the player.
type RunTracker struct {
	current RunRecord
	active  bool
}

// NewRunTracker creates an idle tracker.
func NewRunTracker() *RunTracker {
	return &RunTracker{}
}

// Start begins tracking a new run.
func (rt *RunTracker) Start(run int, initialRadius float64) {
	rt.current = RunRecord{
		Run:           run,
		InitialRadius: initialRadius,
		PeakRadius:    initialRadius,
	}
	rt.active = true
}

// Active reports whether a run is being tracked.
func (rt *RunTracker) Active() bool { return rt.active }

// Observe tracks the peak player radius.
func (rt *RunTracker) Observe(radius float64) {
	if radius > rt.current.PeakRadius {
		rt.current.PeakRadius = radius
	}
}

// RecordBlackHoleFrame counts a frame spent inside a black hole's reach.
func (rt *RunTracker) RecordBlackHoleFrame() {
	rt.current.BlackHoleFrames++
}

// RecordAbsorption records a transfer by victim kind. Only transfers that
// finish off food or an enemy count as eaten.
func (rt *RunTracker) RecordAbsorption(victim components.Kind, killed bool) {
	switch victim {
	case components.KindPlayer:
		rt.current.BitesTaken++
	case components.KindFood:
		if killed {
			rt.current.FoodEaten++
		}
	case components.KindEnemy:
		if killed {
			rt.current.EnemiesEaten++
		}
	}
}

// Current returns the in-progress record.
func (rt *RunTracker) Current() RunRecord { return rt.current }

// Finish closes the run and returns its record.
func (rt *RunTracker) Finish(score, finalRadius, elapsedMs float64) RunRecord {
	rt.current.Score = score
	rt.current.FinalRadius = finalRadius
	rt.current.SurvivalMs = elapsedMs
	rt.active = false
	return rt.current
}
