package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/blobworld/config"
	"github.com/pthm-cable/blobworld/game"
	"github.com/pthm-cable/blobworld/telemetry"
)

// FitnessEvaluator runs headless autopilot games and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxFrames   int
	targetSec   float64
	frameRates  []float64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastSurvival   float64 // mean survival seconds from most recent Evaluate call
	lastQuality    float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. Each parameter vector is
// played once per frame rate, so a good vector must not depend on dt.
func NewFitnessEvaluator(params *ParamVector, maxFrames int, targetSec float64, frameRates []float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxFrames:   maxFrames,
		targetSec:   targetSec,
		frameRates:  frameRates,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// Last returns mean survival seconds and quality from the most recent evaluation.
func (fe *FitnessEvaluator) Last() (survivalSec, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival, fe.lastQuality
}

// runResult holds the results from a single game.
type runResult struct {
	survivalSec float64
	peakRadius  float64
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame  *telemetry.HallOfFame
}

// rateResult holds the result from one frame-rate evaluation.
type rateResult struct {
	fitness     float64
	survivalSec float64
	quality     float64
	hallOfFame  *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]rateResult, len(fe.frameRates))
	var wg sync.WaitGroup

	for i, fps := range fe.frameRates {
		wg.Add(1)
		go func(idx int, fps float64) {
			defer wg.Done()
			result := fe.runSimulation(x, fps)
			quality := fe.computeQuality(result)
			results[idx] = rateResult{
				fitness:     fe.computeFitness(result.survivalSec, quality),
				survivalSec: result.survivalSec,
				quality:     quality,
				hallOfFame:  result.hallOfFame,
			}
		}(i, fps)
	}
	wg.Wait()

	var totalFitness, totalSurvival, totalQuality float64
	bestRateFitness := math.Inf(1)
	var bestRateHallOfFame *telemetry.HallOfFame
	survivals := make([]float64, len(results))

	for i, r := range results {
		totalFitness += r.fitness
		totalSurvival += r.survivalSec
		totalQuality += r.quality
		survivals[i] = r.survivalSec
		if r.fitness < bestRateFitness {
			bestRateFitness = r.fitness
			bestRateHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(results))
	avgFitness := totalFitness / n
	// Penalize frame-rate dependence.
	avgFitness += 0.5 * cv(survivals)

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestRateHallOfFame
	}
	fe.lastSurvival = totalSurvival / n
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation plays one autopilot game at the given frame rate until the
// player dies or maxFrames is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, fps float64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.StatsWindowSec = fe.statsWindow

	result := &runResult{}
	auto := game.NewAutopilot(cfg)
	g, err := game.New(cfg, game.Options{
		Input:  auto,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Close()

	if err := g.Start(); err != nil {
		return result
	}

	frameMs := 1000 / fps
	now := 0.0
	for i := 0; i < fe.maxFrames && g.State() == game.StatePlaying; i++ {
		auto.Observe(g.RenderState())
		g.Update(now)
		now += frameMs
		if p, ok := g.Store().Player(); ok {
			result.peakRadius = max(result.peakRadius, p.Body.Radius)
		}
	}

	result.survivalSec = g.ElapsedMs() / 1000
	result.hallOfFame = g.HallOfFame()
	return result
}

// copyConfig returns a copy of the base config. The milestone list is shared
// and must be treated as read-only.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: ((survival - target) / target)^2 - 0.2 × quality
// Hitting the target survival time dominates; quality separates configs
// that survive equally long.
func (fe *FitnessEvaluator) computeFitness(survivalSec, quality float64) float64 {
	err := (survivalSec - fe.targetSec) / fe.targetSec
	return err*err - 0.2*quality
}

// Quality component weights.
const (
	qualityWeightGrowth   = 0.40
	qualityWeightPressure = 0.35
	qualityWeightFeeding  = 0.25

	qualityWarmupWindows = 1 // skip first N windows
)

// computeQuality computes run quality in [0, 1]: the player should grow,
// get bitten now and then, and keep finding food.
func (fe *FitnessEvaluator) computeQuality(r *runResult) float64 {
	initial := fe.baseConfig.Player.InitialRadius
	growthScore := clamp01((r.peakRadius/initial - 1) / 4)

	if len(r.windowStats) <= qualityWarmupWindows {
		return qualityWeightGrowth * growthScore
	}
	valid := r.windowStats[qualityWarmupWindows:]

	var bittenWindows int
	feeding := make([]float64, 0, len(valid))
	for _, w := range valid {
		if w.PlayerBitten > 0 {
			bittenWindows++
		}
		feeding = append(feeding, float64(w.FoodBites+w.EnemyBites))
	}

	// About a third of windows should carry some danger.
	bittenFrac := float64(bittenWindows) / float64(len(valid))
	pressureScore := math.Exp(-math.Pow((bittenFrac-0.35)/0.25, 2))

	feedingScore := 1 - math.Exp(-stat.Mean(feeding, nil)/20)

	quality := qualityWeightGrowth*growthScore +
		qualityWeightPressure*pressureScore +
		qualityWeightFeeding*feedingScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
