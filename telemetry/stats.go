package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Population holds entity counts sampled at a window end.
type Population struct {
	Food         int
	Enemies      int
	BlackHoles   int
	LoadedChunks int
}

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartMs float64 `csv:"-"`
	WindowEndMs   float64 `csv:"window_end_ms"`
	Run           int     `csv:"run"`
	Frame         int     `csv:"frame"`

	// Population at window end
	FoodCount      int `csv:"food"`
	EnemyCount     int `csv:"enemies"`
	BlackHoleCount int `csv:"black_holes"`
	LoadedChunks   int `csv:"chunks"`

	// Events during window
	FoodBites       int     `csv:"food_bites"`
	EnemyBites      int     `csv:"enemy_bites"`
	PlayerBitten    int     `csv:"player_bitten"`
	AreaGained      float64 `csv:"area_gained"`
	AreaLost        float64 `csv:"area_lost"`
	ChunksLoaded    int     `csv:"chunks_loaded"`
	ChunksUnloaded  int     `csv:"chunks_unloaded"`
	GravityPulls    int     `csv:"gravity_pulls"`
	BlackHoleFrames int     `csv:"black_hole_frames"`

	// Player at window end
	PlayerRadius float64 `csv:"player_radius"`
	Score        float64 `csv:"score"`

	// Radius distributions (sampled at window end)
	FoodRadiusMean float64 `csv:"food_r_mean"`

	EnemyRadiusMean float64 `csv:"enemy_r_mean"`
	EnemyRadiusStd  float64 `csv:"enemy_r_std"`
	EnemyRadiusP10  float64 `csv:"enemy_r_p10"`
	EnemyRadiusP50  float64 `csv:"enemy_r_p50"`
	EnemyRadiusP90  float64 `csv:"enemy_r_p90"`
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeRadiusStats calculates mean, standard deviation and percentiles.
func ComputeRadiusStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start_ms", s.WindowStartMs),
		slog.Float64("window_end_ms", s.WindowEndMs),
		slog.Int("run", s.Run),
		slog.Int("frame", s.Frame),
		slog.Int("food", s.FoodCount),
		slog.Int("enemies", s.EnemyCount),
		slog.Int("black_holes", s.BlackHoleCount),
		slog.Int("chunks", s.LoadedChunks),
		slog.Int("food_bites", s.FoodBites),
		slog.Int("enemy_bites", s.EnemyBites),
		slog.Int("player_bitten", s.PlayerBitten),
		slog.Float64("area_gained", s.AreaGained),
		slog.Float64("area_lost", s.AreaLost),
		slog.Int("chunks_loaded", s.ChunksLoaded),
		slog.Int("chunks_unloaded", s.ChunksUnloaded),
		slog.Int("gravity_pulls", s.GravityPulls),
		slog.Int("black_hole_frames", s.BlackHoleFrames),
		slog.Float64("player_radius", s.PlayerRadius),
		slog.Float64("score", s.Score),
		slog.Float64("food_r_mean", s.FoodRadiusMean),
		slog.Float64("enemy_r_mean", s.EnemyRadiusMean),
		slog.Float64("enemy_r_std", s.EnemyRadiusStd),
		slog.Float64("enemy_r_p10", s.EnemyRadiusP10),
		slog.Float64("enemy_r_p50", s.EnemyRadiusP50),
		slog.Float64("enemy_r_p90", s.EnemyRadiusP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
