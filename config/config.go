// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation tuning parameters.
// A Config is treated as immutable once passed to the simulation.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Timing     TimingConfig     `yaml:"timing"`
	Player     PlayerConfig     `yaml:"player"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Absorption AbsorptionConfig `yaml:"absorption"`
	BlackHole  BlackHoleConfig  `yaml:"black_hole"`
	Gravity    GravityConfig    `yaml:"gravity"`
	Chunk      ChunkConfig      `yaml:"chunk"`
	Food       FoodConfig       `yaml:"food"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Camera     CameraConfig     `yaml:"camera"`
	Render     RenderConfig     `yaml:"render"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	AI         AIConfig         `yaml:"ai"`
	Milestones MilestoneConfig  `yaml:"milestones"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewport settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TimingConfig controls dt normalization and the slow-frame guard.
type TimingConfig struct {
	TargetFrameMs      float64 `yaml:"target_frame_ms"`      // dt = elapsed / this
	MaxFrameMultiplier float64 `yaml:"max_frame_multiplier"` // elapsed is clamped to TargetFrameMs * this
}

// PlayerConfig holds player blob parameters.
type PlayerConfig struct {
	InitialRadius     float64 `yaml:"initial_radius"`
	MinRadius         float64 `yaml:"min_radius"` // run ends at or below this
	Acceleration      float64 `yaml:"acceleration"`
	MaxSpeed          float64 `yaml:"max_speed"`
	MinSpeed          float64 `yaml:"min_speed"`           // speed floor for very large players
	SpeedSizeExponent float64 `yaml:"speed_size_exponent"` // maxSpeed *= (initial/r)^this
	Friction          float64 `yaml:"friction"`
	Hue               float64 `yaml:"hue"`
}

// PhysicsConfig holds shared integration parameters.
type PhysicsConfig struct {
	Friction      float64 `yaml:"friction"` // non-player friction per frame
	EnemyMaxSpeed float64 `yaml:"enemy_max_speed"`
	Epsilon       float64 `yaml:"epsilon"` // added to every squared-distance denominator
}

// AbsorptionConfig holds collision and mass-transfer parameters.
type AbsorptionConfig struct {
	Threshold        float64 `yaml:"threshold"`          // larger.r must exceed smaller.r * this
	Rate             float64 `yaml:"rate"`               // transfer per unit overlap per frame
	MaxRatio         float64 `yaml:"max_ratio"`          // per-frame cap as a fraction of the victim radius
	EatenRateFactor  float64 `yaml:"eaten_rate_factor"`  // rate multiplier when the player is the victim
	EatenRatioFactor float64 `yaml:"eaten_ratio_factor"` // max ratio multiplier when the player is the victim
	MinTransfer      float64 `yaml:"min_transfer"`       // noise floor
	DeathRadius      float64 `yaml:"death_radius"`
	PullStrength     float64 `yaml:"pull_strength"`    // magnetic pull while overlapping
	AttractRange     float64 `yaml:"attract_range"`    // pre-contact surface gap
	AttractStrength  float64 `yaml:"attract_strength"` // pre-contact inverse-distance pull
	PushStrength     float64 `yaml:"push_strength"`
	ScorePerRadius   float64 `yaml:"score_per_radius"`
}

// BlackHoleConfig holds black hole effect and spawn parameters.
type BlackHoleConfig struct {
	PullMultiplier  float64 `yaml:"pull_multiplier"`  // pull radius = r * this
	DrainMultiplier float64 `yaml:"drain_multiplier"` // drain radius = r * this
	PullStrength    float64 `yaml:"pull_strength"`
	DrainRate       float64 `yaml:"drain_rate"` // radius per frame
	Hue             float64 `yaml:"hue"`

	MinDistance      float64 `yaml:"min_distance"` // chunks from origin
	BaseChance       float64 `yaml:"base_chance"`
	DistanceChance   float64 `yaml:"distance_chance"`
	DifficultyChance float64 `yaml:"difficulty_chance"`
	MaxChance        float64 `yaml:"max_chance"`
	MinRadius        float64 `yaml:"min_radius"`
	MaxRadius        float64 `yaml:"max_radius"`
}

// GravityConfig holds player gravity parameters.
type GravityConfig struct {
	ActivationRadius float64 `yaml:"activation_radius"`
	BaseStrength     float64 `yaml:"base_strength"`
	MassPower        float64 `yaml:"mass_power"`
	RangeMultiplier  float64 `yaml:"range_multiplier"` // range = player.r * this
}

// ChunkConfig holds world chunking parameters.
type ChunkConfig struct {
	Size            float64 `yaml:"size"`
	BaseLoadRadius  int     `yaml:"base_load_radius"`
	LoadExtraBuffer int     `yaml:"load_extra_buffer"` // prefetch ring beyond the view
	UnloadBuffer    int     `yaml:"unload_buffer"`     // hysteresis band
}

// FoodConfig holds food spawn parameters.
type FoodConfig struct {
	MinCount  int     `yaml:"min_count"`
	MaxCount  int     `yaml:"max_count"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	HueMin    float64 `yaml:"hue_min"`
	HueMax    float64 `yaml:"hue_max"`
}

// EnemyConfig holds enemy spawn parameters.
type EnemyConfig struct {
	BaseChance       float64 `yaml:"base_chance"`
	DistanceChance   float64 `yaml:"distance_chance"`
	DifficultyChance float64 `yaml:"difficulty_chance"`
	MaxChance        float64 `yaml:"max_chance"`
	SecondChance     float64 `yaml:"second_chance"`
	BaseRadius       float64 `yaml:"base_radius"`
	RadiusVariance   float64 `yaml:"radius_variance"`
	DistanceRadius   float64 `yaml:"distance_radius"` // radius added per chunk of distance
	MinRatio         float64 `yaml:"min_ratio"`       // of player radius
	MaxRatio         float64 `yaml:"max_ratio"`
	MaxInitialSpeed  float64 `yaml:"max_initial_speed"`
	HueMin           float64 `yaml:"hue_min"`
	HueMax           float64 `yaml:"hue_max"`
}

// CameraConfig holds camera smoothing parameters.
type CameraConfig struct {
	Lerp         float64 `yaml:"lerp"`
	ZoomLerp     float64 `yaml:"zoom_lerp"`
	LookAhead    float64 `yaml:"look_ahead"` // frames of velocity to lead by
	BaseZoom     float64 `yaml:"base_zoom"`
	ZoomExponent float64 `yaml:"zoom_exponent"`
	MinZoom      float64 `yaml:"min_zoom"`
	MaxZoom      float64 `yaml:"max_zoom"`
}

// RenderConfig holds render snapshot parameters.
type RenderConfig struct {
	MaxBalls            int     `yaml:"max_balls"`
	VisibleRadiusBuffer float64 `yaml:"visible_radius_buffer"` // entities within view + r*this are visible
}

// SpatialConfig holds spatial hash parameters.
type SpatialConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// AIConfig holds the default enemy AI parameters.
type AIConfig struct {
	AggroRange      float64 `yaml:"aggro_range"`
	Acceleration    float64 `yaml:"acceleration"`
	ReferenceRadius float64 `yaml:"reference_radius"` // enemies of this radius get the base acceleration
	FleeFactor      float64 `yaml:"flee_factor"`
}

// MilestoneConfig lists player radius milestones.
type MilestoneConfig struct {
	Radii []float64 `yaml:"radii"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowSec float64 `yaml:"stats_window_sec"`
	PerfWindow     int     `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxDeltaMs   float64 // Timing.TargetFrameMs * Timing.MaxFrameMultiplier
	HalfDiagonal float64 // half the screen diagonal in pixels
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every out-of-range parameter.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", name, v))
		}
	}
	unit := func(name string, v float64) {
		if !(v > 0 && v < 1) {
			errs = append(errs, fmt.Errorf("%s must be in (0,1), got %v", name, v))
		}
	}

	positive("timing.target_frame_ms", c.Timing.TargetFrameMs)
	if c.Timing.MaxFrameMultiplier < 1 {
		errs = append(errs, fmt.Errorf("timing.max_frame_multiplier must be >= 1, got %v", c.Timing.MaxFrameMultiplier))
	}
	positive("player.initial_radius", c.Player.InitialRadius)
	positive("player.min_radius", c.Player.MinRadius)
	if c.Player.MinRadius >= c.Player.InitialRadius {
		errs = append(errs, errors.New("player.min_radius must be below player.initial_radius"))
	}
	unit("player.friction", c.Player.Friction)
	unit("physics.friction", c.Physics.Friction)
	positive("physics.epsilon", c.Physics.Epsilon)
	if c.Absorption.Threshold < 1 {
		errs = append(errs, fmt.Errorf("absorption.threshold must be >= 1, got %v", c.Absorption.Threshold))
	}
	unit("absorption.max_ratio", c.Absorption.MaxRatio)
	positive("absorption.death_radius", c.Absorption.DeathRadius)
	positive("chunk.size", c.Chunk.Size)
	if c.Chunk.BaseLoadRadius < 0 || c.Chunk.LoadExtraBuffer < 0 || c.Chunk.UnloadBuffer < 0 {
		errs = append(errs, errors.New("chunk radii and buffers must be >= 0"))
	}
	if c.Food.MinCount < 0 || c.Food.MaxCount < c.Food.MinCount {
		errs = append(errs, fmt.Errorf("food counts must satisfy 0 <= min <= max, got [%d,%d]", c.Food.MinCount, c.Food.MaxCount))
	}
	if c.Enemy.MinRatio > c.Enemy.MaxRatio {
		errs = append(errs, errors.New("enemy.min_ratio must not exceed enemy.max_ratio"))
	}
	positive("spatial.cell_size", c.Spatial.CellSize)
	if c.Render.MaxBalls <= 0 {
		errs = append(errs, fmt.Errorf("render.max_balls must be > 0, got %d", c.Render.MaxBalls))
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom {
		errs = append(errs, errors.New("camera zoom range must satisfy 0 < min <= max"))
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxDeltaMs = c.Timing.TargetFrameMs * c.Timing.MaxFrameMultiplier
	c.Derived.HalfDiagonal = math.Hypot(float64(c.Screen.Width), float64(c.Screen.Height)) / 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
