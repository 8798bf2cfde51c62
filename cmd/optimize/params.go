package main

import (
	"github.com/pthm-cable/blobworld/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of difficulty parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Enemy pressure
			{Name: "ai_acceleration", Path: "ai.acceleration", Min: 0.05, Max: 0.4, Default: 0.15},
			{Name: "ai_flee_factor", Path: "ai.flee_factor", Min: 0.2, Max: 1.2, Default: 0.6},
			{Name: "enemy_base_chance", Path: "enemy.base_chance", Min: 0.05, Max: 0.6, Default: 0.25},
			{Name: "enemy_distance_chance", Path: "enemy.distance_chance", Min: 0.0, Max: 0.12, Default: 0.04},
			{Name: "enemy_max_ratio", Path: "enemy.max_ratio", Min: 1.1, Max: 2.5, Default: 1.6},
			// Black holes
			{Name: "bh_base_chance", Path: "black_hole.base_chance", Min: 0.0, Max: 0.15, Default: 0.04},
			{Name: "bh_drain_rate", Path: "black_hole.drain_rate", Min: 0.01, Max: 0.15, Default: 0.05},
			// Absorption
			{Name: "absorb_rate", Path: "absorption.rate", Min: 0.05, Max: 0.3, Default: 0.15},
			{Name: "eaten_rate_factor", Path: "absorption.eaten_rate_factor", Min: 0.3, Max: 1.0, Default: 0.75},
			// Player
			{Name: "player_acceleration", Path: "player.acceleration", Min: 0.3, Max: 1.2, Default: 0.6},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// fields returns pointers to the config fields in Specs order.
func (pv *ParamVector) fields(cfg *config.Config) []*float64 {
	return []*float64{
		&cfg.AI.Acceleration,
		&cfg.AI.FleeFactor,
		&cfg.Enemy.BaseChance,
		&cfg.Enemy.DistanceChance,
		&cfg.Enemy.MaxRatio,
		&cfg.BlackHole.BaseChance,
		&cfg.BlackHole.DrainRate,
		&cfg.Absorption.Rate,
		&cfg.Absorption.EatenRateFactor,
		&cfg.Player.Acceleration,
	}
}

// ApplyToConfig applies clamped parameter values to a Config.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, f := range pv.fields(cfg) {
		*f = clamped[i]
	}
}

// ExtractFromConfig extracts current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	fields := pv.fields(cfg)
	v := make([]float64, len(fields))
	for i, f := range fields {
		v[i] = *f
	}
	return v
}
