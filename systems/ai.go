package systems

import (
	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

// ChaseAI steers enemies within aggro range toward the player. Enemies the
// player could absorb flee instead. Acceleration grows with difficulty and
// shrinks with enemy size.
type ChaseAI struct {
	ai            config.AIConfig
	threshold     float64
	initialRadius float64
	eps           float64
}

// NewChaseAI creates the default enemy AI.
func NewChaseAI(cfg *config.Config) *ChaseAI {
	return &ChaseAI{
		ai:            cfg.AI,
		threshold:     cfg.Absorption.Threshold,
		initialRadius: cfg.Player.InitialRadius,
		eps:           cfg.Physics.Epsilon,
	}
}

// UpdateEnemies adjusts enemy velocities. Only enemies are mutated.
func (a *ChaseAI) UpdateEnemies(blobs []components.Blob, player components.Blob, dt float64) {
	if !player.Valid() {
		return
	}
	difficulty := DifficultyScale(player.Body.Radius, a.initialRadius)
	aggro2 := a.ai.AggroRange * a.ai.AggroRange

	for _, e := range blobs {
		if e.Kind != components.KindEnemy || e.Body.Radius <= 0 {
			continue
		}
		d, dist2 := towards(e, player)
		if dist2 > aggro2 {
			continue
		}

		accel := a.ai.Acceleration * difficulty * (a.ai.ReferenceRadius / e.Body.Radius) * dt
		if CanAbsorb(player, e, a.threshold) {
			accel = -accel * a.ai.FleeFactor
		}
		accelerate(e, scaleByInvDist(d, dist2, accel, a.eps))
	}
}
