package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

// ApplyFriction decays velocity by coeff^dt. Splitting an interval into
// several steps yields the same total decay as one step.
func ApplyFriction(b components.Blob, dt, coeff float64) {
	f := math.Pow(coeff, dt)
	b.Vel.X *= f
	b.Vel.Y *= f
}

// ClampVelocity rescales velocity to maxSpeed if it is faster, keeping direction.
func ClampVelocity(b components.Blob, maxSpeed float64) {
	v := velVec(b)
	if s2 := r2.Norm2(v); s2 > maxSpeed*maxSpeed {
		*b.Vel = components.Velocity(r2.Scale(maxSpeed/math.Sqrt(s2), v))
	}
}

// UpdatePosition integrates position with explicit Euler.
func UpdatePosition(b components.Blob, dt float64) {
	b.Pos.X += b.Vel.X * dt
	b.Pos.Y += b.Vel.Y * dt
}

// ShouldRemoveEntity reports whether a non-player, non-black-hole entity has
// shrunk to the death radius.
func ShouldRemoveEntity(b components.Blob, deathRadius float64) bool {
	if b.Kind == components.KindPlayer || b.Kind == components.KindBlackHole {
		return false
	}
	return b.Body.Radius <= deathRadius
}

// IsPlayerDead reports whether the player is absent, corrupt or at or below
// the minimum radius.
func IsPlayerDead(player components.Blob, minRadius float64) bool {
	if !player.Valid() {
		return true
	}
	r := player.Body.Radius
	return math.IsNaN(r) || r <= minRadius
}

// PlayerMaxSpeed returns the size-scaled speed cap for the player.
// Larger players are slower, never below MinSpeed.
func PlayerMaxSpeed(cfg config.PlayerConfig, radius float64) float64 {
	if radius <= 0 {
		return cfg.MaxSpeed
	}
	s := cfg.MaxSpeed * math.Pow(cfg.InitialRadius/radius, cfg.SpeedSizeExponent)
	return clamp(s, cfg.MinSpeed, cfg.MaxSpeed)
}

// ApplyInputAcceleration accelerates the player along (dx, dy), normalized
// so diagonals are no faster than axis moves.
func ApplyInputAcceleration(player components.Blob, dx, dy, accel, dt float64) {
	dir := r2.Vec{X: dx, Y: dy}
	if r2.Norm2(dir) == 0 {
		return
	}
	accelerate(player, r2.Scale(accel*dt, r2.Unit(dir)))
}

// PhysicsSystem integrates every moving entity in the store.
type PhysicsSystem struct {
	player  config.PlayerConfig
	physics config.PhysicsConfig
}

// NewPhysicsSystem creates a physics system.
func NewPhysicsSystem(cfg *config.Config) *PhysicsSystem {
	return &PhysicsSystem{
		player:  cfg.Player,
		physics: cfg.Physics,
	}
}

// Update applies friction, speed caps and integration. Black holes are static.
func (s *PhysicsSystem) Update(store *EntityStore, dt float64) {
	store.Each(func(b components.Blob) {
		switch b.Kind {
		case components.KindBlackHole:
			return
		case components.KindPlayer:
			ApplyFriction(b, dt, s.player.Friction)
			ClampVelocity(b, PlayerMaxSpeed(s.player, b.Body.Radius))
		default:
			ApplyFriction(b, dt, s.physics.Friction)
			ClampVelocity(b, s.physics.EnemyMaxSpeed)
		}
		UpdatePosition(b, dt)
	})
}
