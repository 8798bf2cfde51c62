package systems

import (
	"math"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

// GravityStrength returns the player's pull strength at the given radius, or
// 0 below the activation radius.
func GravityStrength(cfg *config.Config, radius float64) float64 {
	g := &cfg.Gravity
	if radius < g.ActivationRadius {
		return 0
	}
	return g.BaseStrength * math.Pow(radius/cfg.Player.InitialRadius, g.MassPower)
}

// ApplyPlayerGravity pulls food within range of a large enough player toward
// it, with quadratic falloff. Enemies and black holes are unaffected.
// It returns the number of food entities pulled.
func ApplyPlayerGravity(player components.Blob, blobs []components.Blob, dt float64, cfg *config.Config) int {
	if !player.Valid() {
		return 0
	}
	strength := GravityStrength(cfg, player.Body.Radius)
	if strength == 0 {
		return 0
	}
	reach := player.Body.Radius * cfg.Gravity.RangeMultiplier
	eps := cfg.Physics.Epsilon

	affected := 0
	for _, b := range blobs {
		if b.Kind != components.KindFood {
			continue
		}
		d, dist2 := towards(b, player)
		if dist2 >= reach*reach {
			continue
		}
		f := quadraticFalloff(math.Sqrt(dist2), reach)
		accelerate(b, scaleByInvDist(d, dist2, strength*f*dt, eps))
		affected++
	}
	return affected
}
