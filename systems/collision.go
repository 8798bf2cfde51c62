package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

// CollisionResult describes the outcome of one pair interaction.
type CollisionResult struct {
	AreaTransferred float64 // pi * (r_before^2 - r_after^2) of the victim
	IsAbsorption    bool
	PlayerScored    float64 // radius gained by the player, 0 if none
}

// CanAbsorb reports whether larger is allowed to absorb smaller.
// The player eats food unconditionally. Player and enemy eat each other only
// when the eater's radius strictly exceeds the victim's times threshold.
func CanAbsorb(larger, smaller components.Blob, threshold float64) bool {
	switch {
	case larger.Kind == components.KindPlayer && smaller.Kind == components.KindFood:
		return larger.Body.Radius > smaller.Body.Radius
	case larger.Kind == components.KindPlayer && smaller.Kind == components.KindEnemy,
		larger.Kind == components.KindEnemy && smaller.Kind == components.KindPlayer:
		return larger.Body.Radius > smaller.Body.Radius*threshold
	}
	return false
}

// HandleCollision resolves one candidate pair. Eligible pairs exchange area
// when overlapping and attract when within range; ineligible overlapping
// pairs push apart. Black holes never collide.
func HandleCollision(a, b components.Blob, dt float64, cfg *config.Config) CollisionResult {
	if a.Kind == components.KindBlackHole || b.Kind == components.KindBlackHole {
		return CollisionResult{}
	}

	larger, smaller := a, b
	if b.Body.Radius > a.Body.Radius {
		larger, smaller = b, a
	}

	abs := &cfg.Absorption
	eps := cfg.Physics.Epsilon

	// d points from smaller to larger.
	d, dist2 := towards(smaller, larger)
	sumR := larger.Body.Radius + smaller.Body.Radius
	overlapping := dist2 < sumR*sumR

	if !CanAbsorb(larger, smaller, abs.Threshold) {
		if overlapping {
			push(larger, smaller, d, dist2, sumR, dt, abs.PushStrength, eps)
		}
		return CollisionResult{}
	}

	if !overlapping {
		gap := math.Sqrt(dist2) - sumR
		if gap < abs.AttractRange {
			// Magnitude AttractStrength/dist.
			accelerate(smaller, r2.Scale(abs.AttractStrength*dt/(dist2+eps), d))
		}
		return CollisionResult{}
	}

	accelerate(smaller, scaleByInvDist(d, dist2, abs.PullStrength*dt, eps))

	rate := abs.Rate
	maxRatio := abs.MaxRatio
	if smaller.Kind == components.KindPlayer {
		rate *= abs.EatenRateFactor
		maxRatio *= abs.EatenRatioFactor
	}

	overlap := sumR - math.Sqrt(dist2)
	transfer := math.Min(overlap*rate*dt, smaller.Body.Radius*maxRatio)
	if transfer <= abs.MinTransfer || smaller.Body.Radius <= abs.DeathRadius {
		return CollisionResult{}
	}

	sBefore := smaller.Body.Radius
	sAfter := math.Max(0, sBefore-transfer)
	lBefore := larger.Body.Radius
	area := sBefore*sBefore - sAfter*sAfter

	smaller.Body.Radius = sAfter
	larger.Body.Radius = math.Sqrt(lBefore*lBefore + area)

	res := CollisionResult{
		AreaTransferred: math.Pi * area,
		IsAbsorption:    true,
	}
	if larger.Kind == components.KindPlayer {
		res.PlayerScored = larger.Body.Radius - lBefore
	}
	return res
}

// push separates an overlapping pair along the line between centres,
// proportionally to penetration depth.
func push(larger, smaller components.Blob, d r2.Vec, dist2, sumR, dt, strength, eps float64) {
	if dist2 == 0 {
		return
	}
	depth := sumR - math.Sqrt(dist2)
	impulse := scaleByInvDist(d, dist2, depth*strength*dt, eps)
	accelerate(larger, impulse)
	accelerate(smaller, r2.Scale(-1, impulse))
}

// ApplyBlackHoleEffect pulls the player toward a black hole inside its pull
// radius and drains the player's radius inside its drain radius. Drain stops
// at the player's minimum radius. It reports whether the player was affected.
func ApplyBlackHoleEffect(bh, player components.Blob, dt float64, cfg *config.Config) bool {
	if bh.Kind != components.KindBlackHole || !player.Valid() {
		return false
	}
	bhc := &cfg.BlackHole

	pullR := bh.Body.Radius * bhc.PullMultiplier
	d, dist2 := towards(player, bh)
	if dist2 >= pullR*pullR {
		return false
	}
	dist := math.Sqrt(dist2)
	accelerate(player, scaleByInvDist(d, dist2, bhc.PullStrength*quadraticFalloff(dist, pullR)*dt, cfg.Physics.Epsilon))

	drainR := bh.Body.Radius * bhc.DrainMultiplier
	minR := cfg.Player.MinRadius
	if dist2 < drainR*drainR && player.Body.Radius > minR {
		player.Body.Radius = math.Max(minR, player.Body.Radius-bhc.DrainRate*dt)
	}
	return true
}
