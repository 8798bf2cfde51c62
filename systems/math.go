package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/blobworld/components"
)

// posVec returns a blob's position as a vector.
func posVec(b components.Blob) r2.Vec {
	return r2.Vec(*b.Pos)
}

// velVec returns a blob's velocity as a vector.
func velVec(b components.Blob) r2.Vec {
	return r2.Vec(*b.Vel)
}

// accelerate adds dv to a blob's velocity.
func accelerate(b components.Blob, dv r2.Vec) {
	*b.Vel = components.Velocity(r2.Add(velVec(b), dv))
}

// towards returns the offset from a to b and its squared length.
func towards(a, b components.Blob) (r2.Vec, float64) {
	d := r2.Sub(posVec(b), posVec(a))
	return d, r2.Norm2(d)
}

// scaleByInvDist scales d by k / |d|, guarding the denominator with eps.
// The result has magnitude k when |d| is large relative to eps.
func scaleByInvDist(d r2.Vec, dist2, k, eps float64) r2.Vec {
	return r2.Scale(k/math.Sqrt(dist2+eps), d)
}

// clamp clamps v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// quadraticFalloff returns (1 - dist/reach)^2, or 0 outside reach.
func quadraticFalloff(dist, reach float64) float64 {
	if reach <= 0 || dist >= reach {
		return 0
	}
	f := 1 - dist/reach
	return f * f
}
