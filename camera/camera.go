// Package camera provides a smoothed follow camera over an unbounded world.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/blobworld/config"
)

// Camera controls the viewport into the simulation world.
// It follows a target with frame-rate independent smoothing and zooms out as
// the target grows.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	cfg           config.CameraConfig
	initialRadius float64
}

// New creates a camera at the origin with the base zoom.
func New(viewportW, viewportH float64, cfg config.CameraConfig, initialRadius float64) *Camera {
	return &Camera{
		Zoom:          cfg.BaseZoom,
		ViewportW:     viewportW,
		ViewportH:     viewportH,
		MinZoom:       cfg.MinZoom,
		MaxZoom:       cfg.MaxZoom,
		cfg:           cfg,
		initialRadius: initialRadius,
	}
}

// SmoothFactor converts a per-frame lerp factor into the factor for a step
// of dt frames: 1 - (1-base)^dt.
func SmoothFactor(base, dt float64) float64 {
	return 1 - math.Pow(1-base, dt)
}

// TargetZoom returns the zoom the camera settles at for a target of the
// given radius.
func (c *Camera) TargetZoom(radius float64) float64 {
	if radius <= 0 {
		return c.cfg.BaseZoom
	}
	z := c.cfg.BaseZoom * math.Pow(c.initialRadius/radius, c.cfg.ZoomExponent)
	return clamp(z, c.MinZoom, c.MaxZoom)
}

// Follow moves the camera toward a point ahead of the target along its
// velocity and eases the zoom toward TargetZoom(radius).
func (c *Camera) Follow(x, y, vx, vy, radius, dt float64) {
	target := r2.Add(r2.Vec{X: x, Y: y}, r2.Scale(c.cfg.LookAhead, r2.Vec{X: vx, Y: vy}))
	pos := r2.Vec{X: c.X, Y: c.Y}

	k := SmoothFactor(c.cfg.Lerp, dt)
	pos = r2.Add(pos, r2.Scale(k, r2.Sub(target, pos)))
	c.X, c.Y = pos.X, pos.Y

	kz := SmoothFactor(c.cfg.ZoomLerp, dt)
	c.Zoom += (c.TargetZoom(radius) - c.Zoom) * kz
}

// Snap places the camera on (x, y) at the settled zoom for radius.
func (c *Camera) Snap(x, y, radius float64) {
	c.X, c.Y = x, y
	c.Zoom = c.TargetZoom(radius)
}

// ViewRadius returns the world-space distance from the camera center to a
// viewport corner.
func (c *Camera) ViewRadius() float64 {
	return math.Hypot(c.ViewportW, c.ViewportH) / (2 * c.Zoom)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return math.Abs(wx-c.X) <= halfW && math.Abs(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// Reset returns the camera to the origin and base zoom.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.Zoom = c.cfg.BaseZoom
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
