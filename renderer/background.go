package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/camera"
)

// BackgroundRenderer draws a flat backdrop with a world-aligned grid so
// camera motion is visible.
type BackgroundRenderer struct {
	baseColor rl.Color
	lineColor rl.Color
	spacing   float64 // world units between grid lines
}

// NewBackgroundRenderer creates a background renderer.
func NewBackgroundRenderer(spacing float64, baseR, baseG, baseB uint8) *BackgroundRenderer {
	if spacing <= 0 {
		spacing = 100
	}
	return &BackgroundRenderer{
		baseColor: rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		lineColor: rl.Color{R: baseR + 14, G: baseG + 16, B: baseB + 20, A: 255},
		spacing:   spacing,
	}
}

// Draw clears the screen and draws grid lines covering the view.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.baseColor)

	// Skip lines that would be closer than 8 pixels.
	if b.spacing*cam.Zoom < 8 {
		return
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	w, h := int32(cam.ViewportW), int32(cam.ViewportH)

	for x := math.Floor(minX/b.spacing) * b.spacing; x <= maxX; x += b.spacing {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLine(int32(sx), 0, int32(sx), h, b.lineColor)
	}
	for y := math.Floor(minY/b.spacing) * b.spacing; y <= maxY; y += b.spacing {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLine(0, int32(sy), w, int32(sy), b.lineColor)
	}
}
