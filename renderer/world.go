// Package renderer draws the world for the debug viewer using raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/camera"
	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/systems"
)

// WorldRenderer draws the render buffer as flat circles.
type WorldRenderer struct {
	// Minimum on-screen radius so tiny food stays visible when zoomed out.
	MinScreenRadius float32
}

// NewWorldRenderer creates a world renderer.
func NewWorldRenderer() *WorldRenderer {
	return &WorldRenderer{MinScreenRadius: 1.5}
}

// HueColor converts a hue in degrees to a saturated color.
func HueColor(hue float32, alpha uint8) rl.Color {
	c := rl.ColorFromHSV(hue, 0.65, 0.95)
	c.A = alpha
	return c
}

// DrawBalls draws count balls from a stride-4 buffer (x, y, radius, hue).
func (r *WorldRenderer) DrawBalls(cam *camera.Camera, balls []float32, count int) {
	zoom := float32(cam.Zoom)
	for i := 0; i < count; i++ {
		off := i * systems.BallStride
		if off+systems.BallStride > len(balls) {
			return
		}
		x, y, radius, hue := balls[off], balls[off+1], balls[off+2], balls[off+3]

		sx, sy := cam.WorldToScreen(float64(x), float64(y))
		sr := max(radius*zoom, r.MinScreenRadius)
		rl.DrawCircleV(rl.Vector2{X: float32(sx), Y: float32(sy)}, sr, HueColor(hue, 220))
	}
}

// DrawEntities draws kind-specific details on top of the balls: an outline
// on the player and a dark core on black holes.
func (r *WorldRenderer) DrawEntities(cam *camera.Camera, ents []components.Entity) {
	zoom := float32(cam.Zoom)
	for i := range ents {
		e := &ents[i]
		sx, sy := cam.WorldToScreen(e.X, e.Y)
		sr := max(float32(e.Radius)*zoom, r.MinScreenRadius)

		switch e.Kind {
		case components.KindPlayer:
			rl.DrawCircleLines(int32(sx), int32(sy), sr+2, rl.White)
		case components.KindBlackHole:
			rl.DrawCircleV(rl.Vector2{X: float32(sx), Y: float32(sy)}, sr*0.6, rl.Black)
		}
	}
}
