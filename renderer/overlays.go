package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/camera"
	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

var (
	chunkColor    = rl.Color{R: 90, G: 140, B: 200, A: 120}
	velocityColor = rl.Color{R: 240, G: 240, B: 120, A: 200}
	pullColor     = rl.Color{R: 180, G: 90, B: 220, A: 90}
	drainColor    = rl.Color{R: 230, G: 60, B: 90, A: 140}
	gravityColor  = rl.Color{R: 100, G: 220, B: 140, A: 90}
)

// DrawChunkBounds outlines every loaded chunk with its key.
func DrawChunkBounds(cam *camera.Camera, keys []components.ChunkKey, chunkSize float64) {
	for _, key := range keys {
		cx, cy := key.Coords()
		x0, y0 := cam.WorldToScreen(float64(cx)*chunkSize, float64(cy)*chunkSize)
		size := float32(chunkSize * cam.Zoom)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x0), Y: float32(y0), Width: size, Height: size}, 1, chunkColor)
		rl.DrawText(key.String(), int32(x0)+4, int32(y0)+4, 10, chunkColor)
	}
}

// DrawVelocities draws each entity's velocity scaled by frames of travel.
func DrawVelocities(cam *camera.Camera, ents []components.Entity, frames float64) {
	for i := range ents {
		e := &ents[i]
		if e.VX == 0 && e.VY == 0 {
			continue
		}
		sx, sy := cam.WorldToScreen(e.X, e.Y)
		ex, ey := cam.WorldToScreen(e.X+e.VX*frames, e.Y+e.VY*frames)
		rl.DrawLineV(rl.Vector2{X: float32(sx), Y: float32(sy)}, rl.Vector2{X: float32(ex), Y: float32(ey)}, velocityColor)
	}
}

// DrawReach draws black hole pull and drain rings and, once active, the
// player's gravity reach.
func DrawReach(cam *camera.Camera, ents []components.Entity, cfg *config.Config) {
	zoom := float32(cam.Zoom)
	for i := range ents {
		e := &ents[i]
		sx, sy := cam.WorldToScreen(e.X, e.Y)
		r := float32(e.Radius) * zoom

		switch e.Kind {
		case components.KindBlackHole:
			rl.DrawCircleLines(int32(sx), int32(sy), r*float32(cfg.BlackHole.PullMultiplier), pullColor)
			rl.DrawCircleLines(int32(sx), int32(sy), r*float32(cfg.BlackHole.DrainMultiplier), drainColor)
		case components.KindPlayer:
			if e.Radius >= cfg.Gravity.ActivationRadius {
				rl.DrawCircleLines(int32(sx), int32(sy), r*float32(cfg.Gravity.RangeMultiplier), gravityColor)
			}
		}
	}
}
