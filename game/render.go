package game

import "github.com/pthm-cable/blobworld/components"

// RenderState is a pull-based snapshot for renderers.
// Balls aliases an internal buffer that the next RenderState call overwrites.
type RenderState struct {
	CameraX, CameraY float64
	Zoom             float64
	TimeMs           float64

	Balls     []float32 // stride 4: x, y, radius, hue; zero past BallCount
	BallCount int

	Player    components.Entity
	HasPlayer bool
	Entities  []components.Entity // visible entities in render order

	State     State
	Score     float64
	HighScore float64
}

// RenderState returns the current render snapshot. It does not advance the
// simulation.
func (g *Game) RenderState() RenderState {
	cam := g.camera
	rs := RenderState{
		CameraX:   cam.X,
		CameraY:   cam.Y,
		Zoom:      cam.Zoom,
		TimeMs:    g.elapsedMs,
		State:     g.state,
		Score:     g.score,
		HighScore: g.highScore,
	}

	rs.Entities = g.store.Visible(cam.X, cam.Y, cam.ViewRadius(), g.cfg.Render.VisibleRadiusBuffer, g.cfg.Render.MaxBalls)
	rs.BallCount = g.render.Fill(rs.Entities)
	rs.Balls = g.render.Data()

	if p, ok := g.store.Player(); ok {
		rs.Player = p.Snapshot()
		rs.HasPlayer = true
	}
	return rs
}
