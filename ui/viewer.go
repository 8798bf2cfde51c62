package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/game"
	"github.com/pthm-cable/blobworld/renderer"
	"github.com/pthm-cable/blobworld/systems"
	"github.com/pthm-cable/blobworld/telemetry"
)

const controlsLegend = "WASD/Arrows: move | P: pause | Tab: overlays | C V R I H F3 F4: toggles"

// Viewer is the raylib debug viewer. It drives one game from the window
// loop, draws the render snapshot and handles menus and overlays.
type Viewer struct {
	game *game.Game

	background *renderer.BackgroundRenderer
	world      *renderer.WorldRenderer
	hud        *HUD
	menu       *Menu
	controls   *ControlsPanel
	overlays   *OverlayRegistry
	inspector  *Inspector
	perfPanel  *PerfPanel
	statsPanel *StatsPanel
	history    *HistoryPanel

	lastStats telemetry.WindowStats
	hasStats  bool
	quit      bool
}

// NewViewer creates a viewer for g. The raylib window must already exist.
func NewViewer(g *game.Game) *Viewer {
	cfg := g.Config()
	return &Viewer{
		game:       g,
		background: renderer.NewBackgroundRenderer(cfg.Chunk.Size/6, 14, 18, 26),
		world:      renderer.NewWorldRenderer(),
		hud:        NewHUD(),
		menu:       NewMenu(280),
		controls:   NewControlsPanel(10, 110, 220),
		overlays:   NewOverlayRegistry(),
		inspector:  NewInspector(),
		perfPanel:  NewPerfPanel(16, 0),
		statsPanel: NewStatsPanel(),
		history:    NewHistoryPanel(),
	}
}

// RecordStats keeps the latest telemetry window for the stats panel.
// Pass it as game.Options.StatsCallback.
func (v *Viewer) RecordStats(s telemetry.WindowStats) {
	v.lastStats = s
	v.hasStats = true
	v.history.Record(s)
}

// Overlays returns the overlay registry.
func (v *Viewer) Overlays() *OverlayRegistry { return v.overlays }

// EnableOverlays turns on the named overlays, e.g. from a command line flag.
func (v *Viewer) EnableOverlays(ids []string) error {
	for _, id := range ids {
		if _, ok := v.overlays.Get(OverlayID(id)); !ok {
			return fmt.Errorf("unknown overlay %q", id)
		}
		v.overlays.SetEnabled(OverlayID(id), true)
	}
	return nil
}

// Frame runs one window frame at wall time nowMs: input, one simulation
// update and drawing. It returns false once the player chose to quit.
func (v *Viewer) Frame(nowMs float64) bool {
	g := v.game
	cam := g.Camera()

	if rl.IsWindowResized() {
		cam.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}
	v.handleKeys()

	g.Update(nowMs)
	g.Perf().RecordFrame()
	rs := g.RenderState()

	screenW, screenH := int32(cam.ViewportW), int32(cam.ViewportH)

	rl.BeginDrawing()
	v.background.Draw(cam)

	if v.overlays.IsEnabled(OverlayChunkBounds) {
		renderer.DrawChunkBounds(cam, g.LoadedChunkKeys(), g.Config().Chunk.Size)
	}
	v.world.DrawBalls(cam, rs.Balls, rs.BallCount)
	v.world.DrawEntities(cam, rs.Entities)
	if v.overlays.IsEnabled(OverlayReach) {
		renderer.DrawReach(cam, rs.Entities, g.Config())
	}
	if v.overlays.IsEnabled(OverlayVelocities) {
		renderer.DrawVelocities(cam, rs.Entities, 10)
	}

	v.drawHUD(rs, screenW, screenH)
	v.drawPanels(rs, screenW, screenH)
	v.drawMenu(rs, screenW, screenH)
	rl.EndDrawing()

	return !v.quit
}

func (v *Viewer) handleKeys() {
	g := v.game

	if rl.IsKeyPressed(rl.KeyP) || rl.IsKeyPressed(rl.KeyEscape) {
		switch g.State() {
		case game.StatePlaying:
			g.Pause()
		case game.StatePaused:
			g.Resume()
		}
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		v.overlays.HandleKeyPress(key)
	}
}

func (v *Viewer) drawHUD(rs game.RenderState, screenW, screenH int32) {
	g := v.game
	data := HUDData{
		Title:        "blobworld",
		Score:        rs.Score,
		HighScore:    rs.HighScore,
		Run:          g.Run(),
		ElapsedMs:    rs.TimeMs,
		Entities:     g.Store().Len(),
		LoadedChunks: g.LoadedChunks(),
		FPS:          rl.GetFPS(),
		State:        rs.State.String(),
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
	}
	if rs.HasPlayer {
		data.Radius = rs.Player.Radius
	}
	if next, ok := g.NextMilestone(); ok {
		data.NextMilestone = next
	}
	v.hud.Draw(data)
	v.hud.DrawControls(screenW, screenH, controlsLegend)
	v.controls.Draw(v.overlays)
}

func (v *Viewer) drawPanels(rs game.RenderState, screenW, screenH int32) {
	if v.overlays.IsEnabled(OverlayPerf) {
		v.perfPanel.SetPosition(16, screenH-int32(60+14*len(telemetry.Phases)))
		v.perfPanel.Draw(v.game.Perf().Stats())
	}
	if v.overlays.IsEnabled(OverlayStats) && v.hasStats {
		v.statsPanel.Draw(v.lastStats, screenW, screenH)
	}
	if v.overlays.IsEnabled(OverlayHistory) {
		v.history.HandleInput(screenW, screenH)
		v.history.Draw(screenW, screenH)
	}
	if v.overlays.IsEnabled(OverlayInspector) {
		if data, ok := v.hovered(rs); ok {
			v.inspector.Draw(data, screenW, screenH)
		}
	}
}

// hovered finds the visible entity under the mouse cursor.
func (v *Viewer) hovered(rs game.RenderState) (InspectorData, bool) {
	cam := v.game.Camera()
	mouse := rl.GetMousePosition()
	wx, wy := cam.ScreenToWorld(float64(mouse.X), float64(mouse.Y))
	slack := 6 / cam.Zoom

	best := -1
	bestD := math.Inf(1)
	for i, e := range rs.Entities {
		d := math.Hypot(e.X-wx, e.Y-wy)
		if d <= e.Radius+slack && d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return InspectorData{}, false
	}

	e := rs.Entities[best]
	data := InspectorData{Entity: e}
	if rs.HasPlayer && e.Kind != components.KindPlayer {
		threshold := v.game.Config().Absorption.Threshold
		p := components.NewBlob(components.KindPlayer, rs.Player.X, rs.Player.Y, rs.Player.Radius)
		o := components.NewBlob(e.Kind, e.X, e.Y, e.Radius)
		data.PlayerRadius = rs.Player.Radius
		data.Distance = math.Hypot(e.X-rs.Player.X, e.Y-rs.Player.Y)
		data.Absorbable = systems.CanAbsorb(p, o, threshold)
		data.Threat = systems.CanAbsorb(o, p, threshold)
	}
	return data, true
}

func (v *Viewer) drawMenu(rs game.RenderState, screenW, screenH int32) {
	g := v.game
	data := MenuData{Score: rs.Score, HighScore: rs.HighScore}

	switch rs.State {
	case game.StateMenu:
		data.Title = "blobworld"
		data.Subtitle = "Eat what is smaller. Avoid what is bigger."
		data.Buttons = []MenuAction{MenuStart, MenuQuit}
	case game.StatePaused:
		data.Title = "Paused"
		data.Buttons = []MenuAction{MenuResume, MenuQuit}
	case game.StateGameOver:
		data.Title = "Game over"
		if best, ok := g.HallOfFame().Best(); ok && best.Run == g.Run() {
			data.Subtitle = "New best run!"
		}
		data.Buttons = []MenuAction{MenuRestart, MenuQuit}
	default:
		return
	}

	switch v.menu.Draw(data, screenW, screenH) {
	case MenuStart:
		g.Start()
	case MenuResume:
		g.Resume()
	case MenuRestart:
		g.Restart()
	case MenuQuit:
		v.quit = true
	}
}
