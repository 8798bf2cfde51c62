package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Score         float64
	HighScore     float64
	Radius        float64
	NextMilestone float64 // 0 when every milestone is reached
	Run           int
	ElapsedMs     float64
	Entities      int
	LoadedChunks  int
	FPS           int32
	State         string
	ScreenWidth   int32
	ScreenHeight  int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Score: %.0f | Best: %.0f | Run: %d", data.Score, data.HighScore, data.Run),
		10, 35, 16, rl.LightGray,
	)

	elapsed := time.Duration(data.ElapsedMs * float64(time.Millisecond)).Round(time.Second)
	rl.DrawText(
		fmt.Sprintf("Time: %s | Entities: %d | Chunks: %d | FPS: %d", elapsed, data.Entities, data.LoadedChunks, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	y := int32(78)
	if data.NextMilestone > 0 {
		h.renderer.DrawGauge(10, y, "Radius", float32(data.Radius), 0, float32(data.NextMilestone), 260)
	} else {
		h.renderer.DrawLabelValue(10, y, "Radius", fmt.Sprintf("%.1f", data.Radius))
	}

	if data.State != "" && data.State != "playing" {
		rl.DrawText(data.State, 10, y+20, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the update phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in pipeline order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y
	width := int32(260)
	height := int32(44 + 14*len(telemetry.Phases))

	p.renderer.DrawPanel(x-6, y-6, width, height)

	rl.DrawText("Update Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Tick: %s (p95 %s, max %s)", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, name := range telemetry.Phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// statsPanel describes the last telemetry window.
var statsPanel = PanelDescriptor{
	ID:     "window_stats",
	Title:  "Window Stats",
	Width:  240,
	Anchor: AnchorBottomRight,
	Sections: []SectionDescriptor{
		{
			ID:    "population",
			Title: "Population",
			Fields: []FieldDescriptor{
				statsInt("food", "Food", func(s telemetry.WindowStats) int { return s.FoodCount }),
				statsInt("enemies", "Enemies", func(s telemetry.WindowStats) int { return s.EnemyCount }),
				statsInt("black_holes", "Holes", func(s telemetry.WindowStats) int { return s.BlackHoleCount }),
			},
		},
		{
			ID:    "events",
			Title: "Events",
			Fields: []FieldDescriptor{
				statsInt("food_bites", "Food bites", func(s telemetry.WindowStats) int { return s.FoodBites }),
				statsInt("enemy_bites", "Enemy bites", func(s telemetry.WindowStats) int { return s.EnemyBites }),
				statsInt("bitten", "Bitten", func(s telemetry.WindowStats) int { return s.PlayerBitten }),
				{
					ID: "area_net", Label: "Area net", Widget: WidgetText,
					TextGetter: func(d any) string {
						s := d.(telemetry.WindowStats)
						return fmt.Sprintf("%+.0f", s.AreaGained-s.AreaLost)
					},
				},
				{
					ID: "gain_share", Label: "Gain share", Widget: WidgetBar,
					Visible: func(d any) bool {
						s := d.(telemetry.WindowStats)
						return s.AreaGained+s.AreaLost > 0
					},
					Getter:  func(d any) float32 {
						s := d.(telemetry.WindowStats)
						return float32(s.AreaGained / (s.AreaGained + s.AreaLost))
					},
				},
			},
		},
		{
			ID:    "enemy_radius",
			Title: "Enemy radius",
			Visible: func(d any) bool {
				return d.(telemetry.WindowStats).EnemyCount > 0
			},
			Fields: []FieldDescriptor{
				{
					ID: "enemy_r", Label: "p10/50/90", Widget: WidgetText,
					TextGetter: func(d any) string {
						s := d.(telemetry.WindowStats)
						return fmt.Sprintf("%.1f / %.1f / %.1f", s.EnemyRadiusP10, s.EnemyRadiusP50, s.EnemyRadiusP90)
					},
				},
			},
		},
	},
}

func statsInt(id, label string, get func(telemetry.WindowStats) int) FieldDescriptor {
	return FieldDescriptor{
		ID:     id,
		Label:  label,
		Widget: WidgetText,
		TextGetter: func(d any) string {
			return fmt.Sprintf("%d", get(d.(telemetry.WindowStats)))
		},
	}
}

// StatsPanel renders the most recent telemetry window.
type StatsPanel struct {
	renderer *Renderer
}

// NewStatsPanel creates a stats panel.
func NewStatsPanel() *StatsPanel {
	return &StatsPanel{renderer: NewRenderer()}
}

// Draw renders stats anchored to the bottom right.
func (s *StatsPanel) Draw(stats telemetry.WindowStats, screenW, screenH int32) {
	s.renderer.DrawPanelDescriptor(statsPanel, stats, screenW, screenH, 10)
}
