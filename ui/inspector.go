package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/components"
)

// InspectorData holds the entity being inspected and how it relates to the
// player.
type InspectorData struct {
	Entity       components.Entity
	PlayerRadius float64
	Distance     float64 // from the player's center
	Absorbable   bool    // the player can absorb it
	Threat       bool    // it can absorb the player
}

// inspectorPanel describes the inspector layout.
var inspectorPanel = PanelDescriptor{
	ID:     "inspector",
	Title:  "Inspector",
	Width:  220,
	Anchor: AnchorTopRight,
	Sections: []SectionDescriptor{
		{
			ID: "identity",
			Fields: []FieldDescriptor{
				{
					ID: "kind", Label: "Kind", Widget: WidgetText,
					TextGetter: func(d any) string { return d.(InspectorData).Entity.Kind.String() },
				},
				{
					ID: "chunk", Label: "Chunk", Widget: WidgetText,
					Visible:    func(d any) bool { return d.(InspectorData).Entity.HasChunk },
					TextGetter: func(d any) string { return d.(InspectorData).Entity.Chunk.String() },
				},
				{
					ID: "hue", Label: "Hue", Widget: WidgetColorSwatch,
					ColorGetter: func(d any) rl.Color {
						return rl.ColorFromHSV(float32(d.(InspectorData).Entity.Hue), 0.65, 0.95)
					},
				},
			},
		},
		{
			ID:    "body",
			Title: "Body",
			Fields: []FieldDescriptor{
				{
					ID: "radius", Label: "Radius", Widget: WidgetText, Format: "%.2f",
					Getter: func(d any) float32 { return float32(d.(InspectorData).Entity.Radius) },
				},
				{
					ID: "position", Label: "Position", Widget: WidgetText,
					TextGetter: func(d any) string {
						e := d.(InspectorData).Entity
						return fmt.Sprintf("%.0f, %.0f", e.X, e.Y)
					},
				},
				{
					ID: "vx", Label: "Vel X", Widget: WidgetCenteredBar, Range: CenteredRange(8),
					Getter: func(d any) float32 { return float32(d.(InspectorData).Entity.VX) },
				},
				{
					ID: "vy", Label: "Vel Y", Widget: WidgetCenteredBar, Range: CenteredRange(8),
					Getter: func(d any) float32 { return float32(d.(InspectorData).Entity.VY) },
				},
			},
		},
		{
			ID:    "relation",
			Title: "Versus player",
			Visible: func(d any) bool {
				return d.(InspectorData).Entity.Kind != components.KindPlayer
			},
			Fields: []FieldDescriptor{
				{
					ID: "distance", Label: "Distance", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(d.(InspectorData).Distance) },
				},
				{
					ID: "size", Label: "Size ratio", Widget: WidgetGauge, Range: FieldRange{Min: 0, Max: 2},
					Visible: func(d any) bool { return d.(InspectorData).PlayerRadius > 0 },
					Getter:  func(d any) float32 {
						data := d.(InspectorData)
						return float32(data.Entity.Radius / data.PlayerRadius)
					},
				},
				{
					ID: "relation", Label: "Status", Widget: WidgetText,
					TextGetter: func(d any) string {
						data := d.(InspectorData)
						switch {
						case data.Entity.Kind == components.KindBlackHole:
							return "hazard"
						case data.Threat:
							return "threat"
						case data.Absorbable:
							return "edible"
						default:
							return "neutral"
						}
					},
				},
			},
		},
	},
}

// Inspector renders the entity inspection panel.
type Inspector struct {
	renderer *Renderer
}

// NewInspector creates a new inspector panel.
func NewInspector() *Inspector {
	return &Inspector{renderer: NewRenderer()}
}

// Draw renders the inspector anchored to the top right.
func (ins *Inspector) Draw(data InspectorData, screenW, screenH int32) {
	ins.renderer.DrawPanelDescriptor(inspectorPanel, data, screenW, screenH, 10)
}
