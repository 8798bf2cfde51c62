package ui

import (
	"fmt"

	"github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists every overlay grouped by category, each with a
// clickable checkbox and its key binding. Tab shows and hides it.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and applies checkbox clicks to overlays.
// It returns the y just below the panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	th := c.renderer.Theme
	categories := overlays.Categories()

	rows := int32(0)
	for _, cat := range categories {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	c.renderer.DrawPanel(c.x, c.y, c.width, rows*th.LineHeight+th.Padding*3+th.LineHeight)

	x := c.x + th.Padding
	y := c.y + th.Padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += th.LineHeight + 4

	for _, cat := range categories {
		rl.DrawText(categoryLabel(cat), x, y, th.HeaderFontSize, th.SectionHeader)
		y += th.LineHeight
		for _, desc := range overlays.ByCategory(cat) {
			c.drawToggle(overlays, desc, x, y, c.width-th.Padding*2)
			y += th.LineHeight
		}
		y += 4
	}
	return y
}

// drawToggle draws one overlay row: checkbox, name and right-aligned key.
func (c *ControlsPanel) drawToggle(overlays *OverlayRegistry, desc OverlayDescriptor, x, y, width int32) {
	th := c.renderer.Theme
	on := overlays.IsEnabled(desc.ID)
	box := rl.Rectangle{X: float32(x), Y: float32(y + 1), Width: 10, Height: 10}
	if raygui.CheckBox(box, "", on) != on {
		overlays.Toggle(desc.ID)
		on = !on
	}

	nameColor := th.LabelColor
	if on {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+16, y, th.FontSize, nameColor)

	if desc.KeyLabel != "" {
		key := fmt.Sprintf("[%s]", desc.KeyLabel)
		rl.DrawText(key, x+width-rl.MeasureText(key, th.FontSize), y, th.FontSize, rl.Gray)
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "world":
		return "World"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}

// MenuAction is a button pressed in a menu.
type MenuAction int

const (
	MenuNone MenuAction = iota
	MenuStart
	MenuResume
	MenuRestart
	MenuQuit
)

// MenuData holds what the centered menu shows.
type MenuData struct {
	Title     string
	Subtitle  string
	Buttons   []MenuAction
	Score     float64
	HighScore float64
}

// menuLabel returns a button caption.
func menuLabel(a MenuAction) string {
	switch a {
	case MenuStart:
		return "Start"
	case MenuResume:
		return "Resume"
	case MenuRestart:
		return "Play again"
	case MenuQuit:
		return "Quit"
	default:
		return ""
	}
}

// Menu draws the start, pause and game over screens with raygui buttons.
type Menu struct {
	renderer *Renderer
	width    int32
}

// NewMenu creates a menu of the given width.
func NewMenu(width int32) *Menu {
	return &Menu{renderer: NewRenderer(), width: width}
}

// Draw renders the menu centered on screen and returns the pressed button.
func (m *Menu) Draw(data MenuData, screenW, screenH int32) MenuAction {
	r := m.renderer
	padding := r.Theme.Padding
	buttonH := int32(32)

	height := padding*3 + 28 + r.Theme.LineHeight*2 + int32(len(data.Buttons))*(buttonH+padding)
	x := (screenW - m.width) / 2
	y := (screenH - height) / 2

	rl.DrawRectangle(0, 0, screenW, screenH, rl.Fade(rl.Black, 0.5))
	r.DrawPanel(x, y, m.width, height)

	cy := y + padding
	titleW := rl.MeasureText(data.Title, 28)
	rl.DrawText(data.Title, x+(m.width-titleW)/2, cy, 28, rl.White)
	cy += 28 + padding

	if data.Subtitle != "" {
		subW := rl.MeasureText(data.Subtitle, r.Theme.HeaderFontSize)
		rl.DrawText(data.Subtitle, x+(m.width-subW)/2, cy, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	}
	cy += r.Theme.LineHeight
	scores := fmt.Sprintf("Score %.0f   Best %.0f", data.Score, data.HighScore)
	scoreW := rl.MeasureText(scores, r.Theme.FontSize)
	rl.DrawText(scores, x+(m.width-scoreW)/2, cy, r.Theme.FontSize, r.Theme.LabelColor)
	cy += r.Theme.LineHeight + padding

	pressed := MenuNone
	for _, action := range data.Buttons {
		bounds := rl.Rectangle{
			X:      float32(x + padding),
			Y:      float32(cy),
			Width:  float32(m.width - padding*2),
			Height: float32(buttonH),
		}
		if raygui.Button(bounds, menuLabel(action)) {
			pressed = action
		}
		cy += buttonH + padding
	}
	return pressed
}
