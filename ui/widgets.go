package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// barLayout draws the label and bar background, returning the bar's x and width.
func (r *Renderer) barLayout(x, y int32, label string, width, valueRoom int32) (int32, int32) {
	barX := x + r.Theme.LabelWidth
	barW := width - r.Theme.LabelWidth - valueRoom
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.BarBg)
	return barX, barW
}

// DrawBar draws a share in [0, 1] as a percentage bar.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = min(max(value, 0), 1)
	barX, barW := r.barLayout(x, y, label, width, 50)
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*value), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.0f%%", value*100), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawGauge draws value over [lo, hi], colored low/medium/high by fill ratio.
func (r *Renderer) DrawGauge(x, y int32, label string, value, lo, hi float32, width int32) int32 {
	var ratio float32
	if hi > lo {
		ratio = min(max((value-lo)/(hi-lo), 0), 1)
	}
	barX, barW := r.barLayout(x, y, label, width, 60)

	fill := r.Theme.BarFillHigh
	switch {
	case ratio < 0.3:
		fill = r.Theme.BarFillLow
	case ratio < 0.6:
		fill = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*ratio), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.1f/%.0f", value, hi), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws value as a bar growing left or right from the middle.
// The half width spans |limit|.
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value, limit float32, width int32) int32 {
	barX, barW := r.barLayout(x, y, label, width, 50)
	mid := barX + barW/2
	rl.DrawLine(mid, y+2, mid, y+2+r.Theme.BarHeight, r.Theme.PanelBorder)

	var frac float32
	if limit != 0 {
		frac = min(float32(math.Abs(float64(value/limit))), 1)
	}
	fillW := int32(float32(barW/2) * frac)
	if value < 0 {
		rl.DrawRectangle(mid-fillW, y+2, fillW, r.Theme.BarHeight, r.Theme.BarFillNegative)
	} else {
		rl.DrawRectangle(mid, y+2, fillW, r.Theme.BarHeight, r.Theme.BarFillPositive)
	}
	rl.DrawText(fmt.Sprintf("%+.2f", value), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a label and a small square of color.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
	return y + r.Theme.LineHeight
}

// fieldValue reads a numeric field, 0 without a getter.
func fieldValue(fd FieldDescriptor, data any) float32 {
	if fd.Getter == nil {
		return 0
	}
	return fd.Getter(data)
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, fieldValue(fd, data), width)
	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, fieldValue(fd, data), fd.Range.Max, width)
	case WidgetGauge:
		return r.DrawGauge(x, y, fd.Label, fieldValue(fd, data), fd.Range.Min, fd.Range.Max, width)
	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)
	}

	text := ""
	switch {
	case fd.TextGetter != nil:
		text = fd.TextGetter(data)
	case fd.Getter != nil:
		text = fmt.Sprintf(fd.Format, fd.Getter(data))
	}
	return r.DrawLabelValue(x, y, fd.Label, text)
}

// fieldHeight is the vertical space DrawField uses for fd.
func (r *Renderer) fieldHeight(fd FieldDescriptor) int32 {
	switch fd.Widget {
	case WidgetBar, WidgetCenteredBar, WidgetGauge:
		return r.Theme.LineHeight + 2
	}
	return r.Theme.LineHeight
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if !sd.shown(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.shown(data) {
			y = r.DrawField(x, y, fd, data, width)
		}
	}
	return y + 4
}

// PanelHeight measures a panel's height for the given data without drawing.
func (r *Renderer) PanelHeight(pd PanelDescriptor, data any) int32 {
	h := r.Theme.Padding * 2
	if pd.Title != "" {
		h += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		if !sd.shown(data) {
			continue
		}
		if sd.Title != "" {
			h += r.Theme.LineHeight
		}
		for _, fd := range sd.Fields {
			if fd.shown(data) {
				h += r.fieldHeight(fd)
			}
		}
		h += 4
	}
	return h
}

// DrawPanelDescriptor lays out a panel at its anchor and draws it.
func (r *Renderer) DrawPanelDescriptor(pd PanelDescriptor, data any, screenW, screenH, margin int32) {
	h := r.PanelHeight(pd, data)
	x, y := margin, margin
	switch pd.Anchor {
	case AnchorTopRight:
		x = screenW - pd.Width - margin
	case AnchorBottomLeft:
		y = screenH - h - margin
	case AnchorBottomRight:
		x, y = screenW-pd.Width-margin, screenH-h-margin
	case AnchorCenter:
		x, y = (screenW-pd.Width)/2, (screenH-h)/2
	}

	r.DrawPanel(x, y, pd.Width, h)
	cx := x + r.Theme.Padding
	cy := y + r.Theme.Padding
	inner := pd.Width - r.Theme.Padding*2
	if pd.Title != "" {
		rl.DrawText(pd.Title, cx, cy, 16, rl.White)
		cy += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		cy = r.DrawSection(cx, cy, sd, data, inner)
	}
}
