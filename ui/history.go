package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/telemetry"
)

// historySize is the number of telemetry windows kept (20 minutes at 10s windows).
const historySize = 120

// Series indices.
const (
	seriesRadius = iota
	seriesScore
	seriesFood
	seriesEnemies
	seriesAreaGained
	seriesAreaLost
	numSeries
)

// countSeries share the right-hand axis.
var countSeries = []int{seriesFood, seriesEnemies}

var sizeSeries = []int{seriesRadius, seriesScore, seriesAreaGained, seriesAreaLost}

var (
	colorGraphBg     = rl.Color{R: 15, G: 15, B: 25, A: 255}
	colorGraphGrid   = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder = rl.Color{R: 60, G: 70, B: 80, A: 255}
)

// HistoryPanel plots recent telemetry windows as line series.
// Clicking a legend entry toggles that series.
type HistoryPanel struct {
	x, y, width, height int32

	history      [numSeries][]float64
	historyIndex int
	historyCount int
	lastRun      int

	visible [numSeries]bool
	names   [numSeries]string
	colors  [numSeries]rl.Color
}

// NewHistoryPanel creates an empty history panel.
func NewHistoryPanel() *HistoryPanel {
	p := &HistoryPanel{height: 200, lastRun: -1}
	for i := range p.history {
		p.history[i] = make([]float64, historySize)
	}
	p.visible = [numSeries]bool{true, false, true, true, false, false}
	p.names = [numSeries]string{"Radius", "Score", "Food", "Enemies", "Gained", "Lost"}
	p.colors = [numSeries]rl.Color{
		{R: 100, G: 149, B: 237, A: 255},
		{R: 255, G: 255, B: 100, A: 255},
		{R: 80, G: 180, B: 80, A: 255},
		{R: 255, G: 100, B: 80, A: 255},
		{R: 150, G: 255, B: 150, A: 255},
		{R: 255, G: 150, B: 130, A: 255},
	}
	return p
}

// Record appends one telemetry window. A new run clears the history.
func (p *HistoryPanel) Record(s telemetry.WindowStats) {
	if s.Run != p.lastRun {
		p.historyIndex = 0
		p.historyCount = 0
		p.lastRun = s.Run
	}

	idx := p.historyIndex
	p.history[seriesRadius][idx] = s.PlayerRadius
	p.history[seriesScore][idx] = s.Score
	p.history[seriesFood][idx] = float64(s.FoodCount)
	p.history[seriesEnemies][idx] = float64(s.EnemyCount)
	p.history[seriesAreaGained][idx] = s.AreaGained
	p.history[seriesAreaLost][idx] = s.AreaLost

	p.historyIndex = (p.historyIndex + 1) % historySize
	if p.historyCount < historySize {
		p.historyCount++
	}
}

// Len returns the number of recorded windows.
func (p *HistoryPanel) Len() int { return p.historyCount }

// Values returns one series oldest first.
func (p *HistoryPanel) Values(series int) []float64 {
	out := make([]float64, p.historyCount)
	for i := range out {
		out[i] = p.history[series][p.ring(i)]
	}
	return out
}

func (p *HistoryPanel) ring(i int) int {
	return (p.historyIndex - p.historyCount + i + historySize) % historySize
}

// Toggle flips the visibility of a series.
func (p *HistoryPanel) Toggle(series int) {
	if series >= 0 && series < numSeries {
		p.visible[series] = !p.visible[series]
	}
}

// layout places the panel above the controls legend, leaving room
// on the right for the inspector.
func (p *HistoryPanel) layout(screenW, screenH int32) {
	p.width = max(screenW-420, 400)
	p.x = 10
	p.y = screenH - p.height - 32
}

// HandleInput processes legend clicks.
func (p *HistoryPanel) HandleInput(screenW, screenH int32) {
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}
	p.layout(screenW, screenH)
	mx, my := rl.GetMouseX(), rl.GetMouseY()
	legendY := p.y + p.height - 24
	for i := range numSeries {
		itemX := p.x + 10 + int32(i)*88
		if mx >= itemX && mx < itemX+85 && my >= legendY && my < legendY+18 {
			p.Toggle(i)
			return
		}
	}
}

// Draw renders the panel.
func (p *HistoryPanel) Draw(screenW, screenH int32) {
	p.layout(screenW, screenH)
	rl.DrawRectangle(p.x, p.y, p.width, p.height, DefaultTheme().PanelBg)
	rl.DrawRectangleLines(p.x, p.y, p.width, p.height, colorGraphBorder)
	rl.DrawText("HISTORY", p.x+10, p.y+6, 14, rl.RayWhite)

	if p.historyCount == 0 {
		rl.DrawText("Waiting for data...", p.x+100, p.y+80, 14, rl.Gray)
		return
	}

	p.drawGraph(p.x+10, p.y+24, p.width-20, p.height-54)
	p.drawLegend(p.x+10, p.y+p.height-24)
}

func (p *HistoryPanel) drawGraph(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, colorGraphBorder)
	for i := int32(1); i < 4; i++ {
		gy := y + h*i/4
		rl.DrawLine(x, gy, x+w, gy, colorGraphGrid)
	}
	for i := int32(1); i < 6; i++ {
		gx := x + w*i/6
		rl.DrawLine(gx, y, gx, y+h, colorGraphGrid)
	}

	if p.historyCount < 2 {
		return
	}

	sizeMin, sizeMax, sizeOK := p.seriesRange(sizeSeries)
	countMin, countMax, countOK := p.seriesRange(countSeries)
	for _, s := range sizeSeries {
		if p.visible[s] {
			p.drawSeries(x, y, w, h, s, sizeMin, sizeMax)
		}
	}
	for _, s := range countSeries {
		if p.visible[s] {
			p.drawSeries(x, y, w, h, s, countMin, countMax)
		}
	}

	if sizeOK {
		rl.DrawText(formatAmount(sizeMax), x+2, y+2, 9, rl.Gray)
		rl.DrawText(formatAmount(sizeMin), x+2, y+h-10, 9, rl.Gray)
	}
	if countOK {
		top := fmt.Sprintf("%.0f", countMax)
		bottom := fmt.Sprintf("%.0f", countMin)
		rl.DrawText(top, x+w-rl.MeasureText(top, 9)-2, y+2, 9, rl.Gray)
		rl.DrawText(bottom, x+w-rl.MeasureText(bottom, 9)-2, y+h-10, 9, rl.Gray)
	}
}

// seriesRange returns the padded min/max across the visible series in set.
func (p *HistoryPanel) seriesRange(set []int) (lo, hi float64, ok bool) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, s := range set {
		if !p.visible[s] {
			continue
		}
		ok = true
		for i := range p.historyCount {
			v := p.history[s][p.ring(i)]
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if !ok {
		return 0, 1, false
	}
	if lo >= hi {
		return lo - 1, hi + 1, true
	}
	pad := max((hi-lo)*0.1, 0.001)
	return lo - pad, hi + pad, true
}

func (p *HistoryPanel) drawSeries(x, y, w, h int32, series int, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	var prevX, prevY int32
	for i := range p.historyCount {
		v := p.history[series][p.ring(i)]
		px := x + int32(float64(i)*float64(w)/float64(p.historyCount-1))
		py := y + h - int32((v-lo)/span*float64(h))
		py = min(max(py, y), y+h)
		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, p.colors[series])
		}
		prevX, prevY = px, py
	}
}

func (p *HistoryPanel) drawLegend(x, y int32) {
	const itemWidth = 88
	for i := range numSeries {
		itemX := x + int32(i)*itemWidth
		c := p.colors[i]
		text := rl.LightGray
		if !p.visible[i] {
			c.A = 80
			text = rl.Gray
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, c)
		rl.DrawText(p.names[i], itemX+14, y, 11, text)
	}
	rl.DrawText("(click to toggle)", x+numSeries*itemWidth+10, y, 10, rl.Gray)
}

// formatAmount formats a value compactly for axis labels.
func formatAmount(v float64) string {
	a := math.Abs(v)
	switch {
	case a >= 10000:
		return fmt.Sprintf("%.0fk", v/1000)
	case a >= 1000:
		return fmt.Sprintf("%.1fk", v/1000)
	case a >= 100:
		return fmt.Sprintf("%.0f", v)
	case a >= 10:
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
