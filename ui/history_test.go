package ui

import (
	"math"
	"testing"

	"github.com/pthm-cable/blobworld/telemetry"
)

func TestHistoryRecord(t *testing.T) {
	p := NewHistoryPanel()
	for i := range historySize + 5 {
		p.Record(telemetry.WindowStats{Run: 1, PlayerRadius: float64(i), EnemyCount: i * 2})
	}

	if p.Len() != historySize {
		t.Fatalf("Len = %d, want %d", p.Len(), historySize)
	}
	radii := p.Values(seriesRadius)
	if radii[0] != 5 {
		t.Errorf("oldest radius = %v, want 5", radii[0])
	}
	if last := radii[len(radii)-1]; last != historySize+4 {
		t.Errorf("newest radius = %v, want %d", last, historySize+4)
	}
	enemies := p.Values(seriesEnemies)
	if enemies[0] != 10 {
		t.Errorf("oldest enemies = %v, want 10", enemies[0])
	}
}

func TestHistoryResetsOnNewRun(t *testing.T) {
	p := NewHistoryPanel()
	p.Record(telemetry.WindowStats{Run: 1, PlayerRadius: 20})
	p.Record(telemetry.WindowStats{Run: 1, PlayerRadius: 25})
	p.Record(telemetry.WindowStats{Run: 2, PlayerRadius: 20})

	got := p.Values(seriesRadius)
	if len(got) != 1 || got[0] != 20 {
		t.Errorf("after new run Values = %v, want [20]", got)
	}
}

func TestHistorySeriesRange(t *testing.T) {
	p := NewHistoryPanel()
	p.Record(telemetry.WindowStats{Run: 1, PlayerRadius: 10, FoodCount: 4})
	p.Record(telemetry.WindowStats{Run: 1, PlayerRadius: 20, FoodCount: 4})

	lo, hi, ok := p.seriesRange(sizeSeries)
	if !ok {
		t.Fatal("size series should be visible")
	}
	if math.Abs(lo-9) > 1e-9 || math.Abs(hi-21) > 1e-9 {
		t.Errorf("range = [%v, %v], want [9, 21]", lo, hi)
	}

	// Flat series get a unit margin.
	p.Toggle(seriesEnemies)
	lo, hi, _ = p.seriesRange(countSeries)
	if lo != 3 || hi != 5 {
		t.Errorf("flat range = [%v, %v], want [3, 5]", lo, hi)
	}

	p.Toggle(seriesRadius)
	if _, _, ok := p.seriesRange(sizeSeries); ok {
		t.Error("no size series visible, want ok=false")
	}
}
