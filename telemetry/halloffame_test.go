package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/pthm-cable/blobworld/components"
)

func TestHallOfFame_Ordering(t *testing.T) {
	hof := NewHallOfFame(3)

	for i, score := range []float64{50, 200, 10, 120, 5} {
		hof.Consider(RunRecord{Run: i + 1, Score: score})
	}

	entries := hof.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	want := []float64{200, 120, 50}
	for i, e := range entries {
		if e.Score != want[i] {
			t.Errorf("entry %d score = %v, want %v", i, e.Score, want[i])
		}
	}

	if hof.Consider(RunRecord{Run: 6, Score: 1}) {
		t.Error("low score should not enter a full hall")
	}
	best, ok := hof.Best()
	if !ok || best.Run != 2 {
		t.Errorf("Best = %+v, want run 2", best)
	}
}

func TestHallOfFame_MarshalJSON(t *testing.T) {
	hof := NewHallOfFame(5)
	hof.Consider(RunRecord{Run: 1, Score: 42, PeakRadius: 33})

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var out []RunRecord
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].Score != 42 || out[0].PeakRadius != 33 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestRunTracker(t *testing.T) {
	rt := NewRunTracker()
	rt.Start(3, 20)

	rt.Observe(25)
	rt.Observe(22)
	rt.RecordAbsorption(components.KindFood, false)
	rt.RecordAbsorption(components.KindFood, true)
	rt.RecordAbsorption(components.KindEnemy, true)
	rt.RecordAbsorption(components.KindPlayer, false)
	rt.RecordBlackHoleFrame()

	if !rt.Active() {
		t.Error("tracker should be active after Start")
	}

	rec := rt.Finish(90, 10, 12500)
	if rt.Active() {
		t.Error("tracker should be idle after Finish")
	}
	if rec.Run != 3 || rec.PeakRadius != 25 || rec.FinalRadius != 10 {
		t.Errorf("record = %+v", rec)
	}
	if rec.FoodEaten != 1 || rec.EnemiesEaten != 1 || rec.BitesTaken != 1 || rec.BlackHoleFrames != 1 {
		t.Errorf("counters = %+v", rec)
	}
	if rec.Summary() == "" {
		t.Error("empty summary")
	}
}
