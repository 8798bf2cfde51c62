package ui

import "testing"

func TestOverlayExclusive(t *testing.T) {
	r := NewOverlayRegistry()
	r.Toggle(OverlayPerf)
	r.Toggle(OverlayStats)
	if r.IsEnabled(OverlayPerf) {
		t.Error("enabling stats should disable perf")
	}
	if !r.IsEnabled(OverlayStats) {
		t.Error("stats should be enabled")
	}
	if r.Toggle("missing") {
		t.Error("unknown overlay toggled on")
	}
}

func TestOverlaySetEnabled(t *testing.T) {
	r := NewOverlayRegistry()
	r.SetEnabled(OverlayStats, true)
	r.SetEnabled(OverlayHistory, true)
	r.SetEnabled(OverlayPerf, true)

	got := r.Enabled()
	want := []OverlayID{OverlayPerf, OverlayHistory}
	if len(got) != len(want) {
		t.Fatalf("Enabled() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Enabled()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if id, on, ok := r.HandleKeyPress(0); ok {
		t.Errorf("key 0 toggled %s (on=%v)", id, on)
	}
	if cats := r.Categories(); len(cats) != 2 || cats[0] != "world" || cats[1] != "panels" {
		t.Errorf("Categories() = %v", cats)
	}
}
