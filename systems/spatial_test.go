package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/blobworld/components"
)

func randomItems(rng *rand.Rand, n int, extent float64) []HashItem {
	items := make([]HashItem, n)
	for i := range items {
		kind := components.KindFood
		if rng.Intn(4) == 0 {
			kind = components.KindEnemy
		}
		x := (rng.Float64()*2 - 1) * extent
		y := (rng.Float64()*2 - 1) * extent
		r := 2 + rng.Float64()*40
		items[i] = HashItem{Seq: uint64(i + 1), Blob: components.NewBlob(kind, x, y, r)}
	}
	return items
}

// withinReach reports whether two blobs' surfaces are at most gap apart.
func withinReach(a, b components.Blob, gap float64) bool {
	dx := a.Pos.X - b.Pos.X
	dy := a.Pos.Y - b.Pos.Y
	reach := a.Body.Radius + b.Body.Radius + gap
	return dx*dx+dy*dy <= reach*reach
}

// TestSpatialHashMatchesBruteForce checks that every pair within collision or
// attraction reach is reported by the hash, exactly once.
func TestSpatialHashMatchesBruteForce(t *testing.T) {
	const (
		n      = 300
		margin = 30.0
	)
	for _, seed := range []int64{1, 7, 42} {
		rng := rand.New(rand.NewSource(seed))
		items := randomItems(rng, n, 1500)

		h := NewSpatialHash(128)
		for _, it := range items {
			h.Insert(it, margin)
		}

		got := make(map[pairKey]int)
		h.EachPair(func(a, b HashItem) {
			key := pairKey{lo: min(a.Seq, b.Seq), hi: max(a.Seq, b.Seq)}
			got[key]++
		})

		for k, c := range got {
			if c != 1 {
				t.Fatalf("seed %d: pair %v reported %d times", seed, k, c)
			}
		}

		want := 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !withinReach(items[i].Blob, items[j].Blob, 2*margin) {
					continue
				}
				want++
				key := pairKey{lo: items[i].Seq, hi: items[j].Seq}
				if got[key] == 0 {
					t.Fatalf("seed %d: missing pair %v", seed, key)
				}
			}
		}

		inReach := 0
		for k := range got {
			if withinReach(items[k.lo-1].Blob, items[k.hi-1].Blob, 2*margin) {
				inReach++
			}
		}
		if inReach != want {
			t.Errorf("seed %d: in-reach pairs = %d, brute force = %d", seed, inReach, want)
		}
		if want == 0 {
			t.Fatalf("seed %d: degenerate fixture, no overlapping pairs", seed)
		}
	}
}

func TestSpatialHashNegativeCoordinates(t *testing.T) {
	h := NewSpatialHash(100)
	a := HashItem{Seq: 1, Blob: components.NewBlob(components.KindFood, -5, -5, 10)}
	b := HashItem{Seq: 2, Blob: components.NewBlob(components.KindFood, 5, 5, 10)}
	h.Insert(a, 0)
	h.Insert(b, 0)

	// Both straddle the origin, so they share all four cells around it.
	if h.Cells() != 4 {
		t.Errorf("Cells() = %d, want 4", h.Cells())
	}
	pairs := 0
	h.EachPair(func(_, _ HashItem) { pairs++ })
	if pairs != 1 {
		t.Errorf("pairs = %d, want 1", pairs)
	}
}

func TestSpatialHashClearReusesBuckets(t *testing.T) {
	h := NewSpatialHash(50)
	rng := rand.New(rand.NewSource(3))
	items := randomItems(rng, 100, 400)
	for _, it := range items {
		h.Insert(it, 0)
	}
	cells := h.Cells()
	capacity := len(h.buckets)

	h.Clear()
	if h.Len() != 0 || h.Cells() != 0 {
		t.Fatalf("after Clear: Len=%d Cells=%d", h.Len(), h.Cells())
	}
	pairs := 0
	h.EachPair(func(_, _ HashItem) { pairs++ })
	if pairs != 0 {
		t.Errorf("pairs after Clear = %d, want 0", pairs)
	}

	for _, it := range items {
		h.Insert(it, 0)
	}
	if h.Cells() != cells {
		t.Errorf("Cells() = %d after reinsertion, want %d", h.Cells(), cells)
	}
	if len(h.buckets) != capacity {
		t.Errorf("bucket slice grew from %d to %d", capacity, len(h.buckets))
	}
}

func TestCellKeyDistinct(t *testing.T) {
	seen := make(map[int64][2]int)
	for cx := -3; cx <= 3; cx++ {
		for cy := -3; cy <= 3; cy++ {
			k := cellKey(cx, cy)
			if prev, dup := seen[k]; dup {
				t.Fatalf("cellKey(%d,%d) collides with %v", cx, cy, prev)
			}
			seen[k] = [2]int{cx, cy}
		}
	}
	if cellKey(math.MaxInt32, 0) == cellKey(0, math.MaxInt32) {
		t.Error("cellKey is symmetric at extremes")
	}
}
