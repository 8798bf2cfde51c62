package components

import "testing"

func TestChunkKeyRoundTrip(t *testing.T) {
	coords := [][2]int{
		{0, 0}, {1, -1}, {-1, 1}, {-7, -13}, {123456, -654321},
		{2147483647, -2147483648},
	}
	seen := make(map[ChunkKey]bool)
	for _, c := range coords {
		k := MakeChunkKey(c[0], c[1])
		cx, cy := k.Coords()
		if cx != c[0] || cy != c[1] {
			t.Errorf("MakeChunkKey(%d,%d).Coords() = (%d,%d)", c[0], c[1], cx, cy)
		}
		if seen[k] {
			t.Errorf("duplicate key for (%d,%d)", c[0], c[1])
		}
		seen[k] = true
	}
}

func TestChunkKeyNeighborsDistinct(t *testing.T) {
	seen := make(map[ChunkKey]bool)
	for cx := -5; cx <= 5; cx++ {
		for cy := -5; cy <= 5; cy++ {
			k := MakeChunkKey(cx, cy)
			if seen[k] {
				t.Fatalf("key collision at (%d,%d)", cx, cy)
			}
			seen[k] = true
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindPlayer:    "player",
		KindFood:      "food",
		KindEnemy:     "enemy",
		KindBlackHole: "blackhole",
		Kind(9):       "kind(9)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(k), got, want)
		}
	}
}

func TestBlobSnapshot(t *testing.T) {
	b := NewBlob(KindEnemy, 3, 4, 12)
	b.Vel.X = 1
	b.Body.Hue = 30

	e := b.Snapshot()
	if e.Kind != KindEnemy || e.X != 3 || e.Y != 4 || e.Radius != 12 || e.VX != 1 || e.Hue != 30 {
		t.Errorf("unexpected snapshot %+v", e)
	}
	if !b.Valid() {
		t.Error("NewBlob should produce a valid view")
	}
	if (Blob{}).Valid() {
		t.Error("zero Blob should be invalid")
	}
}
