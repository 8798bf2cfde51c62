package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

func gravityFixture() []components.Blob {
	return []components.Blob{
		components.NewBlob(components.KindFood, 60, 0, 5),
		components.NewBlob(components.KindFood, 0, -80, 5),
		components.NewBlob(components.KindEnemy, 50, 50, 10),
		components.NewBlob(components.KindBlackHole, -70, 0, 25),
		components.NewBlob(components.KindFood, 5000, 0, 5),
	}
}

func TestApplyPlayerGravityGating(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name   string
		radius float64
		want   int
	}{
		{"below activation", 25, 0},
		{"just below activation", cfg.Gravity.ActivationRadius - 1e-9, 0},
		{"above activation", 35, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := components.NewBlob(components.KindPlayer, 0, 0, tt.radius)
			blobs := gravityFixture()
			if got := ApplyPlayerGravity(player, blobs, 1, cfg); got != tt.want {
				t.Errorf("affected = %d, want %d", got, tt.want)
			}
			for _, b := range blobs {
				if b.Kind != components.KindFood && (b.Vel.X != 0 || b.Vel.Y != 0) {
					t.Errorf("%v moved under gravity", b.Kind)
				}
			}
		})
	}
}

func TestApplyPlayerGravityDirectionAndFalloff(t *testing.T) {
	cfg := config.Default()
	player := components.NewBlob(components.KindPlayer, 0, 0, 40)
	near := components.NewBlob(components.KindFood, 50, 0, 5)
	far := components.NewBlob(components.KindFood, 0, 200, 5)

	if n := ApplyPlayerGravity(player, []components.Blob{near, far}, 1, cfg); n != 2 {
		t.Fatalf("affected = %d, want 2", n)
	}
	if near.Vel.X >= 0 {
		t.Errorf("near food vx = %v, want toward player", near.Vel.X)
	}
	if far.Vel.Y >= 0 {
		t.Errorf("far food vy = %v, want toward player", far.Vel.Y)
	}
	if math.Abs(near.Vel.X) <= math.Abs(far.Vel.Y) {
		t.Errorf("near pull %v not stronger than far pull %v", near.Vel.X, far.Vel.Y)
	}

	strength := GravityStrength(cfg, 40)
	reach := 40 * cfg.Gravity.RangeMultiplier
	want := strength * math.Pow(1-50/reach, 2)
	if math.Abs(-near.Vel.X-want) > 1e-9 {
		t.Errorf("near pull = %v, want %v", -near.Vel.X, want)
	}
}

func TestGravityStrengthSuperLinear(t *testing.T) {
	cfg := config.Default()
	s40 := GravityStrength(cfg, 40)
	s80 := GravityStrength(cfg, 80)
	if s80/s40 <= 2 {
		t.Errorf("strength ratio = %v, want > 2", s80/s40)
	}
	if GravityStrength(cfg, 10) != 0 {
		t.Error("gravity active below threshold")
	}
}
