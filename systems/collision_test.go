package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

func TestHandleCollisionFoodScenario(t *testing.T) {
	cfg := config.Default()
	player := components.NewBlob(components.KindPlayer, 0, 0, 22)
	food := components.NewBlob(components.KindFood, 20, 0, 8)

	prevPlayer, prevFood := player.Body.Radius, food.Body.Radius
	totalScored := 0.0
	for i := 0; i < 200 && !ShouldRemoveEntity(food, cfg.Absorption.DeathRadius); i++ {
		res := HandleCollision(player, food, 1, cfg)
		if !res.IsAbsorption {
			t.Fatalf("frame %d: no absorption with food r=%v", i, food.Body.Radius)
		}
		if player.Body.Radius <= prevPlayer {
			t.Fatalf("frame %d: player radius %v did not grow from %v", i, player.Body.Radius, prevPlayer)
		}
		if food.Body.Radius >= prevFood {
			t.Fatalf("frame %d: food radius %v did not shrink from %v", i, food.Body.Radius, prevFood)
		}
		if math.Abs(res.PlayerScored-(player.Body.Radius-prevPlayer)) > 1e-12 {
			t.Errorf("frame %d: PlayerScored = %v, want %v", i, res.PlayerScored, player.Body.Radius-prevPlayer)
		}
		totalScored += res.PlayerScored
		prevPlayer, prevFood = player.Body.Radius, food.Body.Radius
	}

	if !ShouldRemoveEntity(food, cfg.Absorption.DeathRadius) {
		t.Fatalf("food never reached death radius, r=%v", food.Body.Radius)
	}
	if math.Abs(player.Body.Radius-22-totalScored) > 1e-9 {
		t.Errorf("score total %v does not match growth %v", totalScored, player.Body.Radius-22)
	}
	// Food is pulled toward the player.
	if food.Vel.X >= 0 {
		t.Errorf("food vx = %v, want negative", food.Vel.X)
	}
}

func TestHandleCollisionAreaConservation(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name       string
		larger     components.Kind
		smaller    components.Kind
		rl, rs, dx float64
		dt         float64
	}{
		{"player eats food", components.KindPlayer, components.KindFood, 22, 8, 20, 1},
		{"player eats enemy", components.KindPlayer, components.KindEnemy, 40, 20, 30, 1},
		{"enemy eats player", components.KindEnemy, components.KindPlayer, 60, 20, 50, 1},
		{"long frame", components.KindPlayer, components.KindFood, 30, 6, 10, 3},
		{"short frame", components.KindPlayer, components.KindEnemy, 100, 50, 120, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := components.NewBlob(tt.larger, 0, 0, tt.rl)
			s := components.NewBlob(tt.smaller, tt.dx, 0, tt.rs)
			before := l.Body.Radius*l.Body.Radius + s.Body.Radius*s.Body.Radius

			res := HandleCollision(s, l, tt.dt, cfg)
			if !res.IsAbsorption {
				t.Fatal("expected absorption")
			}
			after := l.Body.Radius*l.Body.Radius + s.Body.Radius*s.Body.Radius
			if math.Abs(after-before)/before > 1e-12 {
				t.Errorf("sum of r^2 changed from %v to %v", before, after)
			}
			gained := math.Pi * (tt.rs*tt.rs - s.Body.Radius*s.Body.Radius)
			if math.Abs(res.AreaTransferred-gained) > 1e-9 {
				t.Errorf("AreaTransferred = %v, want %v", res.AreaTransferred, gained)
			}
		})
	}
}

func TestHandleCollisionTransferCap(t *testing.T) {
	cfg := config.Default()
	abs := cfg.Absorption

	// Deep overlap: the per-frame cap applies.
	p := components.NewBlob(components.KindPlayer, 0, 0, 50)
	f := components.NewBlob(components.KindFood, 1, 0, 10)
	HandleCollision(p, f, 1, cfg)
	if want := 10 - 10*abs.MaxRatio; math.Abs(f.Body.Radius-want) > 1e-12 {
		t.Errorf("capped victim radius = %v, want %v", f.Body.Radius, want)
	}

	// Being eaten uses the reduced cap.
	e := components.NewBlob(components.KindEnemy, 0, 0, 100)
	pl := components.NewBlob(components.KindPlayer, 1, 0, 20)
	HandleCollision(e, pl, 1, cfg)
	if want := 20 - 20*abs.MaxRatio*abs.EatenRatioFactor; math.Abs(pl.Body.Radius-want) > 1e-12 {
		t.Errorf("eaten player radius = %v, want %v", pl.Body.Radius, want)
	}

	// Shallow overlap: the overlap-rate term applies.
	p2 := components.NewBlob(components.KindPlayer, 0, 0, 30)
	f2 := components.NewBlob(components.KindFood, 39, 0, 10)
	HandleCollision(p2, f2, 1, cfg)
	if want := 10 - 1*abs.Rate; math.Abs(f2.Body.Radius-want) > 1e-9 {
		t.Errorf("shallow victim radius = %v, want %v", f2.Body.Radius, want)
	}
}

func TestHandleCollisionThresholdBoundary(t *testing.T) {
	cfg := config.Default()
	threshold := cfg.Absorption.Threshold

	tests := []struct {
		name      string
		larger    components.Kind
		smaller   components.Kind
		rs        float64
		extra     float64
		wantAbsor bool
	}{
		{"enemy exactly at threshold", components.KindEnemy, components.KindPlayer, 20, 0, false},
		{"enemy just above threshold", components.KindEnemy, components.KindPlayer, 20, 1e-9, true},
		{"player exactly at threshold", components.KindPlayer, components.KindEnemy, 20, 0, false},
		{"player just above threshold", components.KindPlayer, components.KindEnemy, 20, 1e-9, true},
		{"player barely larger than food", components.KindPlayer, components.KindFood, 20, 1e-9 - 20*(threshold-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := tt.rs*threshold + tt.extra
			l := components.NewBlob(tt.larger, 0, 0, rl)
			s := components.NewBlob(tt.smaller, rl, 0, tt.rs)
			if got := CanAbsorb(l, s, threshold); got != tt.wantAbsor {
				t.Fatalf("CanAbsorb = %v, want %v", got, tt.wantAbsor)
			}
			res := HandleCollision(l, s, 1, cfg)
			if res.IsAbsorption != tt.wantAbsor {
				t.Errorf("IsAbsorption = %v, want %v", res.IsAbsorption, tt.wantAbsor)
			}
			if !tt.wantAbsor && s.Body.Radius != tt.rs {
				t.Errorf("ineligible victim radius changed to %v", s.Body.Radius)
			}
		})
	}
}

func TestHandleCollisionPushWhenIneligible(t *testing.T) {
	cfg := config.Default()
	a := components.NewBlob(components.KindEnemy, 0, 0, 20)
	b := components.NewBlob(components.KindEnemy, 30, 0, 20)

	res := HandleCollision(a, b, 1, cfg)
	if res.IsAbsorption || res.AreaTransferred != 0 {
		t.Fatalf("enemies exchanged mass: %+v", res)
	}
	if a.Vel.X >= 0 || b.Vel.X <= 0 {
		t.Errorf("push velocities = %v, %v, want apart", a.Vel.X, b.Vel.X)
	}
	if math.Abs(a.Vel.X+b.Vel.X) > 1e-12 {
		t.Errorf("push is not symmetric: %v vs %v", a.Vel.X, b.Vel.X)
	}

	// Coincident centres produce no NaN.
	c := components.NewBlob(components.KindFood, 5, 5, 4)
	d := components.NewBlob(components.KindFood, 5, 5, 4)
	HandleCollision(c, d, 1, cfg)
	if math.IsNaN(c.Vel.X) || math.IsNaN(d.Vel.Y) {
		t.Error("coincident push produced NaN")
	}
}

func TestHandleCollisionPreContactAttraction(t *testing.T) {
	cfg := config.Default()
	p := components.NewBlob(components.KindPlayer, 0, 0, 20)
	f := components.NewBlob(components.KindFood, 50, 0, 5)

	res := HandleCollision(p, f, 1, cfg)
	if res.IsAbsorption {
		t.Fatal("absorbed without contact")
	}
	want := -cfg.Absorption.AttractStrength / 50
	if math.Abs(f.Vel.X-want) > 1e-6 {
		t.Errorf("attraction vx = %v, want %v", f.Vel.X, want)
	}
	if p.Vel.X != 0 {
		t.Errorf("player moved by attraction: %v", p.Vel.X)
	}

	far := components.NewBlob(components.KindFood, 20+5+cfg.Absorption.AttractRange+1, 0, 5)
	HandleCollision(p, far, 1, cfg)
	if far.Vel.X != 0 {
		t.Errorf("food beyond attract range moved: %v", far.Vel.X)
	}
}

func TestHandleCollisionIgnoresBlackHoles(t *testing.T) {
	cfg := config.Default()
	bh := components.NewBlob(components.KindBlackHole, 0, 0, 25)
	p := components.NewBlob(components.KindPlayer, 1, 0, 22)
	if res := HandleCollision(bh, p, 1, cfg); res != (CollisionResult{}) {
		t.Errorf("black hole collision result = %+v", res)
	}
	if p.Body.Radius != 22 || bh.Body.Radius != 25 {
		t.Error("black hole collision changed radii")
	}
}

func TestApplyBlackHoleEffectDrainScenario(t *testing.T) {
	cfg := config.Default()
	bh := components.NewBlob(components.KindBlackHole, 0, 0, 25)
	drainR := 25 * cfg.BlackHole.DrainMultiplier
	player := components.NewBlob(components.KindPlayer, drainR/2, 0, 22)
	minR := cfg.Player.MinRadius

	prev := player.Body.Radius
	died := false
	for i := 0; i < 1000; i++ {
		// Hold the player in place; only the effect is under test.
		player.Pos.X, player.Pos.Y = drainR/2, 0
		if !ApplyBlackHoleEffect(bh, player, 1, cfg) {
			t.Fatalf("frame %d: player inside drain radius not affected", i)
		}
		r := player.Body.Radius
		if r > prev {
			t.Fatalf("frame %d: radius grew from %v to %v", i, prev, r)
		}
		if r < minR {
			t.Fatalf("frame %d: radius %v below minimum %v", i, r, minR)
		}
		if IsPlayerDead(player, minR) {
			died = true
			break
		}
		if r >= prev {
			t.Fatalf("frame %d: radius did not decrease above the floor", i)
		}
		prev = r
	}
	if !died {
		t.Fatalf("player never reached the minimum radius, r=%v", player.Body.Radius)
	}
	if player.Body.Radius != minR {
		t.Errorf("final radius = %v, want %v", player.Body.Radius, minR)
	}
	if player.Vel.X >= 0 {
		t.Errorf("player vx = %v, want pull toward the black hole", player.Vel.X)
	}
}

func TestApplyBlackHoleEffectRanges(t *testing.T) {
	cfg := config.Default()
	bh := components.NewBlob(components.KindBlackHole, 0, 0, 25)
	pullR := 25 * cfg.BlackHole.PullMultiplier
	drainR := 25 * cfg.BlackHole.DrainMultiplier

	outside := components.NewBlob(components.KindPlayer, pullR+1, 0, 22)
	if ApplyBlackHoleEffect(bh, outside, 1, cfg) {
		t.Error("player outside pull radius affected")
	}

	pulled := components.NewBlob(components.KindPlayer, (pullR+drainR)/2, 0, 22)
	if !ApplyBlackHoleEffect(bh, pulled, 1, cfg) {
		t.Fatal("player inside pull radius not affected")
	}
	if pulled.Body.Radius != 22 {
		t.Errorf("player outside drain radius drained to %v", pulled.Body.Radius)
	}

	// Quadratic falloff: closer is stronger.
	near := components.NewBlob(components.KindPlayer, drainR+1, 0, 22)
	ApplyBlackHoleEffect(bh, near, 1, cfg)
	if math.Abs(near.Vel.X) <= math.Abs(pulled.Vel.X) {
		t.Errorf("pull near = %v, far = %v, want near stronger", near.Vel.X, pulled.Vel.X)
	}
}
