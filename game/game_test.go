package game

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
	"github.com/pthm-cable/blobworld/telemetry"
)

var testChunk = components.MakeChunkKey(9999, 9999)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g, err := New(config.Default(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// startIsolated starts a run and removes everything except the player.
func startIsolated(t *testing.T, g *Game) components.Blob {
	t.Helper()
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g.Store().RemoveWhere(func(components.Blob) bool { return true })
	p, ok := g.Store().Player()
	if !ok {
		t.Fatal("no player after Start")
	}
	return p
}

func place(g *Game, ents ...components.Entity) {
	g.Store().AddChunk(testChunk, ents)
}

func collect(g *Game) *[]Event {
	var events []Event
	g.SubscribeAll(func(ev Event) { events = append(events, ev) })
	return &events
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

func TestStateTransitions(t *testing.T) {
	g := newTestGame(t, Options{})

	if g.State() != StateMenu {
		t.Fatalf("initial state = %s, want menu", g.State())
	}
	if err := g.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause from menu: err = %v, want ErrInvalidTransition", err)
	}
	if err := g.Restart(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Restart from menu: err = %v, want ErrInvalidTransition", err)
	}

	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if g.State() != StatePlaying || g.Run() != 1 {
		t.Fatalf("after Start: state %s run %d", g.State(), g.Run())
	}
	if g.LoadedChunks() == 0 {
		t.Error("Start should load chunks around the player")
	}

	if err := g.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if res := g.Update(100); res.Updated {
		t.Error("Update while paused should not simulate")
	}
	if g.Frame() != 0 {
		t.Errorf("frame = %d after paused update, want 0", g.Frame())
	}

	if err := g.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if err := g.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start while playing: err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateBeforeStart(t *testing.T) {
	g := newTestGame(t, Options{})
	if res := g.Update(16); res.Updated || res.PlayerDied {
		t.Errorf("Update in menu = %+v, want zero result", res)
	}
	if g.Frame() != 0 || g.ElapsedMs() != 0 {
		t.Error("menu update should not advance time")
	}
}

func TestFrameDeltaClamping(t *testing.T) {
	g := newTestGame(t, Options{})
	startIsolated(t, g)
	cfg := g.Config()

	// First frame of a run is nominal regardless of the timestamp.
	g.Update(5000)
	if got := g.ElapsedMs(); math.Abs(got-cfg.Timing.TargetFrameMs) > 1e-9 {
		t.Errorf("first frame elapsed = %v, want %v", got, cfg.Timing.TargetFrameMs)
	}

	// A long stall is clamped.
	before := g.ElapsedMs()
	g.Update(6000)
	if got := g.ElapsedMs() - before; math.Abs(got-cfg.Derived.MaxDeltaMs) > 1e-9 {
		t.Errorf("stalled frame elapsed = %v, want %v", got, cfg.Derived.MaxDeltaMs)
	}

	// Time going backwards simulates nothing.
	before = g.ElapsedMs()
	g.Update(5990)
	if got := g.ElapsedMs() - before; got != 0 {
		t.Errorf("backwards frame elapsed = %v, want 0", got)
	}

	if g.Frame() != 3 {
		t.Errorf("frame = %d, want 3", g.Frame())
	}
}

func TestResumeSkipsPausedTime(t *testing.T) {
	g := newTestGame(t, Options{})
	startIsolated(t, g)
	cfg := g.Config()

	g.Update(0)
	g.Update(16)
	g.Pause()
	g.Resume()
	before := g.ElapsedMs()
	g.Update(60000)
	if got := g.ElapsedMs() - before; math.Abs(got-cfg.Timing.TargetFrameMs) > 1e-9 {
		t.Errorf("frame after resume elapsed = %v, want %v", got, cfg.Timing.TargetFrameMs)
	}
}

func TestPlayerDeath(t *testing.T) {
	g := newTestGame(t, Options{})
	events := collect(g)
	p := startIsolated(t, g)

	g.score = 75
	p.Body.Radius = g.Config().Player.MinRadius

	res := g.Update(0)
	if !res.PlayerDied || !res.Updated {
		t.Fatalf("Update = %+v, want PlayerDied", res)
	}
	if g.State() != StateGameOver {
		t.Errorf("state = %s, want game_over", g.State())
	}
	if g.HighScore() != 75 {
		t.Errorf("high score = %v, want 75", g.HighScore())
	}
	if countKind(*events, EventPlayerDied) != 1 {
		t.Errorf("PlayerDied events = %d, want 1", countKind(*events, EventPlayerDied))
	}
	if g.HallOfFame().Len() != 1 {
		t.Errorf("hall of fame size = %d, want 1", g.HallOfFame().Len())
	}

	// Game over is terminal until Restart.
	if res := g.Update(16); res.Updated {
		t.Error("Update after game over should not simulate")
	}

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if g.Score() != 0 || g.HighScore() != 75 || g.Run() != 2 {
		t.Errorf("after restart: score %v high %v run %d", g.Score(), g.HighScore(), g.Run())
	}
	if p, ok := g.Store().Player(); !ok || p.Body.Radius != g.Config().Player.InitialRadius {
		t.Error("restart should spawn a fresh player")
	}
}

func TestEatingFoodScores(t *testing.T) {
	g := newTestGame(t, Options{})
	events := collect(g)
	p := startIsolated(t, g)

	place(g, components.Entity{Kind: components.KindFood, X: p.Body.Radius + 2, Y: 0, Radius: 5, Hue: 100})

	g.Update(0)
	if g.Score() <= 0 {
		t.Fatalf("score = %v, want > 0", g.Score())
	}
	if countKind(*events, EventScoreChanged) != 1 {
		t.Errorf("ScoreChanged events = %d, want 1", countKind(*events, EventScoreChanged))
	}
	p, _ = g.Store().Player()
	if p.Body.Radius <= g.Config().Player.InitialRadius {
		t.Errorf("player radius = %v, want growth", p.Body.Radius)
	}
}

func TestMilestonesAndGravity(t *testing.T) {
	g := newTestGame(t, Options{})
	var milestones []float64
	g.Subscribe(EventMilestoneReached, func(ev Event) {
		milestones = append(milestones, ev.(MilestoneReached).Radius)
	})
	gravity := 0
	g.Subscribe(EventGravityActivated, func(Event) { gravity++ })

	p := startIsolated(t, g)
	p.Body.Radius = 55

	g.Update(0)
	if len(milestones) != 2 || milestones[0] != 30 || milestones[1] != 50 {
		t.Errorf("milestones = %v, want [30 50]", milestones)
	}
	if gravity != 1 {
		t.Errorf("gravity events = %d, want 1", gravity)
	}

	g.Update(16)
	if len(milestones) != 2 || gravity != 1 {
		t.Errorf("events repeated: milestones %v gravity %d", milestones, gravity)
	}
}

func TestRenderStateOrdering(t *testing.T) {
	g := newTestGame(t, Options{})
	startIsolated(t, g)

	place(g,
		components.Entity{Kind: components.KindBlackHole, X: 300, Y: 0, Radius: 25, Hue: 280},
		components.Entity{Kind: components.KindFood, X: 0, Y: 150, Radius: 5, Hue: 100},
		components.Entity{Kind: components.KindEnemy, X: -200, Y: 0, Radius: 12, Hue: 10},
	)

	rs := g.RenderState()
	if !rs.HasPlayer {
		t.Fatal("render state missing player")
	}
	if len(rs.Entities) != 4 || rs.BallCount != 4 {
		t.Fatalf("entities = %d balls = %d, want 4", len(rs.Entities), rs.BallCount)
	}
	want := []components.Kind{components.KindPlayer, components.KindFood, components.KindEnemy, components.KindBlackHole}
	for i, e := range rs.Entities {
		if e.Kind != want[i] {
			t.Errorf("entity %d kind = %s, want %s", i, e.Kind, want[i])
		}
	}
	if rs.Balls[2] != float32(g.Config().Player.InitialRadius) {
		t.Errorf("first ball radius = %v, want player radius", rs.Balls[2])
	}
	if !rs.Entities[1].HasChunk || rs.Entities[1].Chunk != testChunk {
		t.Error("chunk owned entity should carry its chunk key")
	}
	if rs.State != StatePlaying {
		t.Errorf("state = %s, want playing", rs.State)
	}
}

func TestStatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) }})
	g.cfg.Telemetry.StatsWindowSec = 0.05
	g.collector = telemetry.NewCollector(g.cfg.Telemetry.StatsWindowSec)
	startIsolated(t, g)

	for i := 0; i < 10; i++ {
		g.Update(float64(i) * 16)
	}
	if len(windows) == 0 {
		t.Fatal("expected at least one stats window")
	}
	if windows[0].Run != 1 || windows[0].PlayerRadius <= 0 {
		t.Errorf("window = %+v", windows[0])
	}
}

func TestOutputFiles(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, Options{OutputDir: dir})
	p := startIsolated(t, g)
	p.Body.Radius = 0
	g.Update(0)

	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, name := range []string{"config.yaml", "hall_of_fame.json", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestAutopilotRun(t *testing.T) {
	auto := NewAutopilot(config.Default())
	g := newTestGame(t, Options{Input: auto})
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	now := 0.0
	for i := 0; i < 1200 && g.State() == StatePlaying; i++ {
		auto.Observe(g.RenderState())
		g.Update(now)
		now += g.Config().Timing.TargetFrameMs
	}

	if g.Frame() == 0 {
		t.Fatal("no frames simulated")
	}
	if g.State() == StatePlaying {
		p, ok := g.Store().Player()
		if !ok {
			t.Fatal("playing without a player")
		}
		r := p.Body.Radius
		if math.IsNaN(r) || r <= g.Config().Player.MinRadius {
			t.Errorf("live player radius = %v", r)
		}
		if math.IsNaN(p.Pos.X) || math.IsNaN(p.Pos.Y) {
			t.Error("player position is NaN")
		}
	}
}
