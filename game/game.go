// Package game implements the simulation orchestrator: the run state machine,
// the per-frame update pipeline, events and the render snapshot.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/blobworld/camera"
	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
	"github.com/pthm-cable/blobworld/systems"
	"github.com/pthm-cable/blobworld/telemetry"
)

// State is the run state.
type State uint8

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when a state change is not allowed from
// the current state.
var ErrInvalidTransition = errors.New("invalid state transition")

// EnemyAI steers enemies. It may only mutate enemy velocities.
type EnemyAI interface {
	UpdateEnemies(blobs []components.Blob, player components.Blob, dt float64)
}

// Options configures optional collaborators. Zero values select defaults.
type Options struct {
	Input  Input   // nil means no input
	AI     EnemyAI // nil means systems.ChaseAI
	Logger *slog.Logger

	LogStats      bool                        // log window stats via slog
	OutputDir     string                      // CSV output directory, empty disables
	StatsCallback func(telemetry.WindowStats) // called after each stats window
}

// Game owns one simulation and its run lifecycle.
// A Game is not safe for concurrent use.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger

	world   *ecs.World
	store   *systems.EntityStore
	chunks  *systems.ChunkManager
	physics *systems.PhysicsSystem
	camera  *camera.Camera
	render  *systems.RenderBuffer

	input Input
	ai    EnemyAI

	events *eventBus

	state     State
	run       int
	frame     int
	lastMs    float64
	hasLast   bool
	elapsedMs float64

	score         float64
	highScore     float64
	nextMilestone int
	gravityActive bool

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	runTracker    *telemetry.RunTracker
	hallOfFame    *telemetry.HallOfFame
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New creates a game in the Menu state. cfg must not be modified afterwards.
func New(cfg *config.Config, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:     cfg,
		logger:  logger,
		world:   world,
		store:   systems.NewEntityStore(world, cfg.Spatial.CellSize),
		chunks:  systems.NewChunkManager(cfg.Chunk),
		physics: systems.NewPhysicsSystem(cfg),
		camera: camera.New(
			float64(cfg.Screen.Width), float64(cfg.Screen.Height),
			cfg.Camera, cfg.Player.InitialRadius,
		),
		render: systems.NewRenderBuffer(cfg.Render.MaxBalls),
		input:  opts.Input,
		ai:     opts.AI,
		events: newEventBus(),

		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindowSec),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		runTracker:    telemetry.NewRunTracker(),
		hallOfFame:    telemetry.NewHallOfFame(10),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	if g.ai == nil {
		g.ai = systems.NewChaseAI(cfg)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	g.outputManager = om

	return g, nil
}

// Subscribe registers fn for one event kind.
func (g *Game) Subscribe(kind EventKind, fn Listener) {
	g.events.subscribe(kind, fn)
}

// SubscribeAll registers fn for every event.
func (g *Game) SubscribeAll(fn Listener) {
	g.events.subscribeAll(fn)
}

// SetInput replaces the input source.
func (g *Game) SetInput(in Input) {
	g.input = in
}

// Start begins the first run. Only valid from Menu.
func (g *Game) Start() error {
	if g.state != StateMenu {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, g.state)
	}
	g.newRun()
	g.setState(StatePlaying)
	return nil
}

// Restart begins a new run after a game over.
func (g *Game) Restart() error {
	if g.state != StateGameOver {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, g.state)
	}
	g.newRun()
	g.setState(StatePlaying)
	return nil
}

// Pause suspends a running game.
func (g *Game) Pause() error {
	if g.state != StatePlaying {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, g.state)
	}
	g.setState(StatePaused)
	return nil
}

// Resume continues a paused game. The paused wall time is not simulated.
func (g *Game) Resume() error {
	if g.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, g.state)
	}
	g.hasLast = false
	g.setState(StatePlaying)
	return nil
}

// State returns the current state.
func (g *Game) State() State { return g.state }

// Score returns the current run's score.
func (g *Game) Score() float64 { return g.score }

// HighScore returns the best score over all runs of this Game.
func (g *Game) HighScore() float64 { return g.highScore }

// Frame returns the number of simulated frames in the current run.
func (g *Game) Frame() int { return g.frame }

// ElapsedMs returns simulated milliseconds since the current run started.
func (g *Game) ElapsedMs() float64 { return g.elapsedMs }

// NextMilestone returns the next milestone radius of the current run.
// ok is false once every milestone has been reached.
func (g *Game) NextMilestone() (radius float64, ok bool) {
	radii := g.cfg.Milestones.Radii
	if g.nextMilestone >= len(radii) {
		return 0, false
	}
	return radii[g.nextMilestone], true
}

// Run returns the 1-based index of the current run, 0 before Start.
func (g *Game) Run() int { return g.run }

// Config returns the game's configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Camera returns the camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Store returns the entity store.
func (g *Game) Store() *systems.EntityStore { return g.store }

// LoadedChunks returns the number of loaded chunks.
func (g *Game) LoadedChunks() int { return g.chunks.Len() }

// LoadedChunkKeys returns the keys of every loaded chunk.
func (g *Game) LoadedChunkKeys() []components.ChunkKey { return g.chunks.Loaded() }

// HallOfFame returns the best runs so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame { return g.hallOfFame }

// Perf returns the update phase timer.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Close flushes telemetry output.
func (g *Game) Close() error {
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		g.outputManager.Close()
		return err
	}
	return g.outputManager.Close()
}

func (g *Game) setState(s State) {
	if s == g.state {
		return
	}
	old := g.state
	g.state = s
	g.logger.Info("state changed", "from", old.String(), "to", s.String(), "run", g.run)
	g.events.emit(StateChanged{Old: old, New: s})
}
