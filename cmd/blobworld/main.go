// Command blobworld runs the absorption game, either in a raylib debug
// viewer or headless with an autopilot.
package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/config"
	"github.com/pthm-cable/blobworld/game"
	"github.com/pthm-cable/blobworld/telemetry"
	"github.com/pthm-cable/blobworld/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, steered by the autopilot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxFrames := flag.Int("max-frames", 0, "Stop after N simulated frames across all runs (0 = unlimited)")
	runs := flag.Int("runs", 1, "Headless: number of runs to play before exiting")
	debug := flag.Bool("debug", false, "Enable debug logging")
	overlays := flag.String("overlays", "", "Viewer: comma-separated overlays enabled at start (e.g. stats,history)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindowSec = *statsWindow
	}

	opts := game.Options{
		Logger:    logger,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	if *headless {
		if err := runHeadless(cfg, opts, *maxFrames, *runs); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runWindow(cfg, opts, *maxFrames, *overlays); err != nil {
		slog.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless plays runs back to back with synthetic frame timestamps.
func runHeadless(cfg *config.Config, opts game.Options, maxFrames, runs int) error {
	auto := game.NewAutopilot(cfg)
	opts.Input = auto

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless simulation",
		"runs", runs,
		"max_frames", maxFrames,
		"stats_window", cfg.Telemetry.StatsWindowSec,
	)

	if err := g.Start(); err != nil {
		return err
	}

	now := 0.0
	total := 0
	for {
		auto.Observe(g.RenderState())
		res := g.Update(now)
		now += cfg.Timing.TargetFrameMs
		total++

		if maxFrames > 0 && total >= maxFrames {
			slog.Info("max frames reached", "frames", total, "run", g.Run(), "score", g.Score())
			return nil
		}
		if res.PlayerDied {
			if g.Run() >= runs {
				slog.Info("all runs finished", "runs", g.Run(), "frames", total, "high_score", g.HighScore())
				return nil
			}
			if err := g.Restart(); err != nil {
				return err
			}
		}
	}
}

// runWindow opens the raylib debug viewer.
func runWindow(cfg *config.Config, opts game.Options, maxFrames int, overlays string) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "blobworld")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape pauses instead of closing the window.
	rl.SetExitKey(rl.KeyNull)

	opts.Input = ui.NewKeyboardInput()

	var viewer *ui.Viewer
	opts.StatsCallback = func(s telemetry.WindowStats) {
		if viewer != nil {
			viewer.RecordStats(s)
		}
	}

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	viewer = ui.NewViewer(g)
	if overlays != "" {
		if err := viewer.EnableOverlays(strings.Split(overlays, ",")); err != nil {
			return err
		}
		slog.Debug("overlays enabled", "overlays", viewer.Overlays().Enabled())
	}

	for !rl.WindowShouldClose() {
		if !viewer.Frame(rl.GetTime() * 1000) {
			break
		}
		if maxFrames > 0 && g.Frame() >= maxFrames {
			break
		}
	}
	return nil
}
