// Package main provides CMA-ES tuning of blobworld difficulty parameters so
// that an autopilot run survives close to a target duration.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/blobworld/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxFrames := flag.Int("max-frames", 36000, "Maximum frames per run (cap)")
	targetSec := flag.Float64("target-sec", 90, "Target autopilot survival time in simulated seconds")
	fpsList := flag.String("fps", "30,60,120", "Frame rates each candidate is played at")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(*configPath, *outputDir, *fpsList, *maxFrames, *maxEvals, *population, *targetSec); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir, fpsList string, maxFrames, maxEvals, population int, targetSec float64) error {
	if outputDir == "" {
		return errors.New("--output is required")
	}
	rates, err := parseRates(fpsList)
	if err != nil {
		return fmt.Errorf("invalid --fps: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	baseCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	t, err := newTuner(params, NewFitnessEvaluator(params, maxFrames, targetSec, rates, baseCfg), outputDir, maxEvals)
	if err != nil {
		return err
	}
	defer t.close()

	popSize := population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	slog.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", popSize,
		"max_evals", maxEvals,
		"target_sec", targetSec,
		"fps", rates,
		"max_frames", maxFrames,
	)

	// Evaluations run sequentially; each one already plays every frame rate
	// in its own goroutine.
	result, err := optimize.Minimize(
		optimize.Problem{Func: t.objective},
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if t.best == nil && result != nil {
		t.best = params.Clamp(params.Denormalize(result.X))
	}
	if t.best == nil {
		return errors.New("no evaluations completed")
	}

	return t.writeResults(baseCfg)
}

// tuner wraps the fitness evaluator with progress logging and the CSV log.
type tuner struct {
	params    *ParamVector
	eval      *FitnessEvaluator
	outputDir string
	maxEvals  int

	file *os.File
	csv  *csv.Writer

	evals       int
	bestFitness float64
	best        []float64
	start       time.Time
}

func newTuner(params *ParamVector, eval *FitnessEvaluator, outputDir string, maxEvals int) (*tuner, error) {
	f, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	t := &tuner{
		params:      params,
		eval:        eval,
		outputDir:   outputDir,
		maxEvals:    maxEvals,
		file:        f,
		csv:         csv.NewWriter(f),
		bestFitness: 1e9,
		start:       time.Now(),
	}

	header := []string{"eval", "fitness", "survival_sec", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := t.csv.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing log header: %w", err)
	}
	return t, nil
}

// objective evaluates one normalized candidate and records it.
func (t *tuner) objective(x []float64) float64 {
	values := t.params.Clamp(t.params.Denormalize(x))
	fitness := t.eval.Evaluate(values)
	t.evals++
	if fitness < t.bestFitness {
		t.bestFitness = fitness
		t.best = values
	}

	survival, quality := t.eval.Last()
	row := []string{
		strconv.Itoa(t.evals),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(survival, 'f', 2, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := t.csv.Write(row); err != nil {
		slog.Error("failed to write log row", "error", err)
	}
	t.csv.Flush()

	elapsed := time.Since(t.start)
	eta := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	slog.Info("eval",
		"n", t.evals,
		"survived_sec", int(survival),
		"quality", quality,
		"fitness", fitness,
		"best", t.bestFitness,
		"elapsed", formatDuration(elapsed),
		"eta", formatDuration(eta),
	)
	return fitness
}

// writeResults saves the best config and hall of fame.
func (t *tuner) writeResults(baseCfg *config.Config) error {
	slog.Info("optimization complete",
		"evals", t.evals,
		"duration", formatDuration(time.Since(t.start)),
		"best_fitness", t.bestFitness,
	)
	for i, spec := range t.params.Specs {
		slog.Info("best param", "name", spec.Name, "path", spec.Path, "value", t.best[i])
	}

	bestCfg := *baseCfg
	t.params.ApplyToConfig(&bestCfg, t.best)
	if err := bestCfg.Validate(); err != nil {
		slog.Warn("best config failed validation", "error", err)
	}
	cfgPath := filepath.Join(t.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(cfgPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", cfgPath)

	hof := t.eval.BestHallOfFame()
	if hof == nil {
		return nil
	}
	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding hall of fame: %w", err)
	}
	hofPath := filepath.Join(t.outputDir, "hall_of_fame.json")
	if err := os.WriteFile(hofPath, data, 0644); err != nil {
		return fmt.Errorf("writing hall of fame: %w", err)
	}
	slog.Info("hall of fame saved", "path", hofPath)
	return nil
}

func (t *tuner) close() {
	t.csv.Flush()
	t.file.Close()
}

// parseRates parses a comma separated list of frame rates.
func parseRates(s string) ([]float64, error) {
	var rates []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fps, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("frame rate %q: %w", part, err)
		}
		if fps <= 0 {
			return nil, fmt.Errorf("frame rate %q must be positive", part)
		}
		rates = append(rates, fps)
	}
	if len(rates) == 0 {
		return nil, errors.New("no frame rates given")
	}
	return rates, nil
}

// formatDuration formats d as 1h02m03s, or 2m03s below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
