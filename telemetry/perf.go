package telemetry

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step, in pipeline order.
const (
	PhaseInput      = "input"
	PhaseCamera     = "camera"
	PhaseChunks     = "chunks"
	PhaseIntegrate  = "integrate"
	PhaseBlackHoles = "black_holes"
	PhaseCollisions = "collisions"
	PhasePurge      = "purge"
	PhaseAI         = "ai"
	PhaseGravity    = "gravity"
	PhaseTelemetry  = "telemetry"
)

// Phases lists every phase in pipeline order.
var Phases = []string{
	PhaseInput, PhaseCamera, PhaseChunks, PhaseIntegrate, PhaseBlackHoles,
	PhaseCollisions, PhasePurge, PhaseAI, PhaseGravity, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
// Phases is indexed by registration order.
type PerfSample struct {
	TickDuration time.Duration
	Phases       []time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
// Phase slots are allocated on first use, so steady-state ticks do not allocate.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	phaseIndex map[string]int
	phaseNames []string

	current    []time.Duration
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  int // -1 when no phase is open

	tickScratch []float64

	// Graphics mode frame timing.
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		phaseIndex: make(map[string]int, len(Phases)),
		lastPhase:  -1,
	}
	for _, name := range Phases {
		p.phase(name)
	}
	return p
}

// phase returns the slot for name, registering it if needed.
func (p *PerfCollector) phase(name string) int {
	if idx, ok := p.phaseIndex[name]; ok {
		return idx
	}
	idx := len(p.phaseNames)
	p.phaseIndex[name] = idx
	p.phaseNames = append(p.phaseNames, name)
	p.current = append(p.current, 0)
	return idx
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.current)
	p.lastPhase = -1
}

// StartPhase ends the open phase, if any, and begins timing the named one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	if p.lastPhase >= 0 {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = p.phase(name)
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase >= 0 {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = -1
	}

	s := &p.samples[p.writeIndex]
	s.TickDuration = now.Sub(p.tickStart)
	s.Phases = append(s.Phases[:0], p.current...)

	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats summarizes the rolling window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[string]time.Duration // mean time per tick
	PhasePct map[string]float64       // share of the mean tick, 0..100

	TicksPerSecond float64

	// Graphics mode only.
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.phaseNames)),
		PhasePct:      make(map[string]float64, len(p.phaseNames)),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return out
	}

	ticks := p.tickScratch[:0]
	phaseSum := make([]time.Duration, len(p.phaseNames))
	for _, s := range p.samples[:p.sampleCount] {
		ticks = append(ticks, float64(s.TickDuration))
		for idx, dur := range s.Phases {
			phaseSum[idx] += dur
		}
	}
	p.tickScratch = ticks

	mean := stat.Mean(ticks, nil)
	out.AvgTickDuration = time.Duration(mean)
	out.MinTickDuration = time.Duration(floats.Min(ticks))
	out.MaxTickDuration = time.Duration(floats.Max(ticks))
	slices.Sort(ticks)
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	if mean > 0 {
		out.TicksPerSecond = float64(time.Second) / mean
	}

	n := time.Duration(p.sampleCount)
	for idx, sum := range phaseSum {
		if sum == 0 {
			continue
		}
		name := p.phaseNames[idx]
		avg := sum / n
		out.PhaseAvg[name] = avg
		if mean > 0 {
			out.PhasePct[name] = float64(avg) / mean * 100
		}
	}
	return out
}

// LogStats logs the window at Info.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer. Phases below 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", math.Round(pct*10)/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Run           int     `csv:"run"`
	WindowEndMs   float64 `csv:"window_end_ms"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	InputPct      float64 `csv:"input_pct"`
	CameraPct     float64 `csv:"camera_pct"`
	ChunksPct     float64 `csv:"chunks_pct"`
	IntegratePct  float64 `csv:"integrate_pct"`
	BlackHolesPct float64 `csv:"black_holes_pct"`
	CollisionsPct float64 `csv:"collisions_pct"`
	PurgePct      float64 `csv:"purge_pct"`
	AIPct         float64 `csv:"ai_pct"`
	GravityPct    float64 `csv:"gravity_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(run int, windowEndMs float64) PerfStatsCSV {
	return PerfStatsCSV{
		Run:           run,
		WindowEndMs:   windowEndMs,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		InputPct:      s.PhasePct[PhaseInput],
		CameraPct:     s.PhasePct[PhaseCamera],
		ChunksPct:     s.PhasePct[PhaseChunks],
		IntegratePct:  s.PhasePct[PhaseIntegrate],
		BlackHolesPct: s.PhasePct[PhaseBlackHoles],
		CollisionsPct: s.PhasePct[PhaseCollisions],
		PurgePct:      s.PhasePct[PhasePurge],
		AIPct:         s.PhasePct[PhaseAI],
		GravityPct:    s.PhasePct[PhaseGravity],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
