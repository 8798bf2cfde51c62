package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayChunkBounds OverlayID = "chunk_bounds"
	OverlayVelocities  OverlayID = "velocities"
	OverlayReach       OverlayID = "reach"
	OverlayInspector   OverlayID = "inspector"
	OverlayPerf        OverlayID = "perf"
	OverlayStats       OverlayID = "stats"
	OverlayHistory     OverlayID = "history"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "S", "V")
	Category    string      // Grouping (e.g., "visual", "debug", "ai")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	// World overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayChunkBounds,
		Name:        "Chunk Bounds",
		Description: "Outline loaded chunks with their keys",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "world",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayVelocities,
		Name:        "Velocities",
		Description: "Draw velocity vectors",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "world",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayReach,
		Name:        "Reach",
		Description: "Black hole pull/drain rings and player gravity reach",
		Key:         rl.KeyR,
		KeyLabel:    "R",
		Category:    "world",
	})

	// Panels
	r.Register(OverlayDescriptor{
		ID:          OverlayInspector,
		Name:        "Inspector",
		Description: "Show details of the entity under the cursor",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Update phase timing",
		Key:         rl.KeyF3,
		KeyLabel:    "F3",
		Category:    "panels",
		Exclusive:   []OverlayID{OverlayStats},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayStats,
		Name:        "Window Stats",
		Description: "Last telemetry window",
		Key:         rl.KeyF4,
		KeyLabel:    "F4",
		Category:    "panels",
		Exclusive:   []OverlayID{OverlayPerf},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayHistory,
		Name:        "History",
		Description: "Graph of recent telemetry windows",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "panels",
	})
}

// Register adds an overlay to the registry, initially disabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return on
}

// SetEnabled sets an overlay's state. Enabling it disables its exclusive peers.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = on
	if !on {
		return
	}
	for _, excl := range desc.Exclusive {
		r.enabled[excl] = false
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// ByCategory returns the overlays of one category in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			out = append(out, desc)
		}
	}
	return out
}

// Categories returns the distinct categories in registration order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, desc := range r.descriptors {
		if !slices.Contains(cats, desc.Category) {
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key.
// It returns the overlay, its new state and whether any overlay matched.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Enabled returns the active overlays in registration order.
func (r *OverlayRegistry) Enabled() []OverlayID {
	var out []OverlayID
	for _, desc := range r.descriptors {
		if r.enabled[desc.ID] {
			out = append(out, desc.ID)
		}
	}
	return out
}
