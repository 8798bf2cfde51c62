package game

import (
	"math"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

// Action is a player movement action.
type Action uint8

const (
	MoveUp Action = iota
	MoveDown
	MoveLeft
	MoveRight

	actionCount
)

// Input is polled once per Update for the current action state.
type Input interface {
	IsActionActive(Action) bool
}

// inputDirection converts the polled action state into an axis direction.
func inputDirection(in Input) (dx, dy float64) {
	if in == nil {
		return 0, 0
	}
	if in.IsActionActive(MoveLeft) {
		dx--
	}
	if in.IsActionActive(MoveRight) {
		dx++
	}
	if in.IsActionActive(MoveUp) {
		dy--
	}
	if in.IsActionActive(MoveDown) {
		dy++
	}
	return dx, dy
}

// KeyState is an Input whose actions are set directly, for tests and hosts
// that translate their own events.
type KeyState struct {
	active [actionCount]bool
}

// Set marks an action active or inactive.
func (k *KeyState) Set(a Action, on bool) {
	if a < actionCount {
		k.active[a] = on
	}
}

// Clear releases every action.
func (k *KeyState) Clear() {
	k.active = [actionCount]bool{}
}

// IsActionActive implements Input.
func (k *KeyState) IsActionActive(a Action) bool {
	return a < actionCount && k.active[a]
}

// Autopilot is an Input that steers from the last observed render state:
// toward entities the player can absorb, away from larger enemies and black
// holes. With nothing in view it heads east to explore new chunks.
type Autopilot struct {
	threshold   float64
	bhReach     float64
	keys        KeyState
	lastHeading [2]float64
}

// NewAutopilot creates an autopilot using the given tuning.
func NewAutopilot(cfg *config.Config) *Autopilot {
	return &Autopilot{
		threshold:   cfg.Absorption.Threshold,
		bhReach:     cfg.BlackHole.PullMultiplier,
		lastHeading: [2]float64{1, 0},
	}
}

// Observe updates the steering decision from a render snapshot.
func (a *Autopilot) Observe(rs RenderState) {
	a.keys.Clear()
	if !rs.HasPlayer {
		return
	}
	p := rs.Player

	var sx, sy float64
	for _, e := range rs.Entities {
		if e.Kind == components.KindPlayer {
			continue
		}
		dx, dy := e.X-p.X, e.Y-p.Y
		d2 := dx*dx + dy*dy + 1
		d := math.Sqrt(d2)

		var w float64
		switch {
		case e.Kind == components.KindBlackHole:
			if d < e.Radius*a.bhReach+p.Radius {
				w = -50 * e.Radius * e.Radius / d2
			}
		case e.Kind == components.KindFood && p.Radius > e.Radius:
			w = e.Radius * e.Radius / d2
		case e.Kind == components.KindEnemy && p.Radius > e.Radius*a.threshold:
			w = 2 * e.Radius * e.Radius / d2
		case e.Kind == components.KindEnemy && e.Radius > p.Radius*a.threshold:
			w = -8 * e.Radius * e.Radius / d2
		}
		sx += w * dx / d
		sy += w * dy / d
	}

	if sx*sx+sy*sy < 1e-6 {
		sx, sy = a.lastHeading[0], a.lastHeading[1]
	} else {
		n := math.Hypot(sx, sy)
		a.lastHeading = [2]float64{sx / n, sy / n}
		sx, sy = a.lastHeading[0], a.lastHeading[1]
	}

	// 0.38 is roughly sin(22.5deg): octant steering.
	const dead = 0.38
	a.keys.Set(MoveRight, sx > dead)
	a.keys.Set(MoveLeft, sx < -dead)
	a.keys.Set(MoveDown, sy > dead)
	a.keys.Set(MoveUp, sy < -dead)
}

// IsActionActive implements Input.
func (a *Autopilot) IsActionActive(act Action) bool {
	return a.keys.IsActionActive(act)
}
