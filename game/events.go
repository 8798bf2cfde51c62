package game

// EventKind identifies a game event.
type EventKind uint8

const (
	EventStateChanged EventKind = iota
	EventScoreChanged
	EventPlayerDied
	EventMilestoneReached
	EventGravityActivated
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventScoreChanged:
		return "score_changed"
	case EventPlayerDied:
		return "player_died"
	case EventMilestoneReached:
		return "milestone_reached"
	case EventGravityActivated:
		return "gravity_activated"
	default:
		return "unknown"
	}
}

// Event is implemented by every event payload.
type Event interface {
	Kind() EventKind
}

// StateChanged is emitted on every state transition.
type StateChanged struct {
	Old, New State
}

// ScoreChanged is emitted once per frame in which the score increased.
type ScoreChanged struct {
	Score float64
}

// PlayerDied is emitted when a run ends.
type PlayerDied struct {
	Score     float64
	HighScore float64
}

// MilestoneReached is emitted the first time the player's radius reaches a
// configured milestone in a run.
type MilestoneReached struct {
	Radius    float64 // the milestone crossed
	Score     float64
	ElapsedMs float64 // simulated time since the run started
}

// GravityActivated is emitted when the player first becomes large enough to
// pull food in a run.
type GravityActivated struct {
	PlayerRadius float64
}

func (StateChanged) Kind() EventKind     { return EventStateChanged }
func (ScoreChanged) Kind() EventKind     { return EventScoreChanged }
func (PlayerDied) Kind() EventKind       { return EventPlayerDied }
func (MilestoneReached) Kind() EventKind { return EventMilestoneReached }
func (GravityActivated) Kind() EventKind { return EventGravityActivated }

// Listener receives events synchronously from inside Update or a state
// transition. Listeners must not call back into the Game.
type Listener func(Event)

// eventBus keeps observer lists per event kind.
type eventBus struct {
	byKind map[EventKind][]Listener
	all    []Listener
}

func newEventBus() *eventBus {
	return &eventBus{byKind: make(map[EventKind][]Listener)}
}

func (b *eventBus) subscribe(kind EventKind, fn Listener) {
	b.byKind[kind] = append(b.byKind[kind], fn)
}

func (b *eventBus) subscribeAll(fn Listener) {
	b.all = append(b.all, fn)
}

func (b *eventBus) emit(ev Event) {
	for _, fn := range b.byKind[ev.Kind()] {
		fn(ev)
	}
	for _, fn := range b.all {
		fn(ev)
	}
}
