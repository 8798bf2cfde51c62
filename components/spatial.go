package components

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in world units per frame.
type Velocity struct {
	X, Y float64
}
