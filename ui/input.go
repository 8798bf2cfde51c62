package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobworld/game"
)

// KeyboardInput polls raylib for movement keys. WASD and the arrow keys are
// both bound.
type KeyboardInput struct {
	bindings map[game.Action][]int32
}

// NewKeyboardInput creates the default key bindings.
func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{
		bindings: map[game.Action][]int32{
			game.MoveUp:    {rl.KeyW, rl.KeyUp},
			game.MoveDown:  {rl.KeyS, rl.KeyDown},
			game.MoveLeft:  {rl.KeyA, rl.KeyLeft},
			game.MoveRight: {rl.KeyD, rl.KeyRight},
		},
	}
}

// IsActionActive implements game.Input.
func (k *KeyboardInput) IsActionActive(a game.Action) bool {
	for _, key := range k.bindings[a] {
		if rl.IsKeyDown(key) {
			return true
		}
	}
	return false
}
