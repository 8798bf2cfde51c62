package game

import (
	"testing"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

func TestInputDirection(t *testing.T) {
	var k KeyState
	if dx, dy := inputDirection(&k); dx != 0 || dy != 0 {
		t.Errorf("idle direction = %v,%v", dx, dy)
	}

	k.Set(MoveUp, true)
	k.Set(MoveRight, true)
	if dx, dy := inputDirection(&k); dx != 1 || dy != -1 {
		t.Errorf("up-right direction = %v,%v, want 1,-1", dx, dy)
	}

	k.Set(MoveLeft, true)
	if dx, _ := inputDirection(&k); dx != 0 {
		t.Errorf("opposing keys dx = %v, want 0", dx)
	}

	if dx, dy := inputDirection(nil); dx != 0 || dy != 0 {
		t.Error("nil input should be idle")
	}
}

func TestAutopilotSteering(t *testing.T) {
	player := components.Entity{Kind: components.KindPlayer, Radius: 20}

	tests := []struct {
		name  string
		other components.Entity
		want  Action
	}{
		{"chases food", components.Entity{Kind: components.KindFood, X: 100, Radius: 5}, MoveRight},
		{"chases small enemy", components.Entity{Kind: components.KindEnemy, Y: 100, Radius: 8}, MoveDown},
		{"flees large enemy", components.Entity{Kind: components.KindEnemy, X: 100, Radius: 40}, MoveLeft},
		{"avoids black hole", components.Entity{Kind: components.KindBlackHole, Y: -60, Radius: 25}, MoveDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAutopilot(config.Default())
			a.Observe(RenderState{
				HasPlayer: true,
				Player:    player,
				Entities:  []components.Entity{player, tt.other},
			})
			if !a.IsActionActive(tt.want) {
				t.Errorf("action %d not active", tt.want)
			}
		})
	}
}

func TestAutopilotExploresWhenIdle(t *testing.T) {
	a := NewAutopilot(config.Default())
	player := components.Entity{Kind: components.KindPlayer, Radius: 20}
	a.Observe(RenderState{HasPlayer: true, Player: player, Entities: []components.Entity{player}})
	if !a.IsActionActive(MoveRight) {
		t.Error("idle autopilot should head east")
	}

	a.Observe(RenderState{})
	for act := Action(0); act < actionCount; act++ {
		if a.IsActionActive(act) {
			t.Errorf("action %d active without a player", act)
		}
	}
}
