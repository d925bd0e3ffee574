package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Entity is the player-controlled body. X is fixed for the whole round; Y and
// Vel are only ever changed by Advance and Impulse.
type Entity struct {
	X      float64 // Left edge
	Y      float64 // Top edge
	Vel    float64 // Vertical velocity, positive = down
	Width  float64
	Height float64

	gravity float64
	impulse float64
}

// newEntity places the entity at the vertical midpoint, at rest.
func newEntity(cfg config.FlappyConfig) Entity {
	return Entity{
		X:       cfg.Player.X,
		Y:       cfg.Playfield.Height / 2,
		Vel:     0,
		Width:   cfg.Player.Width,
		Height:  cfg.Player.Height,
		gravity: cfg.Physics.Gravity,
		impulse: cfg.Physics.Impulse,
	}
}

// Advance integrates one step of dt ticks: gravity is added to the velocity
// first, then the new velocity moves the entity. No clamping is done here;
// leaving the playfield is the collision detector's business.
func (e *Entity) Advance(dt float64) {
	e.Vel += e.gravity * dt
	e.Y += e.Vel * dt
}

// Impulse overwrites the velocity with the configured upward impulse.
func (e *Entity) Impulse() {
	e.Vel = e.impulse
}

// Box returns the entity's hitbox.
func (e Entity) Box() core.Box {
	return core.NewBox(e.X, e.Y, e.Width, e.Height)
}
